package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beam-website/internal/cms"
	"beam-website/internal/models"
	"beam-website/pkg/logger"
)

type fetchCall struct {
	Path  string
	Query cms.Query
}

type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]func(q cms.Query) (*cms.Envelope, error)
	calls     []fetchCall
}

func newFakeFetcher() *fakeFetcher {
	f := &fakeFetcher{responses: map[string]func(cms.Query) (*cms.Envelope, error){}}
	f.respond(navigationPath, `{"id": 1, "attributes": {"name": "main", "items": [
		{"id": 1, "title": "Products", "url": "/products", "order": 2},
		{"id": 2, "title": "Home", "url": "/", "order": 1},
		{"id": 3, "title": "Wallet", "url": "/wallet", "order": 1, "parent": 1}
	]}}`, nil)
	f.respond(settingsPath, `{"id": 1, "attributes": {"siteName": "Beam", "footerText": "Confidential DeFi"}}`, nil)
	return f
}

func (f *fakeFetcher) respond(path, data string, meta *cms.PaginationMeta) {
	f.responses[path] = func(cms.Query) (*cms.Envelope, error) {
		return &cms.Envelope{Data: json.RawMessage(data), Meta: cms.Meta{Pagination: meta}}, nil
	}
}

func (f *fakeFetcher) fail(path string, status int) {
	f.responses[path] = func(cms.Query) (*cms.Envelope, error) {
		return nil, &cms.FetchError{Status: status, Path: path, Err: errors.New(http.StatusText(status))}
	}
}

// meetAt makes each listed path wait until every one of them has been
// requested. Fetching them one after another times out with an error.
func (f *fakeFetcher) meetAt(paths ...string) {
	var started sync.WaitGroup
	started.Add(len(paths))
	all := make(chan struct{})
	go func() {
		started.Wait()
		close(all)
	}()

	for _, path := range paths {
		next := f.responses[path]
		var once sync.Once
		f.responses[path] = func(q cms.Query) (*cms.Envelope, error) {
			once.Do(started.Done)
			select {
			case <-all:
				return next(q)
			case <-time.After(2 * time.Second):
				return nil, errors.New(path + " was not fetched alongside " + strings.Join(paths, ", "))
			}
		}
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, path string, q cms.Query) (*cms.Envelope, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{Path: path, Query: q})
	handler, ok := f.responses[path]
	f.mu.Unlock()

	if !ok {
		return nil, &cms.FetchError{Status: http.StatusNotFound, Path: path}
	}
	return handler(q)
}

func (f *fakeFetcher) callsTo(path string) []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []fetchCall
	for _, call := range f.calls {
		if call.Path == path {
			out = append(out, call)
		}
	}
	return out
}

func newTestResolver(f *fakeFetcher, opts ResolverOptions) *Resolver {
	return NewResolver(NewGlobalService(f), NewPageService(f), NewPostService(f), opts)
}

func TestResolvePageMissingSlugIsNotFound(t *testing.T) {
	f := newFakeFetcher()
	f.respond(pagesPath, `[]`, &cms.PaginationMeta{Page: 1, PageSize: 25, PageCount: 0, Total: 0})

	res := newTestResolver(f, ResolverOptions{}).ResolvePage(context.Background(), "missing-page")

	assert.Equal(t, StateNotFound, res.State)
	assert.False(t, res.Found())
	assert.NoError(t, res.Err)

	calls := f.callsTo(pagesPath)
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Query.Filters, 1)
	assert.Equal(t, "slug", calls[0].Query.Filters[0].Field)
	assert.Equal(t, cms.OpEq, calls[0].Query.Filters[0].Operator)
	assert.Equal(t, "missing-page", calls[0].Query.Filters[0].Value)
}

func TestResolveReservedSlugLogsWarning(t *testing.T) {
	hook := test.NewLocal(logger.Logger)
	defer hook.Reset()

	f := newFakeFetcher()
	f.respond(pagesPath, `[]`, nil)
	f.respond(postsPath, `[]`, nil)
	r := newTestResolver(f, ResolverOptions{})

	r.ResolvePage(context.Background(), "contact")
	r.ResolvePage(context.Background(), "about-us")
	r.ResolvePost(context.Background(), "page")

	var shadowed []string
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && strings.Contains(entry.Message, "shadowed") {
			shadowed = append(shadowed, entry.Data["slug"].(string))
		}
	}
	assert.Equal(t, []string{"contact", "page"}, shadowed)
}

func TestReservedSlugs(t *testing.T) {
	for _, slug := range []string{"blog", "contact", " Contact ", "api", "static"} {
		assert.True(t, IsReservedPageSlug(slug), slug)
	}
	assert.False(t, IsReservedPageSlug("about-us"))
	assert.True(t, IsReservedPostSlug("page"))
	assert.False(t, IsReservedPostSlug("pages"))
}

func TestResolvePageFound(t *testing.T) {
	f := newFakeFetcher()
	f.respond(pagesPath, `[{"id": 4, "attributes": {"title": "About us", "slug": "about-us",
		"sections": [{"__component": "sections.hero-section", "id": 1, "title": "Privacy first"}]}}]`, nil)

	res := newTestResolver(f, ResolverOptions{}).ResolvePage(context.Background(), "about-us")

	require.True(t, res.Found())
	assert.Equal(t, "About us", res.Value.Attributes.Title)
	assert.Len(t, res.Value.Attributes.Sections, 1)
	require.NotNil(t, res.Global)
	assert.Equal(t, "Beam", res.Global.Settings.String("siteName"))

	items := res.Global.Navigation.Items
	require.Len(t, items, 2)
	assert.Equal(t, "Home", items[0].Title)
	assert.Equal(t, "Products", items[1].Title)
	require.Len(t, items[1].Children, 1)
	assert.Equal(t, "Wallet", items[1].Children[0].Title)
}

func TestResolvePageDuplicateSlugFirstWins(t *testing.T) {
	f := newFakeFetcher()
	f.respond(pagesPath, `[
		{"id": 1, "attributes": {"title": "First", "slug": "dup"}},
		{"id": 2, "attributes": {"title": "Second", "slug": "dup"}}
	]`, nil)

	res := newTestResolver(f, ResolverOptions{}).ResolvePage(context.Background(), "dup")

	require.True(t, res.Found())
	assert.Equal(t, "First", res.Value.Attributes.Title)
}

func TestResolveFetchErrorReportsNotFound(t *testing.T) {
	f := newFakeFetcher()
	f.fail(pagesPath, http.StatusInternalServerError)

	res := newTestResolver(f, ResolverOptions{}).ResolvePage(context.Background(), "about-us")

	assert.Equal(t, StateError, res.State)
	assert.False(t, res.Found())

	var fe *cms.FetchError
	require.ErrorAs(t, res.Err, &fe)
	assert.Equal(t, http.StatusInternalServerError, fe.Status)
}

func TestResolveMalformedSectionReportsNotFound(t *testing.T) {
	f := newFakeFetcher()
	f.respond(pagesPath, `[{"id": 1, "attributes": {"slug": "broken", "sections": [{"__component": "sections.hero-section", "title": 7}]}}]`, nil)

	res := newTestResolver(f, ResolverOptions{}).ResolvePage(context.Background(), "broken")

	assert.Equal(t, StateError, res.State)
	assert.False(t, res.Found())
}

func TestResolveGlobalFailure(t *testing.T) {
	f := newFakeFetcher()
	f.fail(settingsPath, http.StatusBadGateway)
	f.respond(pagesPath, `[{"id": 1, "attributes": {"title": "About", "slug": "about-us"}}]`, nil)

	res := newTestResolver(f, ResolverOptions{}).ResolvePage(context.Background(), "about-us")
	assert.Equal(t, StateError, res.State)
	assert.False(t, res.Found())

	// The route fetch still ran alongside the failing global fetch.
	assert.Len(t, f.callsTo(pagesPath), 1)
	assert.Len(t, f.callsTo(navigationPath), 1)

	degraded := newTestResolver(f, ResolverOptions{DegradeOnGlobalFailure: true}).ResolvePage(context.Background(), "about-us")
	require.True(t, degraded.Found())
	require.NotNil(t, degraded.Global)
	require.NotEmpty(t, degraded.Global.Navigation.Items)
	assert.Equal(t, "/", degraded.Global.Navigation.Items[0].URL)
	assert.Equal(t, "About", degraded.Value.Attributes.Title)
}

func TestResolveFetchesGlobalAndContentConcurrently(t *testing.T) {
	f := newFakeFetcher()
	f.respond(pagesPath, `[{"id": 1, "attributes": {"title": "About", "slug": "about-us"}}]`, nil)
	f.meetAt(navigationPath, pagesPath)

	res := newTestResolver(f, ResolverOptions{}).ResolvePage(context.Background(), "about-us")

	require.True(t, res.Found(), "state %s: %v", res.State, res.Err)
	assert.Equal(t, "About", res.Value.Attributes.Title)
	require.NotNil(t, res.Global)
	assert.Equal(t, "Beam", res.Global.Settings.String("siteName"))
}

func TestResolveAwaitsGlobalDataAfterContentMiss(t *testing.T) {
	f := newFakeFetcher()
	f.respond(pagesPath, `[]`, nil)
	nav := f.responses[navigationPath]
	f.responses[navigationPath] = func(q cms.Query) (*cms.Envelope, error) {
		time.Sleep(50 * time.Millisecond)
		return nav(q)
	}

	res := newTestResolver(f, ResolverOptions{}).ResolvePage(context.Background(), "missing-page")

	assert.Equal(t, StateNotFound, res.State)
	require.NotNil(t, res.Global, "global data must be collected even when the route misses")
	assert.NotEmpty(t, res.Global.Navigation.Items)
}

func TestGlobalLoadFetchesConcurrently(t *testing.T) {
	f := newFakeFetcher()
	f.meetAt(navigationPath, settingsPath)

	global, err := NewGlobalService(f).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "main", global.Navigation.Name)
	assert.Equal(t, "Confidential DeFi", global.Settings.String("footerText"))
}

func TestResolveHome(t *testing.T) {
	f := newFakeFetcher()
	f.respond(homePagePath, `{"id": 1, "attributes": {"title": "Beam", "slug": "home"}}`, nil)

	res := newTestResolver(f, ResolverOptions{}).ResolveHome(context.Background())
	require.True(t, res.Found())
	assert.Equal(t, "Beam", res.Value.Attributes.Title)

	f.respond(homePagePath, `null`, nil)
	res = newTestResolver(f, ResolverOptions{}).ResolveHome(context.Background())
	assert.Equal(t, StateNotFound, res.State)

	f.fail(homePagePath, http.StatusNotFound)
	res = newTestResolver(f, ResolverOptions{}).ResolveHome(context.Background())
	assert.Equal(t, StateNotFound, res.State)
}

func TestResolveBlogIndexPastLastPage(t *testing.T) {
	f := newFakeFetcher()
	f.respond(postsPath, `[]`, &cms.PaginationMeta{Page: 5, PageSize: 9, PageCount: 1, Total: 9})

	res := newTestResolver(f, ResolverOptions{}).ResolveBlogIndex(context.Background(), 5, 9)

	require.True(t, res.Found())
	assert.Empty(t, res.Value.Posts)
	assert.Equal(t, models.Pagination{Page: 5, PageSize: 9, PageCount: 1, Total: 9}, res.Value.Pagination)

	calls := f.callsTo(postsPath)
	require.Len(t, calls, 1)
	q := calls[0].Query
	require.NotNil(t, q.Pagination)
	assert.Equal(t, 5, q.Pagination.Page)
	assert.Equal(t, 9, q.Pagination.PageSize)
	require.Len(t, q.Sort, 1)
	assert.Equal(t, "publishedAt:desc", q.Sort[0].String())
}

func TestResolveBlogIndexWithoutMeta(t *testing.T) {
	f := newFakeFetcher()
	f.respond(postsPath, `[
		{"id": 1, "attributes": {"title": "One", "slug": "one", "publishedAt": "2024-05-02T00:00:00Z"}},
		{"id": 2, "attributes": {"title": "Two", "slug": "two", "publishedAt": "2024-05-01T00:00:00Z"}}
	]`, nil)

	res := newTestResolver(f, ResolverOptions{}).ResolveBlogIndex(context.Background(), 1, 9)

	require.True(t, res.Found())
	require.Len(t, res.Value.Posts, 2)
	assert.Equal(t, "One", res.Value.Posts[0].Attributes.Title)
	assert.Equal(t, models.Pagination{Page: 1, PageSize: 9, PageCount: 1, Total: 2}, res.Value.Pagination)
}

func TestResolveBlogIndexWithoutMetaLaterPage(t *testing.T) {
	f := newFakeFetcher()
	f.respond(postsPath, `[
		{"id": 3, "attributes": {"title": "Three", "slug": "three"}},
		{"id": 4, "attributes": {"title": "Four", "slug": "four"}}
	]`, nil)

	res := newTestResolver(f, ResolverOptions{}).ResolveBlogIndex(context.Background(), 2, 2)

	require.True(t, res.Found())
	assert.Equal(t, models.Pagination{Page: 2, PageSize: 2, PageCount: 3, Total: 4}, res.Value.Pagination)
}

func TestFallbackPagination(t *testing.T) {
	assert.Equal(t, models.Pagination{Page: 3, PageSize: 5, PageCount: 3, Total: 11}, fallbackPagination(3, 5, 1))
	assert.Equal(t, models.Pagination{Page: 1, PageSize: 9, PageCount: 0, Total: 0}, fallbackPagination(0, 9, 0))
}

func TestResolvePost(t *testing.T) {
	f := newFakeFetcher()
	f.respond(postsPath, `[{"id": 9, "attributes": {"title": "Launch", "slug": "launch",
		"author": {"data": {"id": 1, "attributes": {"name": "Ada"}}}}}]`, nil)

	res := newTestResolver(f, ResolverOptions{}).ResolvePost(context.Background(), "launch")
	require.True(t, res.Found())
	author, ok := res.Value.Attributes.Author.Get()
	require.True(t, ok)
	assert.Equal(t, "Ada", author.Name)
}

func TestListSlugsPagesThroughCollection(t *testing.T) {
	f := newFakeFetcher()
	f.responses[pagesPath] = func(q cms.Query) (*cms.Envelope, error) {
		meta := &cms.PaginationMeta{Page: q.Pagination.Page, PageSize: q.Pagination.PageSize, PageCount: 2, Total: 3}
		data := `[{"id": 1, "attributes": {"slug": "about-us"}}, {"id": 2, "attributes": {"slug": "careers"}}]`
		if q.Pagination.Page == 2 {
			data = `[{"id": 3, "attributes": {"slug": "privacy"}}]`
		}
		return &cms.Envelope{Data: json.RawMessage(data), Meta: cms.Meta{Pagination: meta}}, nil
	}

	slugs, err := NewPageService(f).ListSlugs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"about-us", "careers", "privacy"}, slugs)

	calls := f.callsTo(pagesPath)
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"slug"}, calls[0].Query.Fields)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "found", StateFound.String())
	assert.Equal(t, "not_found", StateNotFound.String())
	assert.Equal(t, "error", StateError.String())
}

type fakeRelay struct {
	path    string
	payload interface{}
	err     error
}

func (r *fakeRelay) Submit(_ context.Context, path string, payload interface{}) (*cms.Envelope, error) {
	r.path = path
	r.payload = payload
	return &cms.Envelope{}, r.err
}

func TestSubmitContact(t *testing.T) {
	relay := &fakeRelay{}
	forms := NewFormService(relay, "/contact-submissions", "/cookie-consents")

	err := forms.SubmitContact(context.Background(), models.ContactRequest{
		Name:       " <b>Ada</b> Lovelace ",
		Email:      "ada@example.com",
		Subject:    "Partnership",
		Message:    "We would like to integrate Beam.",
		Department: "partnerships",
	})
	require.NoError(t, err)
	assert.Equal(t, "/contact-submissions", relay.path)

	sent, ok := relay.payload.(models.ContactRequest)
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", sent.Name)
}

func TestSubmitContactRejectsInvalid(t *testing.T) {
	relay := &fakeRelay{}
	forms := NewFormService(relay, "/contact-submissions", "/cookie-consents")

	err := forms.SubmitContact(context.Background(), models.ContactRequest{
		Name:       "Ada",
		Email:      "not-an-email",
		Subject:    "Hi",
		Message:    "short",
		Department: "general",
	})
	require.Error(t, err)
	assert.Nil(t, relay.payload)
}

func TestRecordCookieConsent(t *testing.T) {
	relay := &fakeRelay{}
	forms := NewFormService(relay, "/contact-submissions", "/cookie-consents")
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	forms.now = func() time.Time { return fixed }

	require.NoError(t, forms.RecordCookieConsent(context.Background(), models.CookieConsentRequest{Consent: "accepted"}, "Mozilla/5.0"))
	payload, ok := relay.payload.(cookieConsentPayload)
	require.True(t, ok)
	assert.Equal(t, "/cookie-consents", relay.path)
	assert.True(t, payload.Accepted)
	assert.Equal(t, fixed, payload.Timestamp)

	relay.payload = nil
	err := forms.RecordCookieConsent(context.Background(), models.CookieConsentRequest{Consent: "maybe"}, "")
	require.Error(t, err)
	assert.Nil(t, relay.payload)
}
