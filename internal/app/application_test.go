package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beam-website/internal/config"
)

type fakeCMS struct {
	mu          sync.Mutex
	submissions []json.RawMessage
}

func (f *fakeCMS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/contact-submissions":
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.submissions = append(f.submissions, body)
		f.mu.Unlock()
		_, _ = io.WriteString(w, `{"data": {"id": 1, "attributes": {}}}`)
	case r.URL.Path == "/api/navigation":
		_, _ = io.WriteString(w, `{"data": {"id": 1, "attributes": {"name": "main", "items": [{"id": 1, "title": "Wallet", "url": "/wallet", "order": 1}]}}}`)
	case r.URL.Path == "/api/settings":
		_, _ = io.WriteString(w, `{"data": {"id": 1, "attributes": {"siteName": "Beam"}}}`)
	case r.URL.Path == "/api/home-page":
		_, _ = io.WriteString(w, `{"data": {"id": 1, "attributes": {"title": "Beam", "slug": "home",
			"sections": [{"__component": "sections.hero-section", "id": 1, "title": "Confidential DeFi"}]}}}`)
	case r.URL.Path == "/api/pages":
		if r.URL.Query().Get("filters[slug][$eq]") == "about-us" {
			_, _ = io.WriteString(w, `{"data": [{"id": 2, "attributes": {"title": "About us", "slug": "about-us", "content": "Hello"}}]}`)
			return
		}
		_, _ = io.WriteString(w, `{"data": [], "meta": {"pagination": {"page": 1, "pageSize": 25, "pageCount": 0, "total": 0}}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"data": null, "error": {"status": 404, "name": "NotFoundError", "message": "Not Found"}}`)
	}
}

func newTestApplication(t *testing.T) (*Application, *fakeCMS) {
	t.Helper()

	cms := &fakeCMS{}
	server := httptest.NewServer(cms)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Port:              "0",
		Environment:       "test",
		LogLevel:          "error",
		CMSAPIURL:         server.URL + "/api",
		CMSAssetOrigin:    server.URL,
		CMSTimeout:        2 * time.Second,
		BlogPageSize:      9,
		ContactPath:       "/contact-submissions",
		CookieConsentPath: "/cookie-consents",
		RateLimitRequests: 100,
		RateLimitWindow:   60,
		CORSOrigins:       []string{"http://localhost:3000"},
		EnableMetrics:     true,
		SiteName:          "Beam",
	}

	application, err := New(cfg, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.rateLimits.Shutdown() })
	return application, cms
}

func request(app *Application, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	app.Router().ServeHTTP(w, req)
	return w
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(&config.Config{Environment: "production", BlogPageSize: 9}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CMS_API_URL")
}

func TestHealthAndMetrics(t *testing.T) {
	application, _ := newTestApplication(t)

	w := request(application, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = request(application, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "beam_website_http_requests_total")
}

func TestServesPagesFromCMS(t *testing.T) {
	application, _ := newTestApplication(t)

	w := request(application, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Confidential DeFi")
	assert.Contains(t, w.Body.String(), "Wallet")
	// Non-production deployments are never indexed.
	assert.Equal(t, "noindex, nofollow", w.Header().Get("X-Robots-Tag"))

	w = request(application, http.MethodGet, "/about-us", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "About us | Beam")

	w = request(application, http.MethodGet, "/missing-page", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")
}

func TestServesEmbeddedStaticAssets(t *testing.T) {
	application, _ := newTestApplication(t)

	w := request(application, http.MethodGet, "/static/css/site.css", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".cookie-banner")
}

func TestUnknownAPIRouteIsJSON(t *testing.T) {
	application, _ := newTestApplication(t)

	w := request(application, http.MethodGet, "/api/unknown", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestContactSubmissionIsRelayed(t *testing.T) {
	application, cms := newTestApplication(t)

	w := request(application, http.MethodPost, "/api/contact", `{"name": "Alex <b>Doe</b>", "email": "alex@example.com",
		"subject": "Hello", "message": "I would like to know more.", "department": "general"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cms.mu.Lock()
	defer cms.mu.Unlock()
	require.Len(t, cms.submissions, 1)

	var payload struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(cms.submissions[0], &payload))
	assert.Equal(t, "Alex Doe", payload.Data["name"])
	assert.Equal(t, "general", payload.Data["department"])
}
