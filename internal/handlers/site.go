package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"beam-website/internal/content"
	"beam-website/internal/models"
	"beam-website/internal/sections"
	"beam-website/internal/service"
	"beam-website/pkg/logger"
	"beam-website/pkg/markdown"
	"beam-website/pkg/utils"
)

const excerptLength = 160

type SiteOptions struct {
	SiteName        string
	SiteDescription string
	BlogPageSize    int
	// StaticLinks makes pagination link to /blog/page/N/ instead of ?page=N.
	StaticLinks bool
}

// Rendered is a complete HTML response.
type Rendered struct {
	Status int
	Body   []byte
}

// Site renders every public route to HTML. It is shared by the HTTP handlers
// and the static exporter.
type Site struct {
	resolver  *service.Resolver
	assembler *sections.Assembler
	templates *template.Template
	render    renderContext
	opts      SiteOptions
}

func NewSite(resolver *service.Resolver, assembler *sections.Assembler, templates *template.Template, md *markdown.Renderer, assets *content.AssetResolver, opts SiteOptions) (*Site, error) {
	if resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if templates == nil {
		return nil, fmt.Errorf("templates are required")
	}
	if templates.Lookup("base.html") == nil {
		return nil, fmt.Errorf("base.html template is missing")
	}
	if assembler == nil {
		assembler = sections.NewAssembler(nil)
	}
	if md == nil {
		md = markdown.New()
	}
	if assets == nil {
		assets = content.NewAssetResolver("")
	}
	if opts.BlogPageSize <= 0 {
		opts.BlogPageSize = 9
	}

	return &Site{
		resolver:  resolver,
		assembler: assembler,
		templates: templates,
		render:    renderContext{markdown: md, assets: assets},
		opts:      opts,
	}, nil
}

func (s *Site) BlogPageSize() int { return s.opts.BlogPageSize }

func (s *Site) Home(ctx context.Context) Rendered {
	res := s.resolver.ResolveHome(ctx)
	if !res.Found() {
		return s.NotFound(ctx, res.Global)
	}
	page := res.Value.Attributes

	data := s.layoutData(res.Global, "/", page.MetaTitle(), page.MetaDescription())
	s.applyMetaImage(data, page.SEO)
	data["Page"] = page
	data["Sections"] = s.renderSections(ctx, "home", page.Sections)
	if strings.TrimSpace(page.Content) != "" {
		data["Body"] = template.HTML(s.render.Markdown(page.Content))
	}
	return s.renderPage(ctx, http.StatusOK, "home", data)
}

// Page renders a generic CMS page. Pages without sections fall back to their
// title and markdown body.
func (s *Site) Page(ctx context.Context, slug string) Rendered {
	res := s.resolver.ResolvePage(ctx, slug)
	if !res.Found() {
		return s.NotFound(ctx, res.Global)
	}
	page := res.Value.Attributes

	data := s.layoutData(res.Global, "/"+slug, page.MetaTitle(), page.MetaDescription())
	s.applyMetaImage(data, page.SEO)
	data["Page"] = page
	data["Sections"] = s.renderSections(ctx, "page", page.Sections)
	data["Body"] = template.HTML(s.render.Markdown(page.Content))
	return s.renderPage(ctx, http.StatusOK, "page", data)
}

type postCard struct {
	Title      string
	URL        string
	Excerpt    string
	Date       string
	ISODate    string
	ImageURL   string
	ImageAlt   string
	Author     string
	Categories []string
}

func (s *Site) Blog(ctx context.Context, page int) Rendered {
	if page < 1 {
		page = 1
	}
	res := s.resolver.ResolveBlogIndex(ctx, page, s.opts.BlogPageSize)
	if !res.Found() {
		return s.NotFound(ctx, res.Global)
	}
	list := res.Value

	cards := make([]postCard, 0, len(list.Posts))
	for _, entity := range list.Posts {
		cards = append(cards, s.postCard(entity.Attributes))
	}

	siteName := s.siteName(res.Global)
	data := s.layoutData(res.Global, "/blog", "Blog", "Latest news, updates and insights from "+siteName)
	data["Heading"] = siteName + " Blog"
	data["Posts"] = cards
	data["Pagination"] = buildPagination(list.Pagination.Page, list.Pagination.PageCount, blogPageURL(s.opts.StaticLinks))
	data["Meta"] = list.Pagination
	return s.renderPage(ctx, http.StatusOK, "blog", data)
}

func (s *Site) Post(ctx context.Context, slug string) Rendered {
	res := s.resolver.ResolvePost(ctx, slug)
	if !res.Found() {
		return s.NotFound(ctx, res.Global)
	}
	post := res.Value.Attributes

	data := s.layoutData(res.Global, "/blog/"+slug, post.MetaTitle(), post.MetaDescription())
	s.applyMetaImage(data, post.SEO)
	data["Post"] = post
	data["Card"] = s.postCard(post)
	data["Body"] = template.HTML(s.render.Markdown(post.Content))
	data["Tags"] = relationNames(post.Tags.Attributes(), func(t models.Tag) string { return t.Name })
	if author, ok := post.Author.Get(); ok {
		if src, ok := s.render.AssetURL(author.Picture); ok {
			data["AuthorPicture"] = src
		}
	}
	if _, ok := data["OGImage"]; !ok {
		if src, ok := s.render.AssetURL(post.FeaturedImage); ok {
			data["OGImage"] = src
		}
	}
	return s.renderPage(ctx, http.StatusOK, "post", data)
}

// Contact renders the contact form. It has no CMS content of its own.
func (s *Site) Contact(ctx context.Context) Rendered {
	res := s.resolver.ResolveGlobal(ctx)
	if !res.Found() {
		return s.NotFound(ctx, res.Global)
	}
	data := s.layoutData(res.Global, "/contact", "Contact Us", "Get in touch with the "+s.siteName(res.Global)+" team")
	data["Departments"] = contactDepartments
	return s.renderPage(ctx, http.StatusOK, "contact", data)
}

// NotFound renders the generic 404 page. Missing global data falls back to
// the default chrome.
func (s *Site) NotFound(ctx context.Context, global *models.GlobalData) Rendered {
	data := s.layoutData(global, "", "Page not found", "")
	data["StatusCode"] = http.StatusNotFound
	data["Message"] = "The page you are looking for does not exist or has been moved."
	data["NoIndex"] = true
	return s.renderPage(ctx, http.StatusNotFound, "error", data)
}

type department struct {
	Value string
	Label string
}

var contactDepartments = []department{
	{Value: "general", Label: "General Inquiry"},
	{Value: "support", Label: "Customer Support"},
	{Value: "business", Label: "Business Development"},
	{Value: "partnerships", Label: "Partnerships"},
	{Value: "careers", Label: "Careers"},
	{Value: "media", Label: "Media & Press"},
}

func (s *Site) renderSections(ctx context.Context, prefix string, list sections.List) template.HTML {
	items := s.assembler.Assemble(ctx, list)
	return sections.RenderAll(s.render, prefix, items)
}

func (s *Site) postCard(post models.BlogPost) postCard {
	card := postCard{
		Title:   post.Title,
		URL:     "/blog/" + post.Slug,
		Excerpt: utils.Truncate(strings.TrimSpace(post.Excerpt), excerptLength),
		Date:    utils.FormatDate(post.PublishedAt),
	}
	if !post.PublishedAt.IsZero() {
		card.ISODate = post.PublishedAt.UTC().Format(time.RFC3339)
	}
	if src, ok := s.render.AssetURL(post.FeaturedImage); ok {
		card.ImageURL = src
		card.ImageAlt = content.AltText(post.FeaturedImage, post.Title)
	}
	if author, ok := post.Author.Get(); ok {
		card.Author = author.Name
	}
	card.Categories = relationNames(post.Categories.Attributes(), func(c models.Category) string { return c.Name })
	return card
}

func relationNames[T any](items []T, name func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if n := strings.TrimSpace(name(item)); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func (s *Site) siteName(global *models.GlobalData) string {
	if global == nil {
		return s.opts.SiteName
	}
	return global.Settings.StringOr("siteName", s.opts.SiteName)
}

func (s *Site) layoutData(global *models.GlobalData, path, title, description string) gin.H {
	if global == nil {
		global = service.DefaultGlobalData()
	}
	settings := global.Settings
	siteName := s.siteName(global)

	fullTitle := strings.TrimSpace(title)
	switch {
	case fullTitle == "":
		fullTitle = siteName
	case fullTitle != siteName:
		fullTitle = fullTitle + " | " + siteName
	}

	if strings.TrimSpace(description) == "" {
		description = settings.StringOr("siteDescription", s.opts.SiteDescription)
	}

	return gin.H{
		"Title":        fullTitle,
		"Description":  description,
		"SiteName":     siteName,
		"Navigation":   global.Navigation.Items,
		"Settings":     settings,
		"FooterText":   settings.String("footerText"),
		"ContactEmail": settings.String("contactEmail"),
		"ActivePath":   utils.NormalizePath(path),
		"Year":         time.Now().Year(),
	}
}

func (s *Site) applyMetaImage(data gin.H, seo *models.SEO) {
	if seo == nil {
		return
	}
	if src, ok := s.render.AssetURL(seo.MetaImage); ok {
		data["OGImage"] = src
	}
	if keywords := strings.TrimSpace(seo.Keywords); keywords != "" {
		data["Keywords"] = keywords
	}
}

// renderPage executes the content template, then wraps it in base.html.
func (s *Site) renderPage(ctx context.Context, status int, name string, data gin.H) Rendered {
	log := logger.FromContext(ctx)

	contentTmpl := s.templates.Lookup(name + ".html")
	if contentTmpl == nil {
		log.WithField("template", name).Error("Content template not found")
		return serverError()
	}

	var buf bytes.Buffer
	if err := contentTmpl.Execute(&buf, data); err != nil {
		log.WithError(err).WithField("template", name).Error("Failed to render content")
		return serverError()
	}
	data["Content"] = template.HTML(buf.String())

	var out bytes.Buffer
	if err := s.templates.Lookup("base.html").Execute(&out, data); err != nil {
		log.WithError(err).WithField("template", "base.html").Error("Failed to render layout")
		return serverError()
	}

	return Rendered{Status: status, Body: out.Bytes()}
}

func serverError() Rendered {
	return Rendered{
		Status: http.StatusInternalServerError,
		Body:   []byte("<!doctype html><title>Server error</title><h1>500 - Server Error</h1>"),
	}
}
