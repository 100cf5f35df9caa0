package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"beam-website/internal/cms"
	"beam-website/internal/config"
	"beam-website/internal/content"
	"beam-website/internal/handlers"
	"beam-website/internal/middleware"
	"beam-website/internal/sections"
	"beam-website/internal/service"
	"beam-website/pkg/cache"
	"beam-website/pkg/logger"
	"beam-website/pkg/markdown"
	"beam-website/pkg/utils"
	"beam-website/web"
)

type Options struct {
	// Templates and Static default to the embedded web assets.
	Templates fs.FS
	Static    fs.FS
	// HTTPClient overrides the CMS transport.
	HTTPClient *http.Client
	// StaticLinks renders blog pagination as /blog/page/N/ paths.
	StaticLinks bool
}

// Components is the rendering pipeline shared by the server and the static
// exporter.
type Components struct {
	Client *cms.Client
	Pages  *service.PageService
	Posts  *service.PostService
	Forms  *service.FormService
	Site   *handlers.Site
}

type Application struct {
	cfg     *config.Config
	options Options

	cache      *cache.Cache
	components *Components
	rateLimits *middleware.RateLimitManager

	router *gin.Engine
	server *http.Server
}

// NewComponents wires the CMS client, services and renderer from cfg.
func NewComponents(cfg *config.Config, opts Options) (*Components, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	opts = withDefaults(cfg, opts)

	client, err := cms.NewClient(cms.Options{
		BaseURL:    cfg.CMSAPIURL,
		Token:      cfg.CMSAPIToken,
		Timeout:    cfg.CMSTimeout,
		HTTPClient: opts.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create CMS client: %w", err)
	}

	templates, err := utils.LoadTemplates(opts.Templates, "templates", utils.GetTemplateFuncs(staticModTime(opts.Static)))
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	logger.Info("Templates loaded successfully", map[string]interface{}{
		"templates": len(templates.Templates()),
	})

	pages := service.NewPageService(client)
	posts := service.NewPostService(client)
	resolver := service.NewResolver(service.NewGlobalService(client), pages, posts, service.ResolverOptions{
		DegradeOnGlobalFailure: cfg.DegradeOnGlobalFailure,
	})

	site, err := handlers.NewSite(
		resolver,
		sections.NewAssembler(sections.DefaultRegistry()),
		templates,
		markdown.New(),
		content.NewAssetResolver(cfg.AssetOrigin()),
		handlers.SiteOptions{
			SiteName:        cfg.SiteName,
			SiteDescription: cfg.SiteDescription,
			BlogPageSize:    cfg.BlogPageSize,
			StaticLinks:     opts.StaticLinks,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize site renderer: %w", err)
	}

	return &Components{
		Client: client,
		Pages:  pages,
		Posts:  posts,
		Forms:  service.NewFormService(client, cfg.ContactPath, cfg.CookieConsentPath),
		Site:   site,
	}, nil
}

func New(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	opts = withDefaults(cfg, opts)

	app := &Application{
		cfg:     cfg,
		options: opts,
	}

	if err := app.initCache(); err != nil {
		return nil, err
	}

	components, err := NewComponents(cfg, opts)
	if err != nil {
		return nil, err
	}
	app.components = components

	app.rateLimits = middleware.NewRateLimitManager(
		context.Background(),
		cfg.RateLimitRequests,
		time.Duration(cfg.RateLimitWindow)*time.Second,
	)

	app.initRouter()

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
		"cms":         a.cfg.CMSAPIURL,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if a.rateLimits != nil {
		_ = a.rateLimits.Shutdown()
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	return errors.Join(errs...)
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initCache() error {
	c, err := cache.NewCache(a.cfg.RedisURL, a.cfg.EnableCache)
	if err != nil {
		return fmt.Errorf("failed to initialize page cache: %w", err)
	}
	if c.Enabled() {
		logger.Info("Page cache enabled", map[string]interface{}{
			"revalidate": a.cfg.Revalidate().String(),
		})
	}
	a.cache = c
	return nil
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.SecurityHeadersMiddleware(a.cfg.AssetOrigin()))
	if !a.cfg.IsProduction() {
		router.Use(middleware.NoIndexMiddleware())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.StaticFS("/static", http.FS(a.options.Static))

	forms := handlers.NewFormHandler(a.components.Forms, a.cfg.IsProduction())
	api := router.Group("/api")
	api.Use(middleware.NoIndexMiddleware())
	api.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	api.Use(middleware.RateLimitMiddleware(a.rateLimits))
	{
		api.POST("/contact", forms.SubmitContact)
		api.POST("/cookie-consent", forms.CookieConsent)
	}

	site := handlers.NewSiteHandler(a.components.Site)
	pages := router.Group("")
	if a.cache.Enabled() {
		pages.Use(middleware.PageCacheMiddleware(a.cache, a.cfg.Revalidate()))
	}
	{
		pages.GET("/", site.Home)
		pages.GET("/blog", site.Blog)
		pages.GET("/blog/page/:page", site.BlogPage)
		pages.GET("/blog/:slug", site.Post)
		pages.GET("/contact", site.Contact)
		pages.GET("/:slug", site.Page)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Route not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		site.NotFound(c)
	})

	a.router = router
}

func withDefaults(cfg *config.Config, opts Options) Options {
	if opts.Templates == nil {
		opts.Templates = web.Templates()
	}
	if opts.Static == nil {
		opts.Static = StaticFS(cfg.StaticDir)
	}
	return opts
}

// StaticFS serves dir from disk when it exists so assets can be edited without
// a rebuild. Otherwise the embedded copy is used.
func StaticFS(dir string) fs.FS {
	if dir = strings.TrimSpace(dir); dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir)
		}
	}
	return web.Static()
}

// staticModTime versions /static/... asset URLs by the file's modification time.
func staticModTime(fsys fs.FS) utils.AssetModTimeFunc {
	return func(path string) (time.Time, error) {
		name := strings.TrimPrefix(filepath.ToSlash(path), "/static/")
		if i := strings.IndexByte(name, '?'); i >= 0 {
			name = name[:i]
		}
		info, err := fs.Stat(fsys, name)
		if err != nil {
			return time.Time{}, err
		}
		return info.ModTime(), nil
	}
}
