// Package export renders every public route to static HTML files.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"beam-website/internal/handlers"
	"beam-website/internal/models"
	"beam-website/internal/service"
	"beam-website/pkg/logger"
	"beam-website/pkg/utils"
)

const (
	defaultConcurrency = 4
	staticDirName      = "static"
)

// Renderer renders a single route. *handlers.Site satisfies it.
type Renderer interface {
	Home(ctx context.Context) handlers.Rendered
	Page(ctx context.Context, slug string) handlers.Rendered
	Blog(ctx context.Context, page int) handlers.Rendered
	Post(ctx context.Context, slug string) handlers.Rendered
	Contact(ctx context.Context) handlers.Rendered
	NotFound(ctx context.Context, global *models.GlobalData) handlers.Rendered
	BlogPageSize() int
}

type Options struct {
	OutDir string
	// Static is copied to <OutDir>/static when set.
	Static      fs.FS
	Concurrency int
}

// Summary reports what a build produced.
type Summary struct {
	Written  int
	Skipped  []string
	Duration time.Duration
}

type Builder struct {
	site  Renderer
	pages service.PageUseCase
	posts service.PostUseCase
	opts  Options
}

func NewBuilder(site Renderer, pages service.PageUseCase, posts service.PostUseCase, opts Options) (*Builder, error) {
	if site == nil || pages == nil || posts == nil {
		return nil, fmt.Errorf("renderer, page and post sources are required")
	}
	if opts.OutDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Builder{site: site, pages: pages, posts: posts, opts: opts}, nil
}

type route struct {
	path   string
	render func(ctx context.Context) handlers.Rendered
}

// Build clears the output directory and writes <out>/<path>/index.html for
// every route. Routes that resolve to not found are skipped; any other
// failure aborts the build.
func (b *Builder) Build(ctx context.Context) (*Summary, error) {
	start := time.Now()
	log := logger.FromContext(ctx).WithField("out", b.opts.OutDir)

	if err := os.RemoveAll(b.opts.OutDir); err != nil {
		return nil, fmt.Errorf("failed to clean output directory: %w", err)
	}
	if err := os.MkdirAll(b.opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.opts.Static != nil {
		if err := copyFS(b.opts.Static, filepath.Join(b.opts.OutDir, staticDirName)); err != nil {
			return nil, fmt.Errorf("failed to copy static assets: %w", err)
		}
	}

	routes, err := b.routes(ctx)
	if err != nil {
		return nil, err
	}
	log.WithField("routes", len(routes)).Info("Rendering site")

	summary := &Summary{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)
	for _, r := range routes {
		g.Go(func() error {
			rendered := r.render(gctx)
			switch rendered.Status {
			case http.StatusOK:
			case http.StatusNotFound:
				mu.Lock()
				summary.Skipped = append(summary.Skipped, r.path)
				mu.Unlock()
				log.WithField("path", r.path).Warn("Skipping route with no content")
				return nil
			default:
				return fmt.Errorf("render %s: status %d", r.path, rendered.Status)
			}

			if err := b.write(r.path, rendered.Body); err != nil {
				return err
			}
			mu.Lock()
			summary.Written++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	notFound := b.site.NotFound(ctx, nil)
	if err := os.WriteFile(filepath.Join(b.opts.OutDir, "404.html"), notFound.Body, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write 404 page: %w", err)
	}

	summary.Duration = time.Since(start)
	log.WithFields(map[string]interface{}{
		"written": summary.Written,
		"skipped": len(summary.Skipped),
		"took":    summary.Duration.String(),
	}).Info("Static export completed")
	return summary, nil
}

func (b *Builder) routes(ctx context.Context) ([]route, error) {
	routes := []route{
		{path: "/", render: b.site.Home},
		{path: "/contact", render: b.site.Contact},
	}

	pageSlugs, err := b.pages.ListSlugs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	for _, slug := range pageSlugs {
		safe, ok := exportSlug(ctx, slug, service.IsReservedPageSlug)
		if !ok {
			continue
		}
		routes = append(routes, route{path: "/" + safe, render: func(ctx context.Context) handlers.Rendered {
			return b.site.Page(ctx, slug)
		}})
	}

	list, err := b.posts.List(ctx, 1, b.site.BlogPageSize())
	if err != nil && !errors.Is(err, service.ErrNotFound) {
		return nil, fmt.Errorf("failed to count blog pages: %w", err)
	}
	pageCount := 1
	if list != nil && list.Pagination.PageCount > 1 {
		pageCount = list.Pagination.PageCount
	}
	for page := 1; page <= pageCount; page++ {
		p := "/blog"
		if page > 1 {
			p = "/blog/page/" + strconv.Itoa(page)
		}
		routes = append(routes, route{path: p, render: func(ctx context.Context) handlers.Rendered {
			return b.site.Blog(ctx, page)
		}})
	}

	postSlugs, err := b.posts.ListSlugs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	for _, slug := range postSlugs {
		safe, ok := exportSlug(ctx, slug, service.IsReservedPostSlug)
		if !ok {
			continue
		}
		routes = append(routes, route{path: "/blog/" + safe, render: func(ctx context.Context) handlers.Rendered {
			return b.site.Post(ctx, slug)
		}})
	}

	return routes, nil
}

// exportSlug maps a CMS slug onto a safe directory name. Slugs that change
// under normalisation are still exported, under the normalised name. Slugs
// owned by a built-in route are skipped so they cannot overwrite its output.
func exportSlug(ctx context.Context, slug string, reserved func(string) bool) (string, bool) {
	safe := utils.GenerateSlug(slug)
	if safe == "" {
		logger.FromContext(ctx).WithField("slug", slug).Warn("Skipping route with unusable slug")
		return "", false
	}
	if reserved(safe) {
		logger.FromContext(ctx).WithField("slug", slug).Warn("Skipping route shadowed by a built-in route")
		return "", false
	}
	if safe != slug {
		logger.FromContext(ctx).WithFields(map[string]interface{}{
			"slug":   slug,
			"export": safe,
		}).Warn("Slug normalised for export")
	}
	return safe, true
}

func (b *Builder) write(routePath string, body []byte) error {
	dir := filepath.Join(b.opts.OutDir, filepath.FromSlash(path.Clean("/"+routePath)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	target := filepath.Join(dir, "index.html")
	if err := os.WriteFile(target, body, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

func copyFS(src fs.FS, dst string) error {
	return fs.WalkDir(src, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(name))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(src, name, target)
	})
}

func copyFile(src fs.FS, name, target string) error {
	in, err := src.Open(name)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
