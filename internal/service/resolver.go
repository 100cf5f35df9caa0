package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"beam-website/internal/content"
	"beam-website/internal/models"
	"beam-website/pkg/logger"
)

// State is the outcome of resolving one route.
type State int

const (
	StatePending State = iota
	StateFound
	StateNotFound
	StateError
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFound:
		return "found"
	case StateNotFound:
		return "not_found"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Resolution carries route content together with the global data it is
// rendered with. Callers only need Found: an error is reported as not found.
// Global is also set on a miss when it loaded, so the not-found page keeps
// the site chrome.
type Resolution[T any] struct {
	State  State
	Value  T
	Global *models.GlobalData
	Err    error
}

func (r Resolution[T]) Found() bool { return r.State == StateFound }

type ResolverOptions struct {
	// DegradeOnGlobalFailure renders with default chrome instead of
	// reporting not found when global data cannot be loaded.
	DegradeOnGlobalFailure bool
}

type Resolver struct {
	global GlobalUseCase
	pages  PageUseCase
	posts  PostUseCase
	opts   ResolverOptions
}

func NewResolver(global GlobalUseCase, pages PageUseCase, posts PostUseCase, opts ResolverOptions) *Resolver {
	return &Resolver{global: global, pages: pages, posts: posts, opts: opts}
}

func (r *Resolver) ResolvePage(ctx context.Context, slug string) Resolution[*content.Entity[models.Page]] {
	if IsReservedPageSlug(slug) {
		logger.FromContext(ctx).WithField("slug", slug).Warn("Page slug is shadowed by a built-in route")
	}
	return resolve(ctx, r, "page:"+slug, func(ctx context.Context) (*content.Entity[models.Page], error) {
		return r.pages.GetBySlug(ctx, slug)
	})
}

func (r *Resolver) ResolveHome(ctx context.Context) Resolution[*content.Entity[models.Page]] {
	return resolve(ctx, r, "home", r.pages.GetHome)
}

// ResolveBlogIndex resolves one listing page. An empty page is still found.
func (r *Resolver) ResolveBlogIndex(ctx context.Context, page, pageSize int) Resolution[*models.PostList] {
	return resolve(ctx, r, "blog", func(ctx context.Context) (*models.PostList, error) {
		return r.posts.List(ctx, page, pageSize)
	})
}

func (r *Resolver) ResolvePost(ctx context.Context, slug string) Resolution[*content.Entity[models.BlogPost]] {
	if IsReservedPostSlug(slug) {
		logger.FromContext(ctx).WithField("slug", slug).Warn("Post slug is shadowed by the blog pagination route")
	}
	return resolve(ctx, r, "post:"+slug, func(ctx context.Context) (*content.Entity[models.BlogPost], error) {
		return r.posts.GetBySlug(ctx, slug)
	})
}

// ResolveGlobal loads only global data, for pages without CMS content.
func (r *Resolver) ResolveGlobal(ctx context.Context) Resolution[struct{}] {
	return resolve(ctx, r, "global", func(context.Context) (struct{}, error) {
		return struct{}{}, nil
	})
}

// resolve fetches global data and route content concurrently. Neither fetch
// cancels the other and both outcomes are inspected.
func resolve[T any](ctx context.Context, r *Resolver, route string, fetch func(context.Context) (T, error)) Resolution[T] {
	res := Resolution[T]{State: StatePending}

	var (
		g         errgroup.Group
		global    *models.GlobalData
		globalErr error
		value     T
		valueErr  error
	)
	g.Go(func() error {
		global, globalErr = r.global.Load(ctx)
		return nil
	})
	g.Go(func() error {
		value, valueErr = fetch(ctx)
		return nil
	})
	_ = g.Wait()

	log := logger.FromContext(ctx).WithField("route", route)

	switch {
	case errors.Is(valueErr, ErrNotFound):
		res.State = StateNotFound
	case valueErr != nil:
		res.State = StateError
		res.Err = valueErr
		log.WithError(valueErr).Error("Failed to resolve route content")
	case globalErr != nil && !r.opts.DegradeOnGlobalFailure:
		res.State = StateError
		res.Err = globalErr
		log.WithError(globalErr).Error("Failed to resolve global data")
	default:
		res.State = StateFound
		res.Value = value
		res.Global = global
		if globalErr != nil {
			log.WithError(globalErr).Warn("Rendering with default chrome, global data unavailable")
			res.Global = DefaultGlobalData()
		}
	}
	if res.Global == nil && globalErr == nil {
		res.Global = global
	}
	return res
}
