package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"beam-website/internal/cms"
	"beam-website/internal/content"
	"beam-website/internal/models"
	"beam-website/pkg/logger"
)

const slugPageSize = 100

// findBySlug fetches a collection filtered by slug. Zero matches is
// ErrNotFound; several matches keep the first and log a warning.
func findBySlug[T any](ctx context.Context, fetcher ContentFetcher, path, slug string, populate cms.Populate) (*content.Entity[T], error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrNotFound
	}

	env, err := fetcher.Fetch(ctx, path, cms.Query{
		Filters:  []cms.Filter{cms.Eq("slug", slug)},
		Populate: populate,
	})
	if err != nil {
		return nil, err
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(env.Data, &raws); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(raws) == 0 {
		return nil, ErrNotFound
	}
	if len(raws) > 1 {
		logger.FromContext(ctx).WithFields(map[string]interface{}{
			"path":    path,
			"slug":    slug,
			"matches": len(raws),
		}).Warn("Multiple records share a slug, using the first")
	}

	var entity content.Entity[T]
	if err := json.Unmarshal(raws[0], &entity); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &entity, nil
}

// findSingle fetches a single type. A missing record or a CMS 404 is ErrNotFound.
func findSingle[T any](ctx context.Context, fetcher ContentFetcher, path string, q cms.Query) (*content.Entity[T], error) {
	env, err := fetcher.Fetch(ctx, path, q)
	if err != nil {
		if cms.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, ErrNotFound
	}

	var entity content.Entity[T]
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &entity, nil
}

// listSlugs pages through a collection requesting only the slug field.
func listSlugs(ctx context.Context, fetcher ContentFetcher, path string) ([]string, error) {
	var slugs []string
	for page := 1; ; page++ {
		env, err := fetcher.Fetch(ctx, path, cms.Query{
			Pagination: &cms.Page{Page: page, PageSize: slugPageSize},
			Populate:   cms.PopulateNone(),
			Fields:     []string{"slug"},
		})
		if err != nil {
			return nil, err
		}

		var records []content.Entity[models.SlugRecord]
		if err := json.Unmarshal(env.Data, &records); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		for _, record := range records {
			if slug := strings.TrimSpace(record.Attributes.Slug); slug != "" {
				slugs = append(slugs, slug)
			}
		}

		meta := env.Meta.Pagination
		if meta == nil || page >= meta.PageCount || len(records) == 0 {
			return slugs, nil
		}
	}
}

// reservedPageSlugs are first path segments owned by built-in routes. A CMS
// page with one of these slugs is never reachable at /<slug>.
var reservedPageSlugs = map[string]bool{
	"api":     true,
	"blog":    true,
	"contact": true,
	"health":  true,
	"metrics": true,
	"static":  true,
}

// IsReservedPageSlug reports whether a page slug is shadowed by a built-in route.
func IsReservedPageSlug(slug string) bool {
	return reservedPageSlugs[strings.ToLower(strings.TrimSpace(slug))]
}

// IsReservedPostSlug reports whether a post slug collides with /blog/page/N.
func IsReservedPostSlug(slug string) bool {
	return strings.EqualFold(strings.TrimSpace(slug), "page")
}
