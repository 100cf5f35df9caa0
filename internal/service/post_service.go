package service

import (
	"context"
	"encoding/json"
	"fmt"

	"beam-website/internal/cms"
	"beam-website/internal/content"
	"beam-website/internal/models"
)

const postsPath = "/blog-posts"

var (
	postListPopulate   = cms.PopulateFields("featuredImage", "categories", "author")
	postDetailPopulate = cms.PopulateFields("author", "categories", "tags", "featuredImage", "seo")
)

type PostService struct {
	fetcher ContentFetcher
}

func NewPostService(fetcher ContentFetcher) *PostService {
	return &PostService{fetcher: fetcher}
}

// List returns one page of posts, newest first. The page number is sent as
// given and the CMS pagination metadata is returned unmodified.
func (s *PostService) List(ctx context.Context, page, pageSize int) (*models.PostList, error) {
	env, err := s.fetcher.Fetch(ctx, postsPath, cms.Query{
		Pagination: &cms.Page{Page: page, PageSize: pageSize},
		Sort:       []cms.Sort{{Field: "publishedAt", Direction: cms.Desc}},
		Populate:   postListPopulate,
	})
	if err != nil {
		return nil, err
	}

	var posts []content.Entity[models.BlogPost]
	if err := json.Unmarshal(env.Data, &posts); err != nil {
		return nil, fmt.Errorf("decode %s: %w", postsPath, err)
	}
	if posts == nil {
		posts = []content.Entity[models.BlogPost]{}
	}

	pagination := fallbackPagination(page, pageSize, len(posts))
	if meta := env.Meta.Pagination; meta != nil {
		pagination = models.Pagination{
			Page:      meta.Page,
			PageSize:  meta.PageSize,
			PageCount: meta.PageCount,
			Total:     meta.Total,
		}
	}

	return &models.PostList{Posts: posts, Pagination: pagination}, nil
}

// fallbackPagination estimates pagination when the CMS omits its metadata.
// It is a best-effort lower bound: earlier pages are assumed full, and a full
// current page advertises one more page so the listing can still advance.
func fallbackPagination(page, pageSize, count int) models.Pagination {
	if page < 1 {
		page = 1
	}
	total := count
	if pageSize > 0 {
		total += (page - 1) * pageSize
	}
	pagination := models.NewPagination(page, pageSize, total)
	if pageSize > 0 && count >= pageSize {
		pagination.PageCount = page + 1
	}
	return pagination
}

func (s *PostService) GetBySlug(ctx context.Context, slug string) (*content.Entity[models.BlogPost], error) {
	return findBySlug[models.BlogPost](ctx, s.fetcher, postsPath, slug, postDetailPopulate)
}

func (s *PostService) ListSlugs(ctx context.Context) ([]string, error) {
	return listSlugs(ctx, s.fetcher, postsPath)
}
