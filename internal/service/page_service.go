package service

import (
	"context"

	"beam-website/internal/cms"
	"beam-website/internal/content"
	"beam-website/internal/models"
)

const (
	pagesPath    = "/pages"
	homePagePath = "/home-page"
)

type PageService struct {
	fetcher ContentFetcher
}

func NewPageService(fetcher ContentFetcher) *PageService {
	return &PageService{fetcher: fetcher}
}

func (s *PageService) GetBySlug(ctx context.Context, slug string) (*content.Entity[models.Page], error) {
	return findBySlug[models.Page](ctx, s.fetcher, pagesPath, slug, cms.Populate{})
}

// GetHome reads the home page single type.
func (s *PageService) GetHome(ctx context.Context) (*content.Entity[models.Page], error) {
	return findSingle[models.Page](ctx, s.fetcher, homePagePath, cms.Query{})
}

func (s *PageService) ListSlugs(ctx context.Context) ([]string, error) {
	return listSlugs(ctx, s.fetcher, pagesPath)
}
