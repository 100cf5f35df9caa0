package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"beam-website/internal/cms"
	"beam-website/internal/content"
	"beam-website/internal/models"
	"beam-website/pkg/navigation"
)

const (
	navigationPath = "/navigation"
	settingsPath   = "/settings"
)

type GlobalService struct {
	fetcher ContentFetcher
}

func NewGlobalService(fetcher ContentFetcher) *GlobalService {
	return &GlobalService{fetcher: fetcher}
}

// Load fetches navigation and settings concurrently. Both requests always run
// to completion and any failures are joined.
func (s *GlobalService) Load(ctx context.Context) (*models.GlobalData, error) {
	var (
		g             errgroup.Group
		navigation    models.Navigation
		settings      models.Settings
		navigationErr error
		settingsErr   error
	)

	g.Go(func() error {
		entity, err := findSingle[models.Navigation](ctx, s.fetcher, navigationPath, cms.Query{})
		if err != nil {
			navigationErr = fmt.Errorf("load navigation: %w", err)
			return nil
		}
		navigation = entity.Attributes
		navigation.Items = models.BuildMenuTree(navigation.Items)
		return nil
	})

	g.Go(func() error {
		entity, err := findSingle[models.Settings](ctx, s.fetcher, settingsPath, cms.Query{})
		if err != nil {
			settingsErr = fmt.Errorf("load settings: %w", err)
			return nil
		}
		settings = entity.Attributes
		return nil
	})

	_ = g.Wait()

	if err := errors.Join(navigationErr, settingsErr); err != nil {
		return nil, err
	}
	return &models.GlobalData{Navigation: navigation, Settings: settings}, nil
}

// DefaultGlobalData is the chrome used when global data could not be loaded
// and degraded rendering is enabled.
func DefaultGlobalData() *models.GlobalData {
	links := navigation.Defaults()
	items := make([]*models.MenuItem, 0, len(links))
	for i, link := range links {
		items = append(items, &models.MenuItem{
			ID:    content.NumericID(int64(i + 1)),
			Title: link.Label,
			URL:   link.Path,
			Order: i,
		})
	}
	return &models.GlobalData{
		Navigation: models.Navigation{Name: "default", Items: items},
		Settings:   models.Settings{},
	}
}
