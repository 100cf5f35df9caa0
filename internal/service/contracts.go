package service

import (
	"context"
	"errors"

	"beam-website/internal/cms"
	"beam-website/internal/content"
	"beam-website/internal/models"
)

// ErrNotFound is returned when the CMS has no record for a route.
var ErrNotFound = errors.New("content not found")

// ContentFetcher reads collections and single types from the CMS.
type ContentFetcher interface {
	Fetch(ctx context.Context, path string, q cms.Query) (*cms.Envelope, error)
}

// FormRelay forwards a submission to a CMS collection.
type FormRelay interface {
	Submit(ctx context.Context, path string, payload interface{}) (*cms.Envelope, error)
}

type GlobalUseCase interface {
	Load(ctx context.Context) (*models.GlobalData, error)
}

type PageUseCase interface {
	GetBySlug(ctx context.Context, slug string) (*content.Entity[models.Page], error)
	GetHome(ctx context.Context) (*content.Entity[models.Page], error)
	ListSlugs(ctx context.Context) ([]string, error)
}

type PostUseCase interface {
	List(ctx context.Context, page, pageSize int) (*models.PostList, error)
	GetBySlug(ctx context.Context, slug string) (*content.Entity[models.BlogPost], error)
	ListSlugs(ctx context.Context) ([]string, error)
}

type FormUseCase interface {
	SubmitContact(ctx context.Context, req models.ContactRequest) error
	RecordCookieConsent(ctx context.Context, req models.CookieConsentRequest, userAgent string) error
}
