package service

import (
	"context"
	"time"

	"beam-website/internal/models"
	"beam-website/pkg/validator"
)

type FormService struct {
	relay       FormRelay
	contactPath string
	consentPath string
	now         func() time.Time
}

func NewFormService(relay FormRelay, contactPath, consentPath string) *FormService {
	return &FormService{
		relay:       relay,
		contactPath: contactPath,
		consentPath: consentPath,
		now:         time.Now,
	}
}

// SubmitContact strips markup from every field, validates the result and
// relays it to the CMS.
func (s *FormService) SubmitContact(ctx context.Context, req models.ContactRequest) error {
	clean := models.ContactRequest{
		Name:       validator.CleanText(req.Name),
		Email:      validator.TrimSpaces(req.Email),
		Phone:      validator.CleanText(req.Phone),
		Subject:    validator.CleanText(req.Subject),
		Message:    validator.TrimSpaces(validator.SanitizeString(req.Message)),
		Department: validator.TrimSpaces(req.Department),
	}
	if err := validator.Validate(clean); err != nil {
		return err
	}

	_, err := s.relay.Submit(ctx, s.contactPath, clean)
	return err
}

type cookieConsentPayload struct {
	Consent   string    `json:"consent"`
	Accepted  bool      `json:"accepted"`
	Timestamp time.Time `json:"timestamp"`
	UserAgent string    `json:"userAgent,omitempty"`
}

func (s *FormService) RecordCookieConsent(ctx context.Context, req models.CookieConsentRequest, userAgent string) error {
	if err := validator.Validate(req); err != nil {
		return err
	}

	_, err := s.relay.Submit(ctx, s.consentPath, cookieConsentPayload{
		Consent:   req.Consent,
		Accepted:  req.Consent == "accepted",
		Timestamp: s.now().UTC(),
		UserAgent: validator.CleanText(userAgent),
	})
	return err
}
