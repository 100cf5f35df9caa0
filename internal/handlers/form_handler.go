package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	govalidator "github.com/go-playground/validator/v10"

	"beam-website/internal/models"
	"beam-website/internal/service"
	"beam-website/pkg/logger"
	"beam-website/pkg/validator"
)

const (
	consentCookie    = "cookieConsent"
	consentCookieAge = 365 * 24 * time.Hour
)

type FormHandler struct {
	forms        service.FormUseCase
	secureCookie bool
}

func NewFormHandler(forms service.FormUseCase, secureCookie bool) *FormHandler {
	validator.Init()
	return &FormHandler{forms: forms, secureCookie: secureCookie}
}

func (h *FormHandler) SubmitContact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	if err := h.forms.SubmitContact(c.Request.Context(), req); err != nil {
		h.respondFailure(c, err, "contact")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Your message has been sent successfully. We will get back to you soon!",
	})
}

func (h *FormHandler) CookieConsent(c *gin.Context) {
	var req models.CookieConsentRequest
	if err := c.ShouldBind(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	if err := h.forms.RecordCookieConsent(c.Request.Context(), req, c.Request.UserAgent()); err != nil {
		h.respondFailure(c, err, "cookie_consent")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(consentCookie, req.Consent, int(consentCookieAge.Seconds()), "/", "", h.secureCookie, false)
	c.JSON(http.StatusOK, gin.H{"success": true, "consent": req.Consent})
}

func respondInvalid(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "Invalid form submission",
		"fields": validator.FieldErrors(err),
	})
}

// respondFailure hides CMS details from the client.
func (h *FormHandler) respondFailure(c *gin.Context, err error, form string) {
	var validationErrors govalidator.ValidationErrors
	if errors.As(err, &validationErrors) {
		respondInvalid(c, validationErrors)
		return
	}

	logger.FromContext(c.Request.Context()).WithError(err).WithField("form", form).Error("Failed to relay form submission")
	c.JSON(http.StatusBadGateway, gin.H{
		"error": "There was an error sending your message. Please try again later.",
	})
}
