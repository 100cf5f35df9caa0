package validator

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	initOnce sync.Once
	validate *validator.Validate
	stripper *bluemonday.Policy

	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]*$`)
	spaces       = regexp.MustCompile(`\s+`)
)

// Init prepares the shared validator and registers the custom rules on gin's
// binding engine as well. Calling it more than once is harmless.
func Init() {
	initOnce.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")

		stripper = bluemonday.StrictPolicy()

		registerCustomValidations(validate)

		if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustomValidations(engine)
		}
	})
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("slug", validateSlug)
	v.RegisterValidation("no_html", validateNoHTML)
	v.RegisterValidation("phone", validatePhone)
}

// Validate checks s against its binding tags.
func Validate(s interface{}) error {
	Init()
	return validate.Struct(s)
}

// SanitizeString removes every tag from s.
func SanitizeString(s string) string {
	Init()
	return stripper.Sanitize(s)
}

func TrimSpaces(s string) string {
	return strings.TrimSpace(s)
}

func NormalizeSpaces(s string) string {
	return spaces.ReplaceAllString(s, " ")
}

// CleanText strips markup and normalises whitespace for single-line input.
func CleanText(s string) string {
	return TrimSpaces(NormalizeSpaces(SanitizeString(s)))
}

// IsSlug reports whether s is a lowercase, hyphen separated slug.
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

func validateSlug(fl validator.FieldLevel) bool {
	return IsSlug(fl.Field().String())
}

func validateNoHTML(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return !strings.Contains(value, "<") && !strings.Contains(value, ">")
}

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

// FieldErrors flattens validation errors into field name to rule pairs.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return out
	}
	for _, fe := range validationErrors {
		out[lowerFirst(fe.Field())] = fe.Tag()
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
