package utils

import (
	"fmt"
	"html/template"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode/utf8"
)

// DisplayDateLayout is the long form used for publication dates.
const DisplayDateLayout = "January 2, 2006"

type AssetModTimeFunc func(path string) (time.Time, error)

// GetTemplateFuncs returns the helpers available to layout and page
// templates. assetModTime may be nil, in which case asset URLs are left
// unversioned.
func GetTemplateFuncs(assetModTime AssetModTimeFunc) template.FuncMap {
	return template.FuncMap{
		"pathEquals": PathEquals,
		"isExternal": IsExternalURL,

		"dict": func(values ...interface{}) map[string]interface{} {
			dict := make(map[string]interface{})
			for i := 0; i+1 < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				dict[key] = values[i+1]
			}
			return dict
		},
		"asset": func(path string) string {
			if path == "" || IsExternalURL(path) || assetModTime == nil {
				return path
			}
			modTime, err := assetModTime(path)
			if err != nil || modTime.IsZero() {
				return path
			}
			separator := "?"
			if strings.Contains(path, "?") {
				separator = "&"
			}
			return fmt.Sprintf("%s%sv=%d", path, separator, modTime.Unix())
		},
	}
}

// PathEquals reports whether a menu link points at the current path. Absolute
// URLs are compared by their path.
func PathEquals(current, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		if parsed, err := url.Parse(value); err == nil && parsed.Path != "" {
			value = parsed.Path
		}
	}
	return NormalizePath(current) == NormalizePath(value)
}

// FormatDate renders t as "January 2, 2006". A zero time yields an empty string.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DisplayDateLayout)
}

// Truncate shortens s to at most length runes, adding an ellipsis when cut.
func Truncate(s string, length int) string {
	if length <= 0 || utf8.RuneCountInString(s) <= length {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:length])) + "..."
}

func IsExternalURL(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "//")
}

func NormalizePath(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "/"
	}

	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		if parsed, err := url.Parse(trimmed); err == nil {
			if parsed.Path != "" {
				trimmed = parsed.Path
			} else {
				trimmed = "/"
			}
		}
	}

	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}

	cleaned := path.Clean(trimmed)
	if cleaned == "." || cleaned == "" {
		return "/"
	}

	if cleaned != "/" && strings.HasSuffix(cleaned, "/") {
		cleaned = strings.TrimSuffix(cleaned, "/")
	}

	return cleaned
}
