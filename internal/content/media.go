package content

import "strings"

// Media is the attribute shape of an uploaded asset.
type Media struct {
	Name            string                 `json:"name,omitempty"`
	AlternativeText string                 `json:"alternativeText,omitempty"`
	Caption         string                 `json:"caption,omitempty"`
	Width           int                    `json:"width,omitempty"`
	Height          int                    `json:"height,omitempty"`
	Mime            string                 `json:"mime,omitempty"`
	URL             string                 `json:"url"`
	Formats         map[string]MediaFormat `json:"formats,omitempty"`
}

type MediaFormat struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// AssetResolver turns CMS media paths into absolute URLs.
type AssetResolver struct {
	origin string
}

func NewAssetResolver(origin string) *AssetResolver {
	return &AssetResolver{origin: strings.TrimRight(strings.TrimSpace(origin), "/")}
}

// ResolveAssetURL returns the absolute URL of the related media, or false when
// the relation or its url is absent.
func (r *AssetResolver) ResolveAssetURL(rel Relation[Media]) (string, bool) {
	media, ok := rel.Get()
	if !ok {
		return "", false
	}
	return r.Resolve(media.URL)
}

// Resolve prefixes a relative path with the configured origin. Absolute and
// protocol-relative URLs are returned unchanged.
func (r *AssetResolver) Resolve(path string) (string, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", false
	}

	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(path, "//") || strings.HasPrefix(lower, "data:") {
		return path, true
	}

	if r == nil || r.origin == "" {
		return path, true
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.origin + path, true
}

// AltText returns the asset's alternative text, falling back to the given text.
func AltText(rel Relation[Media], fallback string) string {
	if media, ok := rel.Get(); ok {
		if alt := strings.TrimSpace(media.AlternativeText); alt != "" {
			return alt
		}
	}
	return fallback
}
