package handlers

import (
	"beam-website/internal/content"
	"beam-website/pkg/markdown"
)

// renderContext gives section renderers access to markdown and asset URLs.
type renderContext struct {
	markdown *markdown.Renderer
	assets   *content.AssetResolver
}

func (r renderContext) SanitizeHTML(input string) string {
	return r.markdown.Sanitize(input)
}

func (r renderContext) Markdown(source string) string {
	return r.markdown.Render(source)
}

func (r renderContext) AssetURL(rel content.Relation[content.Media]) (string, bool) {
	return r.assets.ResolveAssetURL(rel)
}
