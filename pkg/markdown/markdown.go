package markdown

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts CMS markdown into sanitised HTML.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *Renderer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
			),
		),
		policy: policy,
	}
}

// Render returns sanitised HTML for source. Conversion failures yield the
// escaped source wrapped in a paragraph.
func (r *Renderer) Render(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "<p>" + r.policy.Sanitize(source) + "</p>"
	}
	return r.policy.Sanitize(buf.String())
}

// Sanitize strips markup outside the user generated content policy.
func (r *Renderer) Sanitize(input string) string {
	return r.policy.Sanitize(input)
}
