package sections

import (
	"fmt"
	"html/template"
	"net/url"
	"regexp"
	"strings"

	"beam-website/internal/content"
)

var cssColorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{3,20}|rgba?\(\s*[0-9.%\s,]+\)|hsla?\(\s*[0-9.%\s,deg]+\))$`)

// cssURLEscaper percent-encodes the characters that could close a CSS url()
// token or its quotes.
var cssURLEscaper = strings.NewReplacer(
	`'`, "%27",
	`"`, "%22",
	`(`, "%28",
	`)`, "%29",
	`\`, "%5C",
	" ", "%20",
)

func class(prefix, name string) string {
	return fmt.Sprintf("%s__%s", prefix, name)
}

func escape(value string) string {
	return template.HTMLEscapeString(value)
}

// safeURL returns value when it is a relative, fragment, http, https or mailto
// URL and "" otherwise.
func safeURL(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return ""
	}
	switch parsed.Scheme {
	case "", "http", "https", "mailto":
		return value
	}
	return ""
}

// backgroundStyle builds a background-image declaration for an attribute value,
// or "" when the URL is not allowed.
func backgroundStyle(value string) string {
	safe := safeURL(value)
	if safe == "" {
		return ""
	}
	return `background-image: url('` + cssURLEscaper.Replace(safe) + `')`
}

// safeColor returns value when it is a plain CSS colour token.
func safeColor(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || !cssColorPattern.MatchString(value) {
		return ""
	}
	return value
}

func writeImage(sb *strings.Builder, ctx RenderContext, rel content.Relation[content.Media], wrapperClass, imgClass, fallbackAlt string) bool {
	src, ok := ctx.AssetURL(rel)
	if !ok {
		return false
	}
	if src = safeURL(src); src == "" {
		return false
	}
	alt := content.AltText(rel, fallbackAlt)

	sb.WriteString(`<div class="` + wrapperClass + `">`)
	sb.WriteString(`<img class="` + imgClass + `" src="` + escape(src) + `" alt="` + escape(alt) + `" loading="lazy" />`)
	sb.WriteString(`</div>`)
	return true
}

// writeLink writes nothing when href is not an allowed URL.
func writeLink(sb *strings.Builder, href, linkClass, text string) bool {
	href = safeURL(href)
	if href == "" {
		return false
	}
	sb.WriteString(`<a href="` + escape(href) + `" class="` + linkClass + `">`)
	sb.WriteString(escape(text))
	sb.WriteString(`</a>`)
	return true
}
