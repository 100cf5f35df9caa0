package sections

import (
	"strings"
)

// RegisterFeatures registers the feature list renderer.
func RegisterFeatures(reg *Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(FeatureListDiscriminator, typed(renderFeatureList))
}

func renderFeatureList(ctx RenderContext, prefix string, list FeatureList) string {
	var items []string
	for _, feature := range list.Features {
		if item := renderFeature(ctx, prefix, feature); item != "" {
			items = append(items, item)
		}
	}

	title := strings.TrimSpace(list.Title)
	if len(items) == 0 && title == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div class="` + class(prefix, "features") + `">`)

	if title != "" || strings.TrimSpace(list.Subtitle) != "" {
		sb.WriteString(`<header class="` + class(prefix, "features-header") + `">`)
		if title != "" {
			sb.WriteString(`<h2 class="` + class(prefix, "features-title") + `">` + escape(title) + `</h2>`)
		}
		if subtitle := strings.TrimSpace(list.Subtitle); subtitle != "" {
			sb.WriteString(`<p class="` + class(prefix, "features-subtitle") + `">` + escape(subtitle) + `</p>`)
		}
		sb.WriteString(`</header>`)
	}

	sb.WriteString(`<div class="` + class(prefix, "features-list") + `">`)
	for _, item := range items {
		sb.WriteString(item)
	}
	sb.WriteString(`</div>`)
	sb.WriteString(`</div>`)

	return sb.String()
}

func renderFeature(ctx RenderContext, prefix string, feature Feature) string {
	title := strings.TrimSpace(feature.Title)
	description := strings.TrimSpace(feature.Description)
	if title == "" && description == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<article class="` + class(prefix, "feature") + `">`)

	writeImage(&sb, ctx, feature.Icon, class(prefix, "feature-icon"), class(prefix, "feature-icon-img"), title)

	if title != "" {
		sb.WriteString(`<h3 class="` + class(prefix, "feature-title") + `">` + escape(title) + `</h3>`)
	}
	if description != "" {
		sb.WriteString(`<p class="` + class(prefix, "feature-description") + `">` + escape(description) + `</p>`)
	}
	if link := strings.TrimSpace(feature.Link); link != "" {
		writeLink(&sb, link, class(prefix, "feature-link"), "Learn more")
	}

	sb.WriteString(`</article>`)
	return sb.String()
}
