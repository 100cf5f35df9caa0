package sections

import (
	"strings"
)

// RegisterHero registers the hero section renderer.
func RegisterHero(reg *Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(HeroDiscriminator, typed(renderHero))
}

func renderHero(ctx RenderContext, prefix string, hero Hero) string {
	title := strings.TrimSpace(hero.Title)
	if title == "" {
		return ""
	}

	variant := hero.Variant.normalized()
	heroClass := class(prefix, "hero") + " " + class(prefix, "hero--"+string(variant))

	var sb strings.Builder
	sb.WriteString(`<div class="` + heroClass + `"`)
	if background, ok := ctx.AssetURL(hero.BackgroundImage); ok {
		if style := backgroundStyle(background); style != "" {
			sb.WriteString(` style="` + escape(style) + `"`)
		}
	}
	sb.WriteString(`>`)
	sb.WriteString(`<div class="` + class(prefix, "hero-container") + `">`)

	sb.WriteString(`<div class="` + class(prefix, "hero-content") + `">`)
	sb.WriteString(`<h1 class="` + class(prefix, "hero-title") + `">` + escape(title) + `</h1>`)

	if subtitle := strings.TrimSpace(hero.Subtitle); subtitle != "" {
		sb.WriteString(`<p class="` + class(prefix, "hero-subtitle") + `">` + ctx.SanitizeHTML(subtitle) + `</p>`)
	}

	// CTA needs both label and target.
	ctaText := strings.TrimSpace(hero.CTAText)
	ctaLink := strings.TrimSpace(hero.CTALink)
	if ctaText != "" && ctaLink != "" {
		writeLink(&sb, ctaLink, class(prefix, "hero-button"), ctaText)
	}
	sb.WriteString(`</div>`)

	writeImage(&sb, ctx, hero.Image, class(prefix, "hero-image"), class(prefix, "hero-image-img"), title)

	sb.WriteString(`</div>`)
	sb.WriteString(`</div>`)

	return sb.String()
}
