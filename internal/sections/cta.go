package sections

import (
	"strings"
)

// RegisterCallToAction registers the call-to-action renderer.
func RegisterCallToAction(reg *Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(CallToActionDiscriminator, typed(renderCallToAction))
}

func renderCallToAction(ctx RenderContext, prefix string, cta CallToAction) string {
	title := strings.TrimSpace(cta.Title)
	if title == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div class="` + class(prefix, "cta") + `"`)
	if background, ok := ctx.AssetURL(cta.BackgroundImage); ok {
		if style := backgroundStyle(background); style != "" {
			sb.WriteString(` style="` + escape(style) + `"`)
		}
	}
	sb.WriteString(`>`)

	sb.WriteString(`<h2 class="` + class(prefix, "cta-title") + `">` + escape(title) + `</h2>`)
	if subtitle := strings.TrimSpace(cta.Subtitle); subtitle != "" {
		sb.WriteString(`<p class="` + class(prefix, "cta-subtitle") + `">` + ctx.SanitizeHTML(subtitle) + `</p>`)
	}

	text := strings.TrimSpace(cta.ButtonText)
	link := strings.TrimSpace(cta.ButtonLink)
	if text != "" && link != "" {
		writeLink(&sb, link, class(prefix, "cta-button"), text)
	}

	sb.WriteString(`</div>`)
	return sb.String()
}
