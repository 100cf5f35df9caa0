package sections

import (
	"strings"
)

// RegisterContentBlock registers the rich text section renderer.
func RegisterContentBlock(reg *Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(ContentBlockDiscriminator, typed(renderContentBlock))
}

func renderContentBlock(ctx RenderContext, prefix string, block ContentBlock) string {
	title := strings.TrimSpace(block.Title)
	body := strings.TrimSpace(block.Content)
	if title == "" && body == "" {
		return ""
	}

	position := block.ImagePosition.normalized()
	blockClass := class(prefix, "content") + " " + class(prefix, "content--image-"+string(position))

	var sb strings.Builder
	sb.WriteString(`<div class="` + blockClass + `"`)
	if color := safeColor(block.BackgroundColor); color != "" {
		sb.WriteString(` style="background-color: ` + escape(color) + `"`)
	}
	sb.WriteString(`>`)

	var image strings.Builder
	hasImage := writeImage(&image, ctx, block.Image, class(prefix, "content-image"), class(prefix, "content-image-img"), title)

	if hasImage && position == ImageLeft {
		sb.WriteString(image.String())
	}

	sb.WriteString(`<div class="` + class(prefix, "content-body") + `">`)
	if title != "" {
		sb.WriteString(`<h2 class="` + class(prefix, "content-title") + `">` + escape(title) + `</h2>`)
	}
	if body != "" {
		sb.WriteString(`<div class="` + class(prefix, "content-text") + `">` + ctx.Markdown(body) + `</div>`)
	}
	sb.WriteString(`</div>`)

	if hasImage && position == ImageRight {
		sb.WriteString(image.String())
	}

	sb.WriteString(`</div>`)
	return sb.String()
}
