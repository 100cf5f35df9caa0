package sections

import (
	"strconv"
	"strings"

	"beam-website/internal/content"
)

// MaxRating is the number of stars shown next to a testimonial.
const MaxRating = 5

// RegisterTestimonials registers the testimonial list renderer.
func RegisterTestimonials(reg *Registry) {
	if reg == nil {
		return
	}
	reg.MustRegister(TestimonialListDiscriminator, typed(renderTestimonialList))
}

func renderTestimonialList(ctx RenderContext, prefix string, list TestimonialList) string {
	var items []string
	for _, entity := range list.Testimonials.Items() {
		if item := renderTestimonial(ctx, prefix, entity); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div class="` + class(prefix, "testimonials") + `">`)
	if title := strings.TrimSpace(list.Title); title != "" {
		sb.WriteString(`<h2 class="` + class(prefix, "testimonials-title") + `">` + escape(title) + `</h2>`)
	}
	sb.WriteString(`<div class="` + class(prefix, "testimonials-list") + `">`)
	for _, item := range items {
		sb.WriteString(item)
	}
	sb.WriteString(`</div>`)
	sb.WriteString(`</div>`)
	return sb.String()
}

func renderTestimonial(ctx RenderContext, prefix string, entity content.Entity[Testimonial]) string {
	t := entity.Attributes
	quote := strings.TrimSpace(t.Quote)
	if quote == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<figure class="` + class(prefix, "testimonial") + `"`)
	if !entity.ID.IsZero() {
		sb.WriteString(` data-id="` + escape(entity.ID.String()) + `"`)
	}
	sb.WriteString(`>`)

	if filled, ok := ratingStars(t.Rating); ok {
		sb.WriteString(`<div class="` + class(prefix, "testimonial-rating") + `" aria-label="` + strconv.Itoa(filled) + ` out of ` + strconv.Itoa(MaxRating) + `">`)
		for i := 0; i < MaxRating; i++ {
			starClass := class(prefix, "testimonial-star")
			if i < filled {
				starClass += " " + class(prefix, "testimonial-star--filled")
			}
			sb.WriteString(`<span class="` + starClass + `">★</span>`)
		}
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`<blockquote class="` + class(prefix, "testimonial-quote") + `">` + escape(quote) + `</blockquote>`)

	sb.WriteString(`<figcaption class="` + class(prefix, "testimonial-author") + `">`)
	writeImage(&sb, ctx, t.Image, class(prefix, "testimonial-avatar"), class(prefix, "testimonial-avatar-img"), t.Name)
	if name := strings.TrimSpace(t.Name); name != "" {
		sb.WriteString(`<span class="` + class(prefix, "testimonial-name") + `">` + escape(name) + `</span>`)
	}
	if byline := testimonialByline(t); byline != "" {
		sb.WriteString(`<span class="` + class(prefix, "testimonial-role") + `">` + escape(byline) + `</span>`)
	}
	sb.WriteString(`</figcaption>`)

	sb.WriteString(`</figure>`)
	return sb.String()
}

// ratingStars returns the number of filled stars. A missing or non-positive
// rating shows no stars at all; anything above the maximum is clamped.
func ratingStars(rating *int) (int, bool) {
	if rating == nil || *rating <= 0 {
		return 0, false
	}
	if *rating > MaxRating {
		return MaxRating, true
	}
	return *rating, true
}

func testimonialByline(t Testimonial) string {
	role := strings.TrimSpace(t.Role)
	company := strings.TrimSpace(t.Company)
	switch {
	case role != "" && company != "":
		return role + ", " + company
	case role != "":
		return role
	default:
		return company
	}
}
