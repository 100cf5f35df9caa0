package sections

import (
	"context"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"beam-website/pkg/logger"
)

// Renderable is a recognised section paired with its renderer. Key is the
// section's position in the original list and stays stable when unknown
// neighbours are dropped.
type Renderable struct {
	Key           int
	Discriminator string
	Section       Section

	renderer Renderer
}

// Render produces the section HTML.
func (r Renderable) Render(ctx RenderContext, prefix string) string {
	if r.renderer == nil {
		return ""
	}
	return r.renderer(ctx, prefix, r.Section)
}

type Assembler struct {
	registry *Registry
}

// NewAssembler returns an assembler backed by reg, or by the default registry when reg is nil.
func NewAssembler(reg *Registry) *Assembler {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Assembler{registry: reg}
}

// Assemble maps sections to renderables in input order. Sections without a
// renderer are logged and omitted.
func (a *Assembler) Assemble(ctx context.Context, list []Section) []Renderable {
	out := make([]Renderable, 0, len(list))
	for i, section := range list {
		if section == nil {
			continue
		}
		discriminator := section.Discriminator()
		renderer, ok := a.registry.Resolve(discriminator)
		if !ok {
			logger.FromContext(ctx).WithFields(map[string]interface{}{
				"discriminator": discriminator,
				"position":      i,
			}).Warn("Unknown section type")
			unknownSections().WithLabelValues(metricLabel(discriminator)).Inc()
			continue
		}
		out = append(out, Renderable{
			Key:           i,
			Discriminator: discriminator,
			Section:       section,
			renderer:      renderer,
		})
	}
	return out
}

// RenderAll renders every item inside its section wrapper. Items that render to
// nothing are skipped.
func RenderAll(ctx RenderContext, prefix string, items []Renderable) template.HTML {
	var sb strings.Builder
	for _, item := range items {
		html := item.Render(ctx, prefix)
		if strings.TrimSpace(html) == "" {
			continue
		}
		modifier := discriminatorModifier(item.Discriminator)
		sb.WriteString(fmt.Sprintf(`<section class="%s__section %s__section--%s" id="section-%s">`,
			prefix, prefix, modifier, strconv.Itoa(item.Key)))
		sb.WriteString(html)
		sb.WriteString(`</section>`)
	}
	return template.HTML(sb.String())
}

// discriminatorModifier turns "sections.hero-section" into "hero".
func discriminatorModifier(discriminator string) string {
	name := discriminator
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.TrimSuffix(name, "-section")
	if name == "" {
		return "unknown"
	}
	return template.HTMLEscapeString(name)
}

func metricLabel(discriminator string) string {
	if strings.TrimSpace(discriminator) == "" {
		return "missing"
	}
	return discriminator
}
