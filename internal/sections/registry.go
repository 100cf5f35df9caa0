package sections

import (
	"fmt"
	"sort"
	"strings"

	"beam-website/internal/content"
)

// RenderContext exposes the minimal capabilities required by section renderers.
type RenderContext interface {
	// SanitizeHTML keeps inline formatting and drops anything else. Hero and
	// call-to-action subtitles go through it.
	SanitizeHTML(input string) string
	// Markdown renders markdown source to sanitised HTML.
	Markdown(source string) string
	// AssetURL resolves a media relation to an absolute URL.
	AssetURL(rel content.Relation[content.Media]) (string, bool)
}

// Renderer renders one section into HTML. Class names are derived from prefix.
type Renderer func(ctx RenderContext, prefix string, section Section) string

// Registry maps section discriminators to renderers. It is populated once at
// start-up and only read afterwards.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry creates an empty section renderer registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Register associates a renderer with a discriminator. It returns an error when the input is invalid.
func (r *Registry) Register(discriminator string, renderer Renderer) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}

	discriminator = strings.TrimSpace(discriminator)
	if discriminator == "" {
		return fmt.Errorf("section discriminator is empty")
	}
	if renderer == nil {
		return fmt.Errorf("renderer is nil for type %s", discriminator)
	}
	if _, exists := r.renderers[discriminator]; exists {
		return fmt.Errorf("renderer already registered for type %s", discriminator)
	}

	if r.renderers == nil {
		r.renderers = make(map[string]Renderer)
	}
	r.renderers[discriminator] = renderer
	return nil
}

// MustRegister registers the renderer and panics if registration fails.
func (r *Registry) MustRegister(discriminator string, renderer Renderer) {
	if err := r.Register(discriminator, renderer); err != nil {
		panic(err)
	}
}

// Resolve retrieves the renderer for a discriminator. A miss is not an error:
// the caller should render nothing for that section.
func (r *Registry) Resolve(discriminator string) (Renderer, bool) {
	if r == nil {
		return nil, false
	}
	renderer, ok := r.renderers[strings.TrimSpace(discriminator)]
	return renderer, ok
}

// Discriminators returns the registered discriminators in sorted order.
func (r *Registry) Discriminators() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.renderers))
	for key := range r.renderers {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// typed adapts a renderer for one concrete variant. A section of any other type
// renders as nothing.
func typed[T Section](render func(ctx RenderContext, prefix string, section T) string) Renderer {
	return func(ctx RenderContext, prefix string, section Section) string {
		concrete, ok := section.(T)
		if !ok {
			return ""
		}
		return render(ctx, prefix, concrete)
	}
}
