package sections

import (
	"encoding/json"
	"strings"

	"beam-website/internal/content"
)

// Discriminators of the section components known to the site.
const (
	HeroDiscriminator            = "sections.hero-section"
	FeatureListDiscriminator     = "sections.feature-section"
	ContentBlockDiscriminator    = "sections.content-section"
	TestimonialListDiscriminator = "sections.testimonial-section"
	CallToActionDiscriminator    = "sections.cta-section"
)

// KnownDiscriminators lists every discriminator with a concrete variant.
var KnownDiscriminators = []string{
	HeroDiscriminator,
	FeatureListDiscriminator,
	ContentBlockDiscriminator,
	TestimonialListDiscriminator,
	CallToActionDiscriminator,
}

// Section is the closed set of page section variants. Only types in this
// package implement it.
type Section interface {
	Discriminator() string
	isSection()
}

type HeroVariant string

const (
	HeroPrimary   HeroVariant = "primary"
	HeroSecondary HeroVariant = "secondary"
)

func (v HeroVariant) normalized() HeroVariant {
	if HeroVariant(strings.ToLower(strings.TrimSpace(string(v)))) == HeroSecondary {
		return HeroSecondary
	}
	return HeroPrimary
}

type Hero struct {
	ID              content.ID                      `json:"id"`
	Title           string                          `json:"title"`
	Subtitle        string                          `json:"subtitle,omitempty"`
	BackgroundImage content.Relation[content.Media] `json:"backgroundImage"`
	CTAText         string                          `json:"ctaText,omitempty"`
	CTALink         string                          `json:"ctaLink,omitempty"`
	Image           content.Relation[content.Media] `json:"image"`
	Variant         HeroVariant                     `json:"variant,omitempty"`
}

type Feature struct {
	ID          content.ID                      `json:"id"`
	Title       string                          `json:"title"`
	Description string                          `json:"description"`
	Icon        content.Relation[content.Media] `json:"icon"`
	Link        string                          `json:"link,omitempty"`
}

type FeatureList struct {
	ID       content.ID `json:"id"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle,omitempty"`
	Features []Feature  `json:"features"`
}

type ImagePosition string

const (
	ImageLeft  ImagePosition = "left"
	ImageRight ImagePosition = "right"
)

func (p ImagePosition) normalized() ImagePosition {
	if ImagePosition(strings.ToLower(strings.TrimSpace(string(p)))) == ImageLeft {
		return ImageLeft
	}
	return ImageRight
}

type ContentBlock struct {
	ID              content.ID                      `json:"id"`
	Title           string                          `json:"title"`
	Content         string                          `json:"content"`
	Image           content.Relation[content.Media] `json:"image"`
	ImagePosition   ImagePosition                   `json:"imagePosition,omitempty"`
	BackgroundColor string                          `json:"backgroundColor,omitempty"`
}

// Testimonial is the attribute shape of a testimonial record. The CMS calls
// the role field "position".
type Testimonial struct {
	Name    string                          `json:"name"`
	Role    string                          `json:"position"`
	Company string                          `json:"company"`
	Quote   string                          `json:"quote"`
	Rating  *int                            `json:"rating,omitempty"`
	Image   content.Relation[content.Media] `json:"image"`
}

type TestimonialList struct {
	ID           content.ID                        `json:"id"`
	Title        string                            `json:"title"`
	Testimonials content.RelationList[Testimonial] `json:"testimonials"`
}

type CallToAction struct {
	ID              content.ID                      `json:"id"`
	Title           string                          `json:"title"`
	Subtitle        string                          `json:"subtitle,omitempty"`
	ButtonText      string                          `json:"buttonText"`
	ButtonLink      string                          `json:"buttonLink"`
	BackgroundImage content.Relation[content.Media] `json:"backgroundImage"`
}

// Unknown keeps a section whose discriminator has no variant, so it can be
// reported and skipped.
type Unknown struct {
	Type   string
	Fields map[string]json.RawMessage
}

func (Hero) Discriminator() string            { return HeroDiscriminator }
func (FeatureList) Discriminator() string     { return FeatureListDiscriminator }
func (ContentBlock) Discriminator() string    { return ContentBlockDiscriminator }
func (TestimonialList) Discriminator() string { return TestimonialListDiscriminator }
func (CallToAction) Discriminator() string    { return CallToActionDiscriminator }
func (u Unknown) Discriminator() string       { return u.Type }

func (Hero) isSection()            {}
func (FeatureList) isSection()     {}
func (ContentBlock) isSection()    {}
func (TestimonialList) isSection() {}
func (CallToAction) isSection()    {}
func (Unknown) isSection()         {}
