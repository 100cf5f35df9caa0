package sections

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const discriminatorField = "__component"

// Decode reads one dynamic-zone record into its variant. Records with an
// unrecognised or missing discriminator decode to Unknown.
func Decode(raw json.RawMessage) (Section, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("section is not an object: %w", err)
	}

	var discriminator string
	if value, ok := fields[discriminatorField]; ok {
		if err := json.Unmarshal(value, &discriminator); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", discriminatorField, err)
		}
	}
	discriminator = strings.TrimSpace(discriminator)

	switch discriminator {
	case HeroDiscriminator:
		return decodeAs[Hero](raw, discriminator)
	case FeatureListDiscriminator:
		return decodeAs[FeatureList](raw, discriminator)
	case ContentBlockDiscriminator:
		return decodeAs[ContentBlock](raw, discriminator)
	case TestimonialListDiscriminator:
		return decodeAs[TestimonialList](raw, discriminator)
	case CallToActionDiscriminator:
		return decodeAs[CallToAction](raw, discriminator)
	default:
		delete(fields, discriminatorField)
		return Unknown{Type: discriminator, Fields: fields}, nil
	}
}

func decodeAs[T Section](raw json.RawMessage, discriminator string) (Section, error) {
	var section T
	if err := json.Unmarshal(raw, &section); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", discriminator, err)
	}
	return section, nil
}

// DecodeList decodes a dynamic zone array, keeping input order.
func DecodeList(data []byte) (List, error) {
	var list List
	if err := list.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return list, nil
}

// List is an ordered sequence of sections as delivered by the CMS.
type List []Section

func (l *List) UnmarshalJSON(data []byte) error {
	*l = nil

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("sections must be an array: %w", err)
	}

	out := make(List, 0, len(raws))
	for i, raw := range raws {
		section, err := Decode(raw)
		if err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
		out = append(out, section)
	}
	*l = out
	return nil
}
