// Package content unwraps the CMS relational envelope into plain optional
// values. Every relation decodes totally: a missing field, a JSON null and
// {"data": null} all mean "absent", and a record that already arrives without
// the envelope decodes to the same present relation.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

var jsonNull = []byte("null")

// ID is an opaque CMS identifier. It remembers whether it arrived as a JSON
// number or string so it marshals back in the same form.
type ID struct {
	value   string
	numeric bool
}

func NumericID(n int64) ID {
	return ID{value: strconv.FormatInt(n, 10), numeric: true}
}

func StringID(s string) ID {
	return ID{value: s}
}

func (id ID) String() string { return id.value }

func (id ID) IsZero() bool { return id.value == "" }

func (id ID) MarshalJSON() ([]byte, error) {
	if id.value == "" {
		return jsonNull, nil
	}
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		*id = ID{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID{value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid identifier %s: %w", data, err)
	}
	*id = ID{value: n.String(), numeric: true}
	return nil
}

// Entity is a CMS record: an identifier plus content-type specific attributes.
type Entity[T any] struct {
	ID         ID `json:"id"`
	Attributes T  `json:"attributes"`
}

// UnmarshalJSON accepts both {"id", "attributes": {...}} and a flat record
// whose fields are the attributes themselves.
func (e *Entity[T]) UnmarshalJSON(data []byte) error {
	var probe struct {
		ID         ID              `json:"id"`
		Attributes json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	source := []byte(probe.Attributes)
	if len(source) == 0 || bytes.Equal(bytes.TrimSpace(source), jsonNull) {
		source = data
	}

	var attrs T
	if err := json.Unmarshal(source, &attrs); err != nil {
		return err
	}

	e.ID = probe.ID
	e.Attributes = attrs
	return nil
}

// Relation is a to-one reference that may be absent.
type Relation[T any] struct {
	entity *Entity[T]
}

func Wrap[T any](entity Entity[T]) Relation[T] {
	return Relation[T]{entity: &entity}
}

func None[T any]() Relation[T] {
	return Relation[T]{}
}

// Unwrap returns the related attributes, or false when the relation is absent.
func Unwrap[T any](r Relation[T]) (T, bool) {
	return r.Get()
}

func (r Relation[T]) Present() bool { return r.entity != nil }

func (r Relation[T]) Entity() (Entity[T], bool) {
	if r.entity == nil {
		var zero Entity[T]
		return zero, false
	}
	return *r.entity, true
}

func (r Relation[T]) Get() (T, bool) {
	if r.entity == nil {
		var zero T
		return zero, false
	}
	return r.entity.Attributes, true
}

func (r Relation[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Data *Entity[T] `json:"data"`
	}{Data: r.entity})
}

// UnmarshalJSON never fails: shapes that cannot be read as an entity decode to
// an absent relation.
func (r *Relation[T]) UnmarshalJSON(data []byte) error {
	r.entity = nil

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	source := data
	if raw, ok := fields["data"]; ok {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
			return nil
		}
		source = raw
	}

	var entity Entity[T]
	if err := json.Unmarshal(source, &entity); err != nil {
		return nil
	}
	r.entity = &entity
	return nil
}

// RelationList is a to-many reference. Order is preserved as delivered.
type RelationList[T any] struct {
	items []Entity[T]
}

func WrapList[T any](items ...Entity[T]) RelationList[T] {
	return RelationList[T]{items: append([]Entity[T](nil), items...)}
}

func (l RelationList[T]) Len() int { return len(l.items) }

func (l RelationList[T]) Items() []Entity[T] {
	return append([]Entity[T](nil), l.items...)
}

// Attributes returns the attributes of every related record.
func (l RelationList[T]) Attributes() []T {
	out := make([]T, 0, len(l.items))
	for _, item := range l.items {
		out = append(out, item.Attributes)
	}
	return out
}

func (l RelationList[T]) MarshalJSON() ([]byte, error) {
	items := l.items
	if items == nil {
		items = []Entity[T]{}
	}
	return json.Marshal(struct {
		Data []Entity[T] `json:"data"`
	}{Data: items})
}

// UnmarshalJSON accepts {"data": [...]}, a bare array, or null. Elements that
// cannot be decoded are skipped.
func (l *RelationList[T]) UnmarshalJSON(data []byte) error {
	l.items = nil

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}

	source := data
	if data[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return nil
		}
		source = bytes.TrimSpace(envelope.Data)
	}
	if len(source) == 0 || source[0] != '[' {
		return nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(source, &raws); err != nil {
		return nil
	}
	for _, raw := range raws {
		var entity Entity[T]
		if err := json.Unmarshal(raw, &entity); err != nil {
			continue
		}
		l.items = append(l.items, entity)
	}
	return nil
}
