package cms

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Operator is a filter comparison understood by the CMS.
type Operator string

const (
	OpEq        Operator = "$eq"
	OpNe        Operator = "$ne"
	OpContains  Operator = "$contains"
	OpContainsI Operator = "$containsi"
	OpIn        Operator = "$in"
	OpLt        Operator = "$lt"
	OpLte       Operator = "$lte"
	OpGt        Operator = "$gt"
	OpGte       Operator = "$gte"
	OpNull      Operator = "$null"
	OpNotNull   Operator = "$notNull"
)

// Filter restricts results on one field. Dotted field names address related
// records, so "author.name" becomes filters[author][name][$eq].
type Filter struct {
	Field    string
	Operator Operator
	Value    string
	// Values is used by $in instead of Value.
	Values []string
}

func Eq(field, value string) Filter {
	return Filter{Field: field, Operator: OpEq, Value: value}
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Sort struct {
	Field     string
	Direction Direction
}

func (s Sort) String() string {
	dir := s.Direction
	if dir != Desc {
		dir = Asc
	}
	return s.Field + ":" + string(dir)
}

// Page is the 1-based pagination request.
type Page struct {
	Page     int
	PageSize int
}

// Populate selects which relations are expanded. The zero value means "use
// the client default", which expands everything.
type Populate struct {
	set    bool
	all    bool
	fields []string
}

func PopulateAll() Populate {
	return Populate{set: true, all: true}
}

func PopulateFields(fields ...string) Populate {
	return Populate{set: true, fields: append([]string(nil), fields...)}
}

// PopulateNone disables relation expansion.
func PopulateNone() Populate {
	return Populate{set: true}
}

func (p Populate) IsSet() bool { return p.set }

type Query struct {
	Filters    []Filter
	Pagination *Page
	Sort       []Sort
	Populate   Populate
	Fields     []string
}

// defaultQuery holds the parameters applied to every request unless the
// caller overrides them.
var defaultQuery = Query{Populate: PopulateAll()}

// merge layers q over the defaults. Caller settings always win.
func (q Query) merge(defaults Query) Query {
	out := q
	if !out.Populate.IsSet() {
		out.Populate = defaults.Populate
	}
	if out.Pagination == nil && defaults.Pagination != nil {
		p := *defaults.Pagination
		out.Pagination = &p
	}
	if len(out.Sort) == 0 {
		out.Sort = defaults.Sort
	}
	out.Filters = append(append([]Filter(nil), defaults.Filters...), q.Filters...)
	return out
}

// Values encodes the query using the CMS bracket syntax.
func (q Query) Values() (url.Values, error) {
	values := url.Values{}

	for _, f := range q.Filters {
		if err := encodeFilter(values, f); err != nil {
			return nil, err
		}
	}

	if q.Pagination != nil {
		if q.Pagination.Page > 0 {
			values.Set("pagination[page]", strconv.Itoa(q.Pagination.Page))
		}
		if q.Pagination.PageSize > 0 {
			values.Set("pagination[pageSize]", strconv.Itoa(q.Pagination.PageSize))
		}
	}

	for _, s := range q.Sort {
		if strings.TrimSpace(s.Field) == "" {
			return nil, fmt.Errorf("sort field is empty")
		}
		values.Add("sort[]", s.String())
	}

	switch {
	case q.Populate.all:
		values.Set("populate", "*")
	case len(q.Populate.fields) > 0:
		values.Set("populate", strings.Join(q.Populate.fields, ","))
	}

	for _, field := range q.Fields {
		values.Add("fields[]", field)
	}

	return values, nil
}

func encodeFilter(values url.Values, f Filter) error {
	field := strings.TrimSpace(f.Field)
	if field == "" {
		return fmt.Errorf("filter field is empty")
	}
	op := f.Operator
	if op == "" {
		op = OpEq
	}
	if !strings.HasPrefix(string(op), "$") {
		return fmt.Errorf("invalid filter operator %q", op)
	}

	var key strings.Builder
	key.WriteString("filters")
	for _, part := range strings.Split(field, ".") {
		if part == "" {
			return fmt.Errorf("invalid filter field %q", f.Field)
		}
		key.WriteString("[" + part + "]")
	}
	key.WriteString("[" + string(op) + "]")

	if op == OpIn {
		for _, v := range f.Values {
			values.Add(key.String()+"[]", v)
		}
		return nil
	}

	value := f.Value
	if (op == OpNull || op == OpNotNull) && value == "" {
		value = "true"
	}
	values.Add(key.String(), value)
	return nil
}
