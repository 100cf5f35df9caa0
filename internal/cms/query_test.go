package cms

import (
	"net/url"
	"reflect"
	"testing"
)

func TestQueryValues(t *testing.T) {
	cases := []struct {
		name  string
		query Query
		want  url.Values
	}{
		{
			name:  "defaults populate everything",
			query: Query{},
			want:  url.Values{"populate": {"*"}},
		},
		{
			name: "slug filter with pagination",
			query: Query{
				Filters:    []Filter{Eq("slug", "about-us")},
				Pagination: &Page{Page: 2, PageSize: 9},
			},
			want: url.Values{
				"filters[slug][$eq]":   {"about-us"},
				"pagination[page]":     {"2"},
				"pagination[pageSize]": {"9"},
				"populate":             {"*"},
			},
		},
		{
			name: "nested filter and sort order",
			query: Query{
				Filters:  []Filter{{Field: "author.name", Operator: OpContainsI, Value: "ada"}},
				Sort:     []Sort{{Field: "publishedAt", Direction: Desc}, {Field: "title"}},
				Populate: PopulateFields("author", "categories"),
			},
			want: url.Values{
				"filters[author][name][$containsi]": {"ada"},
				"sort[]":                            {"publishedAt:desc", "title:asc"},
				"populate":                          {"author,categories"},
			},
		},
		{
			name: "in filter and field selection",
			query: Query{
				Filters:  []Filter{{Field: "slug", Operator: OpIn, Values: []string{"a", "b"}}},
				Fields:   []string{"slug"},
				Populate: PopulateNone(),
			},
			want: url.Values{
				"filters[slug][$in][]": {"a", "b"},
				"fields[]":             {"slug"},
			},
		},
		{
			name:  "null operator defaults to true",
			query: Query{Filters: []Filter{{Field: "featuredImage", Operator: OpNotNull}}, Populate: PopulateNone()},
			want:  url.Values{"filters[featuredImage][$notNull]": {"true"}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.query.merge(defaultQuery).Values()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestQueryValuesRejectsInvalidInput(t *testing.T) {
	cases := []Query{
		{Filters: []Filter{{Field: "", Value: "x"}}},
		{Filters: []Filter{{Field: "author..name", Value: "x"}}},
		{Filters: []Filter{{Field: "slug", Operator: "eq", Value: "x"}}},
		{Sort: []Sort{{Field: " "}}},
	}

	for i, q := range cases {
		if _, err := q.Values(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestMergeKeepsCallerPopulate(t *testing.T) {
	q := Query{Populate: PopulateFields("author")}.merge(defaultQuery)
	values, err := q.Values()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := values.Get("populate"); got != "author" {
		t.Fatalf("expected caller populate to win, got %q", got)
	}
}
