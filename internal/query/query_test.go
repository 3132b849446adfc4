package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Spec
	}{
		{
			name: "empty query sorts by newest first",
			raw:  "",
			expected: Spec{
				Sort: []SortField{{Field: "createdAt", Desc: true}},
			},
		},
		{
			name: "select sort and equality filter",
			raw:  "careers=Other&sort=name&select=name,slug",
			expected: Spec{
				Filters:    []Condition{{Field: "careers", Op: OpEq, Values: []string{"Other"}}},
				Projection: []string{"name", "slug"},
				Sort:       []SortField{{Field: "name"}},
			},
		},
		{
			name: "comparison operators",
			raw:  "averageCost[gte]=1000&averageCost[lt]=5000&averageRating[gt]=7",
			expected: Spec{
				Filters: []Condition{
					{Field: "averageCost", Op: OpGte, Values: []string{"1000"}},
					{Field: "averageCost", Op: OpLt, Values: []string{"5000"}},
					{Field: "averageRating", Op: OpGt, Values: []string{"7"}},
				},
				Sort: []SortField{{Field: "createdAt", Desc: true}},
			},
		},
		{
			name: "in splits comma separated values",
			raw:  "careers[in]=UI/UX,Business",
			expected: Spec{
				Filters: []Condition{{Field: "careers", Op: OpIn, Values: []string{"UI/UX", "Business"}}},
				Sort:    []SortField{{Field: "createdAt", Desc: true}},
			},
		},
		{
			name: "unknown bracket token is a literal path",
			raw:  "location[city]=Boston",
			expected: Spec{
				Filters: []Condition{{Field: "location.city", Op: OpEq, Values: []string{"Boston"}}},
				Sort:    []SortField{{Field: "createdAt", Desc: true}},
			},
		},
		{
			name: "operator words in values stay literal",
			raw:  "name=gt",
			expected: Spec{
				Filters: []Condition{{Field: "name", Op: OpEq, Values: []string{"gt"}}},
				Sort:    []SortField{{Field: "createdAt", Desc: true}},
			},
		},
		{
			name: "repeated plain key becomes in",
			raw:  "careers=Business&careers=Other",
			expected: Spec{
				Filters: []Condition{{Field: "careers", Op: OpIn, Values: []string{"Business", "Other"}}},
				Sort:    []SortField{{Field: "createdAt", Desc: true}},
			},
		},
		{
			name: "multi key sort with descending",
			raw:  "sort=-averageCost, name",
			expected: Spec{
				Sort: []SortField{{Field: "averageCost", Desc: true}, {Field: "name"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)

			got := Parse(values)

			assert.ElementsMatch(t, tt.expected.Filters, got.Filters)
			assert.Equal(t, tt.expected.Projection, got.Projection)
			assert.Equal(t, tt.expected.Sort, got.Sort)
		})
	}
}

func TestParseOperator(t *testing.T) {
	for _, tok := range []string{"gt", "gte", "lt", "lte", "in"} {
		op, ok := ParseOperator(tok)
		assert.True(t, ok, tok)
		assert.Equal(t, tok, op.String())
	}

	for _, tok := range []string{"ne", "regex", "where", "$gt", "GT"} {
		_, ok := ParseOperator(tok)
		assert.False(t, ok, tok)
	}
}

func TestProject(t *testing.T) {
	type item struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Slug string `json:"slug"`
		Cost int    `json:"averageCost"`
	}
	items := []item{{ID: "1", Name: "A", Slug: "a", Cost: 10}}

	got, err := Project(items, []string{"name", "slug"})
	require.NoError(t, err)

	assert.Equal(t, []map[string]any{{"id": "1", "name": "A", "slug": "a"}}, got)

	unchanged, err := Project(items, nil)
	require.NoError(t, err)
	assert.Equal(t, items, unchanged)
}
