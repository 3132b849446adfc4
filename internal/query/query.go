// Package query turns HTTP query parameters into a typed read specification
// that the persistence gateway can execute.
//
// Reserved parameters:
//
//	select=name,slug        projection
//	sort=name,-createdAt    ordering, a leading '-' means descending
//
// Every other parameter is a filter. A bracketed suffix selects a comparison:
//
//	averageCost[gte]=1000   averageCost >= 1000
//	careers[in]=UI/UX,Other careers in (UI/UX, Other)
package query

import (
	"net/url"
	"sort"
	"strings"
)

const (
	paramSelect = "select"
	paramSort   = "sort"

	// DefaultSortField is used when the request has no sort parameter.
	DefaultSortField = "createdAt"
)

// Operator is a comparison understood by the persistence gateway.
type Operator int

const (
	OpEq Operator = iota
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
)

var operatorTokens = map[string]Operator{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
	"in":  OpIn,
}

// ParseOperator resolves one of the fixed tokens gt, gte, lt, lte, in.
func ParseOperator(token string) (Operator, bool) {
	op, ok := operatorTokens[token]
	return op, ok
}

func (o Operator) String() string {
	switch o {
	case OpGt:
		return "gt"
	case OpGte:
		return "gte"
	case OpLt:
		return "lt"
	case OpLte:
		return "lte"
	case OpIn:
		return "in"
	default:
		return "eq"
	}
}

// Condition is a single predicate. Values has exactly one element unless Op is OpIn.
type Condition struct {
	Field  string
	Op     Operator
	Values []string
}

// Value returns the first value of the condition.
func (c Condition) Value() string {
	if len(c.Values) == 0 {
		return ""
	}
	return c.Values[0]
}

// Eq builds an equality condition.
func Eq(field, value string) Condition {
	return Condition{Field: field, Op: OpEq, Values: []string{value}}
}

// SortField is one ordering key.
type SortField struct {
	Field string
	Desc  bool
}

// Spec is the structured form of a list request.
type Spec struct {
	Filters    []Condition
	Projection []string
	Sort       []SortField
}

// Parse translates query parameters into a Spec. It never fails: unknown
// fields are left for the gateway to resolve.
func Parse(values url.Values) Spec {
	spec := Spec{
		Projection: splitList(values.Get(paramSelect)),
		Sort:       parseSort(values.Get(paramSort)),
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "" || k == paramSelect || k == paramSort {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]
		if len(vals) == 0 {
			continue
		}
		spec.Filters = append(spec.Filters, parseCondition(key, vals))
	}
	return spec
}

func parseCondition(key string, vals []string) Condition {
	field, token, bracketed := splitBracket(key)
	if bracketed {
		op, ok := ParseOperator(token)
		if !ok {
			// not an operator: a literal sub-path
			return Condition{Field: field + "." + token, Op: OpEq, Values: vals[:1]}
		}
		if op == OpIn {
			var in []string
			for _, v := range vals {
				in = append(in, splitList(v)...)
			}
			return Condition{Field: field, Op: OpIn, Values: in}
		}
		return Condition{Field: field, Op: op, Values: vals[:1]}
	}

	if len(vals) > 1 {
		return Condition{Field: key, Op: OpIn, Values: vals}
	}
	return Condition{Field: key, Op: OpEq, Values: vals}
}

// splitBracket splits "price[gt]" into ("price", "gt", true).
func splitBracket(key string) (field, token string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, "", false
	}
	token = key[open+1 : len(key)-1]
	if token == "" || strings.ContainsAny(token, "[]") {
		return key, "", false
	}
	return key[:open], token, true
}

func parseSort(raw string) []SortField {
	fields := splitList(raw)
	if len(fields) == 0 {
		return []SortField{{Field: DefaultSortField, Desc: true}}
	}

	out := make([]SortField, 0, len(fields))
	for _, f := range fields {
		desc := strings.HasPrefix(f, "-")
		name := strings.TrimLeft(f, "-+")
		if name == "" {
			continue
		}
		out = append(out, SortField{Field: name, Desc: desc})
	}
	if len(out) == 0 {
		return []SortField{{Field: DefaultSortField, Desc: true}}
	}
	return out
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
