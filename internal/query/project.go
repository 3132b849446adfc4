package query

import (
	"encoding/json"
	"fmt"
)

// IDField is always kept by Project.
const IDField = "id"

// Project reduces every item to the selected JSON fields plus id. With no
// fields the items are returned unchanged.
func Project[T any](items []T, fields []string) (any, error) {
	if len(fields) == 0 {
		return items, nil
	}

	keep := make(map[string]struct{}, len(fields)+1)
	keep[IDField] = struct{}{}
	for _, f := range fields {
		keep[f] = struct{}{}
	}

	out := make([]map[string]any, 0, len(items))
	for i := range items {
		raw, err := json.Marshal(items[i])
		if err != nil {
			return nil, fmt.Errorf("project item %d: %w", i, err)
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("project item %d: %w", i, err)
		}
		for k := range doc {
			if _, ok := keep[k]; !ok {
				delete(doc, k)
			}
		}
		out = append(out, doc)
	}
	return out, nil
}
