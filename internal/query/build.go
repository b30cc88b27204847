package query

import (
	"fmt"
	"strings"
)

const (
	maxSuffix = "Max"
	minSuffix = "Min"
)

// BuildQuery renders f as a store query string.
//
// Terms are visited in insertion order. Falsy values (nil, "", 0) are
// skipped, so a meaningful zero cannot be filtered on. A top-level key ending
// in "Max" or "Min" becomes an inclusive upper or lower bound on the key
// without its suffix; nested terms always compare for equality. An empty
// filter yields "".
func BuildQuery(f *Filter) string {
	var clauses []string

	for _, t := range f.Terms() {
		if t.IsNested() {
			for _, s := range t.Nested {
				if truthy(s.Value) {
					clauses = append(clauses, fmt.Sprintf(`%s.%s = "%v"`, t.Key, s.Key, s.Value))
				}
			}
			continue
		}

		if !truthy(t.Value) {
			continue
		}

		switch {
		case strings.HasSuffix(t.Key, maxSuffix):
			clauses = append(clauses, fmt.Sprintf(`%s <= "%v"`, strings.TrimSuffix(t.Key, maxSuffix), t.Value))
		case strings.HasSuffix(t.Key, minSuffix):
			clauses = append(clauses, fmt.Sprintf(`%s >= "%v"`, strings.TrimSuffix(t.Key, minSuffix), t.Value))
		default:
			clauses = append(clauses, fmt.Sprintf(`%s = "%v"`, t.Key, t.Value))
		}
	}

	return strings.Join(clauses, " AND ")
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	default:
		return true
	}
}
