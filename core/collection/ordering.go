package collection

import (
	"strings"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

// OrderingParam is the list query parameter holding a comma-separated field list, "-" for descending.
const OrderingParam = "ordering"

type Ordering struct {
	Field     string
	Ascending bool
}

func (ord Ordering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// ParseOrdering reads "class,-percentage" into orderings.
func ParseOrdering(s string) []Ordering {
	var out []Ordering
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		out = append(out, Ordering{Field: field, Ascending: !descending})
	}
	return out
}

// less compares two records by the orderings, then by creation time. Ties keep the
// repository order.
func less(a, b core.Record, orderings []Ordering) bool {
	for _, ord := range orderings {
		c := compare(a, b, ord.Field)
		if c == 0 {
			continue
		}
		if ord.Ascending {
			return c < 0
		}
		return c > 0
	}
	return a.String(CreatedField) < b.String(CreatedField)
}

// compare orders numbers numerically and anything else as case-insensitive text. Missing
// values sort first.
func compare(a, b core.Record, field string) int {
	na, aok := a.Float(field)
	nb, bok := b.Float(field)
	if aok && bok {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(a.String(field)), strings.ToLower(b.String(field)))
}
