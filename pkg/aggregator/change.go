package aggregator

import "reflect"

// ChangeDetector remembers the last observed value of one field.
type ChangeDetector struct {
	last any
	seen bool
}

// Observe records v and reports whether it differs from the previous
// observation. The first observation never counts as a change.
func (c *ChangeDetector) Observe(v any) (prev any, changed bool) {
	prev, seen := c.last, c.seen
	c.last, c.seen = v, true
	if !seen {
		return nil, false
	}
	return prev, !reflect.DeepEqual(prev, v)
}
