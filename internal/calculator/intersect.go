package calculator

import "time"

// Interval is a span of time between two absolute instants. Start is always
// before End for intervals produced by this package.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the interval has positive length.
func (iv Interval) Valid() bool {
	return iv.Start.Before(iv.End)
}

// Intersect returns the intersection of two interval lists.
//
// Both inputs must be sorted by start and internally non-overlapping; they are
// not re-sorted. Overlaps of zero length (touching endpoints) are not emitted.
// The result is sorted, disjoint and freshly allocated.
func Intersect(a, b []Interval) []Interval {
	var out []Interval

	if len(a) == 0 || len(b) == 0 {
		return out
	}

	for i, j := 0, 0; i < len(a) && j < len(b); {
		start := later(a[i].Start, b[j].Start)
		end := earlier(a[i].End, b[j].End)
		if start.Before(end) {
			out = append(out, Interval{Start: start, End: end})
		}

		// Only the interval that ends first can be exhausted. On a tie the
		// second list advances.
		if a[i].End.Before(b[j].End) {
			i++
		} else {
			j++
		}
	}

	return out
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
