package calculator

import (
	"testing"
	"time"
)

var day = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

// iv builds an interval on the test day from hour offsets.
func iv(startHour, endHour float64) Interval {
	return Interval{
		Start: day.Add(time.Duration(startHour * float64(time.Hour))),
		End:   day.Add(time.Duration(endHour * float64(time.Hour))),
	}
}

func equalIntervals(a, b []Interval) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Start.Equal(b[i].Start) || !a[i].End.Equal(b[i].End) {
			return false
		}
	}
	return true
}

func TestIntersect(t *testing.T) {
	tests := []struct {
		name string
		a    []Interval
		b    []Interval
		want []Interval
	}{
		{
			name: "partial overlaps on both sides",
			a:    []Interval{iv(9, 11), iv(13, 15)},
			b:    []Interval{iv(10, 14)},
			want: []Interval{iv(10, 11), iv(13, 14)},
		},
		{
			name: "touching endpoints produce nothing",
			a:    []Interval{iv(10, 20)},
			b:    []Interval{iv(20, 30)},
			want: nil,
		},
		{
			name: "containment",
			a:    []Interval{iv(8, 18)},
			b:    []Interval{iv(9, 10), iv(12, 13), iv(17, 19)},
			want: []Interval{iv(9, 10), iv(12, 13), iv(17, 18)},
		},
		{
			name: "identical lists",
			a:    []Interval{iv(1, 2), iv(3, 4)},
			b:    []Interval{iv(1, 2), iv(3, 4)},
			want: []Interval{iv(1, 2), iv(3, 4)},
		},
		{
			name: "equal ends advance second list",
			a:    []Interval{iv(9, 12), iv(12.25, 14)},
			b:    []Interval{iv(10, 12), iv(12.5, 13)},
			want: []Interval{iv(10, 12), iv(12.5, 13)},
		},
		{
			name: "disjoint lists",
			a:    []Interval{iv(1, 2), iv(5, 6)},
			b:    []Interval{iv(3, 4), iv(7, 8)},
			want: nil,
		},
		{
			name: "empty input",
			a:    nil,
			b:    []Interval{iv(1, 2)},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intersect(tt.a, tt.b)
			if !equalIntervals(got, tt.want) {
				t.Errorf("Intersect() = %v, want %v", got, tt.want)
			}
			// Each step emits at most one slot and advances one cursor.
			if len(tt.a) > 0 && len(tt.b) > 0 && len(got) > len(tt.a)+len(tt.b)-1 {
				t.Errorf("too many slots: %d from %d+%d inputs", len(got), len(tt.a), len(tt.b))
			}
		})
	}
}

func TestIntersect_CommutativeAndAssociative(t *testing.T) {
	a := []Interval{iv(0, 3), iv(5, 9), iv(11, 12), iv(14, 20)}
	b := []Interval{iv(1, 6), iv(8, 13), iv(15, 16), iv(18, 22)}
	c := []Interval{iv(2, 5.5), iv(7, 11.5), iv(15.5, 19)}

	if ab, ba := Intersect(a, b), Intersect(b, a); !equalIntervals(ab, ba) {
		t.Errorf("not commutative: %v vs %v", ab, ba)
	}

	left := Intersect(Intersect(a, b), c)
	right := Intersect(a, Intersect(b, c))
	if !equalIntervals(left, right) {
		t.Errorf("not associative: (A∩B)∩C = %v, A∩(B∩C) = %v", left, right)
	}
	if len(left) == 0 {
		t.Fatal("expected a non-empty triple intersection")
	}
}

func TestIntersect_DoesNotMutateInputs(t *testing.T) {
	a := []Interval{iv(9, 11), iv(13, 15)}
	b := []Interval{iv(10, 14)}
	aCopy := append([]Interval(nil), a...)
	bCopy := append([]Interval(nil), b...)

	Intersect(a, b)

	if !equalIntervals(a, aCopy) || !equalIntervals(b, bCopy) {
		t.Error("Intersect modified its inputs")
	}
}
