package calculator

import (
	"errors"
	"slices"
	"time"
)

// DateLayout is the format of the calendar date keys in Days.
const DateLayout = "2006-01-02"

// ErrNoMembers is returned when a group has nobody whose availability could be resolved.
var ErrNoMembers = errors.New("group has no members")

// Entry is one window submitted by one user.
type Entry struct {
	UserID string
	Interval
}

// Days maps a calendar date (DateLayout) to the slots during which every
// member is free. Dates without slots are absent.
type Days map[string][]Interval

// Clone returns a deep copy of d.
func (d Days) Clone() Days {
	out := make(Days, len(d))
	for date, slots := range d {
		out[date] = slices.Clone(slots)
	}
	return out
}

// DateKey returns the calendar date of t in loc.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// ResolveDays computes, per calendar date, the windows during which all members are free.
//
// Entries are bucketed by the date of their start instant in loc (UTC when nil).
// A date is considered only when every member has at least one entry on it; its
// per-member lists are then intersected in member order. Overlapping entries of
// the same user are kept as submitted, not merged. Entries from users outside
// members and entries without positive length are ignored.
func ResolveDays(members []string, entries []Entry, loc *time.Location) (Days, error) {
	order := uniqueMembers(members)
	if len(order) == 0 {
		return nil, ErrNoMembers
	}

	required := make(map[string]struct{}, len(order))
	for _, m := range order {
		required[m] = struct{}{}
	}

	// date -> user -> windows starting on that date
	byDate := make(map[string]map[string][]Interval)
	for _, e := range entries {
		if _, ok := required[e.UserID]; !ok || !e.Valid() {
			continue
		}
		date := DateKey(e.Start, loc)
		users, ok := byDate[date]
		if !ok {
			users = make(map[string][]Interval)
			byDate[date] = users
		}
		users[e.UserID] = append(users[e.UserID], e.Interval)
	}

	days := make(Days)
	for date, users := range byDate {
		if len(users) < len(order) {
			continue
		}

		lists := make([][]Interval, 0, len(order))
		for _, m := range order {
			windows := users[m]
			slices.SortStableFunc(windows, func(a, b Interval) int {
				return a.Start.Compare(b.Start)
			})
			lists = append(lists, windows)
		}

		if common := intersectAll(lists); len(common) > 0 {
			days[date] = common
		}
	}

	return days, nil
}

// intersectAll reduces lists left to right and stops at the first empty result.
func intersectAll(lists [][]Interval) []Interval {
	if len(lists) == 0 {
		return nil
	}
	common := slices.Clone(lists[0])
	for _, next := range lists[1:] {
		common = Intersect(common, next)
		if len(common) == 0 {
			return nil
		}
	}
	return common
}

func uniqueMembers(members []string) []string {
	seen := make(map[string]struct{}, len(members))
	out := make([]string, 0, len(members))
	for _, m := range members {
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
