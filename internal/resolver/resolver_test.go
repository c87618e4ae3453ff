package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/freeslots/internal/calculator"
	"github.com/mmynk/freeslots/internal/metrics"
	"github.com/mmynk/freeslots/internal/models"
)

// fakeSource is an in-memory Source.
type fakeSource struct {
	mu          sync.Mutex
	members     map[string][]string
	rows        map[string][]models.Availability
	membersErr  map[string]error
	availErr    map[string]error
	availCalls  int
	lastUserIDs []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		members:    make(map[string][]string),
		rows:       make(map[string][]models.Availability),
		membersErr: make(map[string]error),
		availErr:   make(map[string]error),
	}
}

func (f *fakeSource) GroupMemberIDs(ctx context.Context, groupID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.membersErr[groupID]; err != nil {
		return nil, err
	}
	return append([]string(nil), f.members[groupID]...), nil
}

func (f *fakeSource) GroupAvailability(ctx context.Context, groupID string, userIDs []string) ([]models.Availability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.availCalls++
	f.lastUserIDs = append([]string(nil), userIDs...)
	if err := f.availErr[groupID]; err != nil {
		return nil, err
	}
	return append([]models.Availability(nil), f.rows[groupID]...), nil
}

func (f *fakeSource) add(groupID, userID string, start, end time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[groupID] = append(f.rows[groupID], models.Availability{
		ID:      fmt.Sprintf("%s-%d", groupID, len(f.rows[groupID])),
		UserID:  userID,
		GroupID: groupID,
		Start:   start,
		End:     end,
	})
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 10, hour, minute, 0, 0, time.UTC)
}

func seedRoundTrip(src *fakeSource, groupID string) {
	src.members[groupID] = []string{"userA", "userB"}
	src.add(groupID, "userA", at(9, 0), at(11, 0))
	src.add(groupID, "userA", at(13, 0), at(15, 0))
	src.add(groupID, "userB", at(10, 0), at(14, 0))
}

func TestResolve_RoundTrip(t *testing.T) {
	src := newFakeSource()
	seedRoundTrip(src, "G")

	days, err := New(src).Resolve(context.Background(), "G")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	slots, ok := days["2024-06-10"]
	if !ok {
		t.Fatalf("expected 2024-06-10 in result, got %v", days)
	}
	want := []calculator.Interval{
		{Start: at(10, 0), End: at(11, 0)},
		{Start: at(13, 0), End: at(14, 0)},
	}
	if len(slots) != len(want) {
		t.Fatalf("slots: expected %d, got %d (%v)", len(want), len(slots), slots)
	}
	for i := range want {
		if !slots[i].Start.Equal(want[i].Start) || !slots[i].End.Equal(want[i].End) {
			t.Errorf("slot %d = %v, want %v", i, slots[i], want[i])
		}
	}

	if len(src.lastUserIDs) != 2 {
		t.Errorf("availability lookup should be restricted to members, got %v", src.lastUserIDs)
	}
}

func TestResolve_NoMembers(t *testing.T) {
	src := newFakeSource()

	days, err := New(src).Resolve(context.Background(), "empty")
	if !errors.Is(err, ErrNoMembers) {
		t.Fatalf("expected ErrNoMembers, got days=%v err=%v", days, err)
	}
	if src.availCalls != 0 {
		t.Errorf("availability should not be fetched for a group without members")
	}
}

func TestResolve_NoOverlapIsEmptySuccess(t *testing.T) {
	src := newFakeSource()
	src.members["G"] = []string{"a", "b"}
	src.add("G", "a", at(9, 0), at(10, 0))
	src.add("G", "b", at(10, 0), at(11, 0))

	days, err := New(src).Resolve(context.Background(), "G")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if days == nil || len(days) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", days)
	}
}

func TestResolve_AllPresentRequirement(t *testing.T) {
	src := newFakeSource()
	src.members["G"] = []string{"a", "b", "c"}
	src.add("G", "a", at(9, 0), at(17, 0))
	src.add("G", "b", at(9, 0), at(17, 0))

	days, err := New(src).Resolve(context.Background(), "G")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if _, ok := days["2024-06-10"]; ok {
		t.Errorf("date with a missing member must be absent, got %v", days)
	}
}

func TestResolve_FetchErrors(t *testing.T) {
	boom := errors.New("database is locked")

	tests := []struct {
		name   string
		setup  func(src *fakeSource)
		wantOp string
	}{
		{
			name:   "membership lookup fails",
			setup:  func(src *fakeSource) { src.membersErr["G"] = boom },
			wantOp: "members",
		},
		{
			name: "availability lookup fails",
			setup: func(src *fakeSource) {
				src.members["G"] = []string{"a"}
				src.availErr["G"] = boom
			},
			wantOp: "availability",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeSource()
			tt.setup(src)

			_, err := New(src).Resolve(context.Background(), "G")
			if !errors.Is(err, ErrUpstreamFetch) {
				t.Fatalf("expected ErrUpstreamFetch, got %v", err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("underlying error not preserved: %v", err)
			}
			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected *FetchError, got %T", err)
			}
			if fetchErr.Op != tt.wantOp || fetchErr.GroupID != "G" {
				t.Errorf("FetchError = %+v, want op %q for group G", fetchErr, tt.wantOp)
			}
		})
	}
}

func TestResolve_EmptyGroupID(t *testing.T) {
	_, err := New(newFakeSource()).Resolve(context.Background(), "")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestResolve_Location(t *testing.T) {
	src := newFakeSource()
	src.members["G"] = []string{"a", "b"}
	src.add("G", "a", at(22, 0), at(23, 30))
	src.add("G", "b", at(22, 30), at(23, 45))

	// 22:00 UTC is June 11 in UTC+3.
	loc := time.FixedZone("UTC+3", 3*60*60)
	days, err := New(src, WithLocation(loc)).Resolve(context.Background(), "G")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if _, ok := days["2024-06-11"]; !ok {
		t.Errorf("expected 2024-06-11 in result, got %v", days)
	}
}

func TestResolveMany_PartialSuccess(t *testing.T) {
	src := newFakeSource()
	seedRoundTrip(src, "G1")
	src.membersErr["G3"] = errors.New("connection reset")

	result, err := New(src).ResolveMany(context.Background(), []string{"G1", "G2", "G3"})
	if err != nil {
		t.Fatalf("ResolveMany failed: %v", err)
	}

	if len(result) != 1 {
		t.Fatalf("expected only G1 in result, got %v", result)
	}
	if _, ok := result["G1"]["2024-06-10"]; !ok {
		t.Errorf("expected G1 slots on 2024-06-10, got %v", result["G1"])
	}
	if _, ok := result["G2"]; ok {
		t.Error("group without members must be omitted")
	}
}

func TestResolveMany_EmptyInput(t *testing.T) {
	_, err := New(newFakeSource()).ResolveMany(context.Background(), nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestResolveMany_KeepsGroupsWithoutSlots(t *testing.T) {
	src := newFakeSource()
	src.members["quiet"] = []string{"a"}

	result, err := New(src).ResolveMany(context.Background(), []string{"quiet", "quiet", ""})
	if err != nil {
		t.Fatalf("ResolveMany failed: %v", err)
	}
	days, ok := result["quiet"]
	if !ok {
		t.Fatalf("group with members but no slots should be present, got %v", result)
	}
	if len(days) != 0 {
		t.Errorf("expected no dates, got %v", days)
	}
	if _, ok := result[""]; ok {
		t.Error("empty group id must be omitted")
	}
}

func TestResolveMany_ManyGroupsInParallel(t *testing.T) {
	src := newFakeSource()
	var ids []string
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("G%d", i)
		seedRoundTrip(src, id)
		ids = append(ids, id)
	}

	result, err := New(src, WithMaxParallel(3)).ResolveMany(context.Background(), ids)
	if err != nil {
		t.Fatalf("ResolveMany failed: %v", err)
	}
	if len(result) != len(ids) {
		t.Errorf("expected %d groups, got %d", len(ids), len(result))
	}
}

func TestResolveMany_CancelledContext(t *testing.T) {
	src := newFakeSource()
	seedRoundTrip(src, "G1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(src).ResolveMany(ctx, []string{"G1"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestResolve_CacheReturnsSameResultAndTracksChanges(t *testing.T) {
	src := newFakeSource()
	seedRoundTrip(src, "G")

	cache, err := NewCache(8)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	r := New(src, WithCache(cache))
	ctx := context.Background()

	first, err := r.Resolve(ctx, "G")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if cache.Len() != 1 {
		t.Fatalf("expected 1 cached group, got %d", cache.Len())
	}

	// Mutating a returned result must not leak into the cache.
	first["2024-06-10"][0].Start = at(0, 0)

	second, err := r.Resolve(ctx, "G")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !second["2024-06-10"][0].Start.Equal(at(10, 0)) {
		t.Errorf("cached result was mutated: %v", second)
	}

	// A new entry changes the fingerprint.
	src.members["G"] = append(src.members["G"], "userC")
	src.add("G", "userC", at(10, 30), at(13, 30))

	third, err := r.Resolve(ctx, "G")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []calculator.Interval{
		{Start: at(10, 30), End: at(11, 0)},
		{Start: at(13, 0), End: at(13, 30)},
	}
	got := third["2024-06-10"]
	if len(got) != len(want) {
		t.Fatalf("after change: got %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) {
			t.Errorf("after change slot %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFingerprint_OrderIndependent(t *testing.T) {
	rows := []models.Availability{
		{ID: "1", UserID: "a", Start: at(9, 0), End: at(10, 0)},
		{ID: "2", UserID: "b", Start: at(9, 30), End: at(11, 0)},
	}
	reversed := []models.Availability{rows[1], rows[0]}

	if fingerprint([]string{"a", "b"}, rows) != fingerprint([]string{"b", "a"}, reversed) {
		t.Error("fingerprint depends on input order")
	}

	changed := []models.Availability{rows[0], rows[1]}
	changed[1].End = at(12, 0)
	if fingerprint([]string{"a", "b"}, rows) == fingerprint([]string{"a", "b"}, changed) {
		t.Error("fingerprint ignores entry bounds")
	}
}

func TestResolve_CacheHitRecordsSlots(t *testing.T) {
	src := newFakeSource()
	seedRoundTrip(src, "G")

	cache, err := NewCache(8)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	reg := prometheus.NewRegistry()
	r := New(src, WithCache(cache), WithMetrics(metrics.New(reg)))

	for i := 0; i < 2; i++ {
		if _, err := r.Resolve(context.Background(), "G"); err != nil {
			t.Fatalf("Resolve #%d failed: %v", i+1, err)
		}
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	var found bool
	for _, mf := range families {
		if mf.GetName() != "freeslots_resolved_slots" {
			continue
		}
		found = true
		h := mf.GetMetric()[0].GetHistogram()
		if h.GetSampleCount() != 2 {
			t.Errorf("slot observations: expected 2, got %d", h.GetSampleCount())
		}
		if h.GetSampleSum() != 4 {
			t.Errorf("slot total: expected 4, got %v", h.GetSampleSum())
		}
	}
	if !found {
		t.Error("resolved slots histogram not gathered")
	}
}
