// Package resolver computes, for one or many groups, the windows during which
// every member is free. It fetches rows from a Source and delegates the
// interval math to the calculator package.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/freeslots/internal/calculator"
	"github.com/mmynk/freeslots/internal/metrics"
	"github.com/mmynk/freeslots/internal/models"
)

const defaultMaxParallel = 4

// Source supplies the rows a resolution needs. Both lookups are expected to
// observe a consistent snapshot for the duration of one call.
type Source interface {
	// GroupMemberIDs returns the user IDs of every member of the group.
	GroupMemberIDs(ctx context.Context, groupID string) ([]string, error)

	// GroupAvailability returns the group's entries submitted by any of userIDs.
	GroupAvailability(ctx context.Context, groupID string, userIDs []string) ([]models.Availability, error)
}

// Resolver resolves common availability. It is safe for concurrent use.
type Resolver struct {
	source      Source
	location    *time.Location
	cache       *Cache
	metrics     *metrics.Metrics
	logger      *slog.Logger
	maxParallel int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLocation sets the reference frame used to derive calendar dates.
// Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(r *Resolver) {
		if loc != nil {
			r.location = loc
		}
	}
}

// WithCache memoizes results per group.
func WithCache(c *Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithMetrics records resolution outcomes and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMaxParallel bounds how many groups ResolveMany resolves at once.
func WithMaxParallel(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxParallel = n
		}
	}
}

// New creates a Resolver reading from source.
func New(source Source, opts ...Option) *Resolver {
	r := &Resolver{
		source:      source,
		location:    time.UTC,
		logger:      slog.Default(),
		maxParallel: defaultMaxParallel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Location returns the reference frame used for calendar dates.
func (r *Resolver) Location() *time.Location {
	return r.location
}

// Resolve returns the common slots of every member of groupID, keyed by date.
// A group without members fails with ErrNoMembers; a group whose members have
// no common time resolves to an empty, non-nil map.
func (r *Resolver) Resolve(ctx context.Context, groupID string) (calculator.Days, error) {
	start := time.Now()
	days, err := r.resolve(ctx, groupID)
	r.metrics.ObserveResolve(metrics.ModeSingle, outcome(err), time.Since(start))
	return days, err
}

// ResolveMany resolves each group in groupIDs. Groups that fail to resolve are
// left out of the result instead of failing the call; only an empty groupIDs
// or a cancelled ctx is an error.
func (r *Resolver) ResolveMany(ctx context.Context, groupIDs []string) (map[string]calculator.Days, error) {
	if len(groupIDs) == 0 {
		r.metrics.ObserveResolve(metrics.ModeBatch, outcome(ErrInvalidInput), 0)
		return nil, fmt.Errorf("%w: at least one group id is required", ErrInvalidInput)
	}

	var (
		mu  sync.Mutex
		out = make(map[string]calculator.Days, len(groupIDs))
		g   errgroup.Group
	)
	g.SetLimit(r.maxParallel)

	seen := make(map[string]struct{}, len(groupIDs))
	for _, groupID := range groupIDs {
		if _, dup := seen[groupID]; dup {
			continue
		}
		seen[groupID] = struct{}{}

		g.Go(func() error {
			start := time.Now()
			days, err := r.resolve(ctx, groupID)
			r.metrics.ObserveResolve(metrics.ModeBatch, outcome(err), time.Since(start))
			if err != nil {
				r.logger.Warn("Group skipped in batch resolve", "group_id", groupID, "error", err)
				return nil
			}

			mu.Lock()
			out[groupID] = days
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resolver) resolve(ctx context.Context, groupID string) (calculator.Days, error) {
	if groupID == "" {
		return nil, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}

	members, err := r.source.GroupMemberIDs(ctx, groupID)
	if err != nil {
		return nil, &FetchError{Op: "members", GroupID: groupID, Err: err}
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMembers, groupID)
	}

	rows, err := r.source.GroupAvailability(ctx, groupID, members)
	if err != nil {
		return nil, &FetchError{Op: "availability", GroupID: groupID, Err: err}
	}

	days, cached, err := r.lookup(groupID, members, rows)
	if err != nil {
		return nil, err
	}

	slots := 0
	for _, s := range days {
		slots += len(s)
	}
	r.metrics.ObserveSlots(slots)
	r.logger.Debug("Group resolved",
		"group_id", groupID,
		"members_count", len(members),
		"entries_count", len(rows),
		"days_count", len(days),
		"slots_count", slots,
		"cached", cached,
	)

	return days, nil
}

// lookup returns the memoized result for the fetched rows, computing and
// storing it on a miss. Reports whether the result came from the cache.
func (r *Resolver) lookup(groupID string, members []string, rows []models.Availability) (calculator.Days, bool, error) {
	var key uint64
	if r.cache != nil {
		key = fingerprint(members, rows)
		if days, ok := r.cache.Get(groupID, key); ok {
			r.metrics.CacheHit(true)
			return days, true, nil
		}
		r.metrics.CacheHit(false)
	}

	entries := make([]calculator.Entry, len(rows))
	for i, row := range rows {
		entries[i] = calculator.Entry{
			UserID:   row.UserID,
			Interval: calculator.Interval{Start: row.Start, End: row.End},
		}
	}

	days, err := calculator.ResolveDays(members, entries, r.location)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s", err, groupID)
	}

	if r.cache != nil {
		r.cache.Put(groupID, key, days)
	}
	return days, false, nil
}
