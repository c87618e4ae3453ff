package resolver

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mmynk/freeslots/internal/calculator"
	"github.com/mmynk/freeslots/internal/models"
)

type cacheEntry struct {
	fingerprint uint64
	days        calculator.Days
}

// Cache memoizes resolved days per group. An entry is only reused while the
// group's member set and availability rows are unchanged, so reads through the
// cache are indistinguishable from fresh resolutions.
type Cache struct {
	entries *lru.Cache[string, cacheEntry]
}

// NewCache creates a cache holding results for up to size groups.
func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolve cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Get returns a copy of the cached days for groupID if the fingerprint matches.
func (c *Cache) Get(groupID string, fingerprint uint64) (calculator.Days, bool) {
	entry, ok := c.entries.Get(groupID)
	if !ok || entry.fingerprint != fingerprint {
		return nil, false
	}
	return entry.days.Clone(), true
}

// Put stores a copy of days for groupID.
func (c *Cache) Put(groupID string, fingerprint uint64, days calculator.Days) {
	c.entries.Add(groupID, cacheEntry{fingerprint: fingerprint, days: days.Clone()})
}

// Len returns the number of cached groups.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// fingerprint hashes the member set and the identity and bounds of every row.
func fingerprint(members []string, rows []models.Availability) uint64 {
	ids := slices.Clone(members)
	slices.Sort(ids)

	sorted := slices.Clone(rows)
	slices.SortFunc(sorted, func(a, b models.Availability) int {
		return strings.Compare(a.ID, b.ID)
	})

	d := xxhash.New()
	for _, id := range ids {
		d.WriteString(id)
		d.Write([]byte{0})
	}
	d.Write([]byte{1})

	var buf [8]byte
	for _, row := range sorted {
		d.WriteString(row.ID)
		d.Write([]byte{0})
		d.WriteString(row.UserID)
		d.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], uint64(row.Start.UnixNano()))
		d.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(row.End.UnixNano()))
		d.Write(buf[:])
	}
	return d.Sum64()
}
