package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/fuel-price-page/internal/fuel"
)

// ErrNotFound is returned when no price data is available for an airport.
var ErrNotFound = errors.New("no price data for airport")

// MemoryStore keeps the price history in process memory. Records of an
// airport are kept sorted by capture time, so range queries are two binary
// searches.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]fuel.PriceRecord // by ICAO, oldest first

	maxEntries int           // max records per airport (<= 0 = unlimited)
	maxAge     time.Duration // max age of records (<= 0 = unlimited)
}

// NewMemoryStore creates a MemoryStore. A limit <= 0 is not applied.
func NewMemoryStore(maxEntries int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		records:    make(map[string][]fuel.PriceRecord),
		maxEntries: maxEntries,
		maxAge:     maxAge,
	}
}

// SaveRecord inserts a record at its place in capture order and applies
// retention to its airport. The newest record is always kept.
func (s *MemoryStore) SaveRecord(rec fuel.PriceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.records[rec.ICAO]
	i := sort.Search(len(recs), func(i int) bool {
		return recs[i].CapturedAt.After(rec.CapturedAt)
	})
	recs = append(recs, fuel.PriceRecord{})
	copy(recs[i+1:], recs[i:])
	recs[i] = rec

	s.records[rec.ICAO] = s.retain(recs)
	return nil
}

// retain drops the records that fall outside the count and age limits.
func (s *MemoryStore) retain(recs []fuel.PriceRecord) []fuel.PriceRecord {
	drop := 0
	if s.maxEntries > 0 && len(recs) > s.maxEntries {
		drop = len(recs) - s.maxEntries
	}
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		expired := sort.Search(len(recs), func(i int) bool {
			return !recs[i].CapturedAt.Before(cutoff)
		})
		if expired > drop {
			drop = expired
		}
	}
	if drop >= len(recs) {
		drop = len(recs) - 1
	}
	if drop <= 0 {
		return recs
	}
	// Copy so the dropped prefix can be collected.
	return append([]fuel.PriceRecord(nil), recs[drop:]...)
}

// GetLatest returns the record with the newest capture time.
func (s *MemoryStore) GetLatest(icao string) (fuel.PriceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.records[icao]
	if len(recs) == 0 {
		return fuel.PriceRecord{}, ErrNotFound
	}
	return recs[len(recs)-1], nil
}

// GetRange returns the records captured between from and to (inclusive),
// oldest first.
func (s *MemoryStore) GetRange(icao string, from, to time.Time) ([]fuel.PriceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.records[icao]
	lo := sort.Search(len(recs), func(i int) bool {
		return !recs[i].CapturedAt.Before(from)
	})
	hi := sort.Search(len(recs), func(i int) bool {
		return recs[i].CapturedAt.After(to)
	})
	if lo >= hi {
		return nil, ErrNotFound
	}
	return append([]fuel.PriceRecord(nil), recs[lo:hi]...), nil
}
