package fuel

import (
	"context"
	"log"
	"time"

	"github.com/i474232898/fuel-price-page/internal/cache"
)

// Service serves price records through the shared TTL cache and records
// every fresh fetch in the history store.
type Service struct {
	cache    *cache.TTLCache[PriceRecord]
	fetcher  Fetcher
	store    Store
	airports []Airport
	ttl      time.Duration
}

// NewService creates a new Service. store may be nil when no history is kept.
func NewService(c *cache.TTLCache[PriceRecord], fetcher Fetcher, store Store, airports []Airport, ttl time.Duration) *Service {
	return &Service{
		cache:    c,
		fetcher:  fetcher,
		store:    store,
		airports: airports,
		ttl:      ttl,
	}
}

// Airports returns the configured roster.
func (s *Service) Airports() []Airport {
	return s.airports
}

// CachedCount reports how many airports currently have a fresh cache entry.
func (s *Service) CachedCount() int {
	return s.cache.Len()
}

// Lookup returns the current record for a single airport. When the code is
// on the roster the roster's display name is attached.
func (s *Service) Lookup(ctx context.Context, icao string) (PriceRecord, error) {
	code, err := NormalizeICAO(icao)
	if err != nil {
		return PriceRecord{}, err
	}
	return s.get(ctx, code, s.displayName(code))
}

// Records collects the current record for every roster airport, in roster
// order. Airports that fail are logged and left out.
func (s *Service) Records(ctx context.Context) []PriceRecord {
	records := make([]PriceRecord, 0, len(s.airports))
	for _, a := range s.airports {
		rec, err := s.get(ctx, a.ICAO, a.Name)
		if err != nil {
			log.Printf("ERROR: fetching prices for %s: %v", a.ICAO, err)
			continue
		}
		records = append(records, rec)
	}
	return records
}

// History returns stored records for an airport between from and to.
func (s *Service) History(icao string, from, to time.Time) ([]PriceRecord, error) {
	code, err := NormalizeICAO(icao)
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, ErrNoHistory
	}
	return s.store.GetRange(code, from, to)
}

func (s *Service) get(ctx context.Context, code, name string) (PriceRecord, error) {
	rec, err := s.cache.Get(ctx, code, func(ctx context.Context, key string) (PriceRecord, error) {
		log.Printf("DEBUG: cache miss for %s, fetching from %s", key, s.fetcher.Name())
		fresh, err := s.fetcher.Fetch(ctx, key, name)
		if err != nil {
			return PriceRecord{}, err
		}
		if s.store != nil {
			if err := s.store.SaveRecord(fresh); err != nil {
				log.Printf("ERROR: saving price history for %s: %v", key, err)
			}
		}
		return fresh, nil
	}, s.ttl)
	if err != nil {
		return PriceRecord{}, err
	}
	// A record cached through an off-roster lookup carries no name.
	if rec.Name == "" {
		rec.Name = name
	}
	return rec, nil
}

func (s *Service) displayName(code string) string {
	for _, a := range s.airports {
		if a.ICAO == code {
			return a.Name
		}
	}
	return ""
}
