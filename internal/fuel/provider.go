package fuel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidICAO is returned for an empty or malformed airport code.
	// No network access happens when it is returned.
	ErrInvalidICAO = errors.New("invalid ICAO code")

	// ErrNoHistory is returned by History when no history store is configured.
	ErrNoHistory = errors.New("price history is not enabled")
)

// FetchError reports that prices for an airport could not be retrieved:
// the source was unreachable or returned a page without a usable price table.
type FetchError struct {
	ICAO string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch prices for %s: %v", e.ICAO, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher abstracts a fuel price source.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, icao, name string) (PriceRecord, error)
}

// Store is the contract for price history stores.
type Store interface {
	SaveRecord(rec PriceRecord) error
	GetLatest(icao string) (PriceRecord, error)
	GetRange(icao string, from, to time.Time) ([]PriceRecord, error)
}

// NormalizeICAO trims and upper-cases a code and rejects empty input.
func NormalizeICAO(icao string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(icao))
	if code == "" {
		return "", ErrInvalidICAO
	}
	return code, nil
}
