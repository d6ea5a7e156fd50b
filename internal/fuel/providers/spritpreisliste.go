package providers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/net/html/charset"

	"github.com/i474232898/fuel-price-page/internal/fuel"
)

// Row labels on the airport page, matched as prefixes of the first column.
const (
	labelAvgas     = "100 LL Preis"
	labelSuperPlus = "Super+ Preis"
	labelUL91      = "UL91 Preis"
)

// DefaultSpritpreislisteURL is the public site the prices are scraped from.
const DefaultSpritpreislisteURL = "https://www.spritpreisliste.de"

// SpritpreislisteProvider implements fuel.Fetcher by scraping the airport
// pages of spritpreisliste.de.
type SpritpreislisteProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewSpritpreislisteProvider(client *http.Client, baseURL string) *SpritpreislisteProvider {
	if baseURL == "" {
		baseURL = DefaultSpritpreislisteURL
	}

	return &SpritpreislisteProvider{
		name:    "spritpreisliste",
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      2,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
			UserAgent: "fuel-price-page/1.0",
		},
		circuit: newBreaker("spritpreisliste"),
	}
}

func (p *SpritpreislisteProvider) Name() string {
	return p.name
}

// Fetch scrapes the price table for one airport. A missing table or a table
// without rows is a *fuel.FetchError; a missing grade row only leaves that
// price nil.
func (p *SpritpreislisteProvider) Fetch(ctx context.Context, icao, name string) (fuel.PriceRecord, error) {
	code, err := fuel.NormalizeICAO(icao)
	if err != nil {
		return fuel.PriceRecord{}, err
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		u := fmt.Sprintf("%s/airports/%s", p.baseURL, url.PathEscape(code))
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return fuel.PriceRecord{}, &fuel.FetchError{ICAO: code, Err: err}
	}
	defer resp.Body.Close()

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return fuel.PriceRecord{}, &fuel.FetchError{ICAO: code, Err: fmt.Errorf("decode page: %w", err)}
	}

	table, err := readFirstTable(body)
	if err != nil {
		return fuel.PriceRecord{}, &fuel.FetchError{ICAO: code, Err: err}
	}

	return fuel.PriceRecord{
		ICAO:       code,
		Name:       name,
		Avgas:      gradePrice(table, code, labelAvgas),
		SuperPlus:  gradePrice(table, code, labelSuperPlus),
		UL91:       gradePrice(table, code, labelUL91),
		CapturedAt: time.Now().UTC(),
	}, nil
}

func gradePrice(table priceTable, icao, label string) *float64 {
	raw, ok := table.value(label)
	if !ok {
		log.Printf("DEBUG: %s: no %q row, price unavailable", icao, label)
		return nil
	}
	return fuel.ParsePrice(raw)
}
