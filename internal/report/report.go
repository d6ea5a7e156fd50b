package report

import (
	"sort"
	"time"
	_ "time/tzdata" // Europe/Berlin must resolve on minimal images.

	"github.com/i474232898/fuel-price-page/internal/fuel"
)

// highlightCount is how many of the cheapest prices per category are marked.
const highlightCount = 3

// TimeZone is the civil time zone the retrieval time is shown in.
const TimeZone = "Europe/Berlin"

// Row is one airport line of the report. Nil prices mean unavailable.
type Row struct {
	ICAO                string     `json:"icao"`
	Name                string     `json:"name"`
	Avgas               *float64   `json:"avgas_price"`
	AvgasHighlighted    bool       `json:"avgas_highlighted"`
	NonAvgas            *float64   `json:"non_avgas_price"`
	NonAvgasType        fuel.Grade `json:"non_avgas_type,omitempty"`
	NonAvgasHighlighted bool       `json:"non_avgas_highlighted"`
}

// Report is the renderer-agnostic model of the price page.
type Report struct {
	Rows        []Row     `json:"rows"`
	RetrievedAt time.Time `json:"retrieved_at"`
}

// Build ranks the records and produces the report. Rows keep the order of
// records. In each category (avgas, and Super+ falling back to UL91) every
// price less than or equal to the third cheapest one is highlighted, so ties
// can mark more than three rows. RetrievedAt is the newest capture time, or
// now when there are no records.
func Build(records []fuel.PriceRecord, now time.Time) Report {
	avgas := make([]*float64, len(records))
	nonAvgas := make([]*float64, len(records))
	for i, r := range records {
		avgas[i] = r.AvgasPrice()
		nonAvgas[i], _ = r.NonAvgasPrice()
	}
	avgasLimit, avgasOK := boundary(avgas)
	nonAvgasLimit, nonAvgasOK := boundary(nonAvgas)

	rows := make([]Row, 0, len(records))
	var newest time.Time
	for i, r := range records {
		p, grade := r.NonAvgasPrice()
		rows = append(rows, Row{
			ICAO:                r.ICAO,
			Name:                r.Name,
			Avgas:               avgas[i],
			AvgasHighlighted:    avgasOK && avgas[i] != nil && *avgas[i] <= avgasLimit,
			NonAvgas:            p,
			NonAvgasType:        grade,
			NonAvgasHighlighted: nonAvgasOK && p != nil && *p <= nonAvgasLimit,
		})
		if r.CapturedAt.After(newest) {
			newest = r.CapturedAt
		}
	}

	if len(records) == 0 || newest.IsZero() {
		newest = now
	}

	return Report{
		Rows:        rows,
		RetrievedAt: newest.In(berlin()),
	}
}

// boundary returns the highlight threshold of a category: the price at rank
// highlightCount, or the most expensive one when fewer are available.
func boundary(prices []*float64) (float64, bool) {
	available := make([]float64, 0, len(prices))
	for _, p := range prices {
		if p != nil {
			available = append(available, *p)
		}
	}
	if len(available) == 0 {
		return 0, false
	}

	sort.Float64s(available)
	if len(available) > highlightCount {
		available = available[:highlightCount]
	}
	return available[len(available)-1], true
}

func berlin() *time.Location {
	loc, err := time.LoadLocation(TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
