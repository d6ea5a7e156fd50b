package pricepage

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/fuel-price-page/internal/fuel"
	"github.com/i474232898/fuel-price-page/internal/publish"
	"github.com/i474232898/fuel-price-page/internal/report"
)

// RecordSource yields the current records for the roster.
type RecordSource interface {
	Records(ctx context.Context) []fuel.PriceRecord
}

// Result summarizes one refresh run.
type Result struct {
	RunID       string    `json:"run_id"`
	Airports    int       `json:"airports"`
	Rows        int       `json:"rows"`
	RetrievedAt time.Time `json:"retrieved_at"`
	PublishedAt time.Time `json:"published_at"`
}

// Updater rebuilds the price page and hands it to the publisher. The
// scheduler and the HTTP refresh route share one Updater.
type Updater struct {
	source    RecordSource
	airports  int
	renderer  report.Renderer
	publisher publish.Publisher
	timeout   time.Duration

	mu   sync.RWMutex
	last *Result
}

// NewUpdater creates a new Updater. airports is the roster size, used only
// for reporting. timeout bounds every refresh run; 0 disables the bound.
func NewUpdater(source RecordSource, airports int, renderer report.Renderer, publisher publish.Publisher, timeout time.Duration) *Updater {
	return &Updater{
		source:    source,
		airports:  airports,
		renderer:  renderer,
		publisher: publisher,
		timeout:   timeout,
	}
}

// Build collects the records and builds the report without publishing it.
func (u *Updater) Build(ctx context.Context) report.Report {
	return report.Build(u.source.Records(ctx), time.Now())
}

// Refresh rebuilds and republishes the page unconditionally. Airports that
// fail to fetch are left out of the page; only render or publish failures
// are returned. The whole run, publishing included, is bounded by the
// updater's timeout.
func (u *Updater) Refresh(ctx context.Context) (Result, error) {
	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	log.Printf("pricepage: refresh %s started", runID)

	rep := u.Build(ctx)

	content, err := u.renderer.Render(rep)
	if err != nil {
		return Result{}, fmt.Errorf("refresh %s: %w", runID, err)
	}
	if err := u.publisher.Publish(ctx, content, u.renderer.ContentType()); err != nil {
		return Result{}, fmt.Errorf("refresh %s: %w", runID, err)
	}

	res := Result{
		RunID:       runID,
		Airports:    u.airports,
		Rows:        len(rep.Rows),
		RetrievedAt: rep.RetrievedAt,
		PublishedAt: time.Now().UTC(),
	}
	if res.Rows < res.Airports {
		log.Printf("pricepage: refresh %s published %d of %d airports", runID, res.Rows, res.Airports)
	} else {
		log.Printf("pricepage: refresh %s published %d airports", runID, res.Rows)
	}

	u.mu.Lock()
	u.last = &res
	u.mu.Unlock()
	return res, nil
}

// Current returns the last published page.
func (u *Updater) Current(ctx context.Context) ([]byte, error) {
	return u.publisher.Current(ctx)
}

// ContentType is the media type of the published page.
func (u *Updater) ContentType() string {
	return u.renderer.ContentType()
}

// LastRefresh returns the result of the most recent successful refresh.
func (u *Updater) LastRefresh() (Result, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	if u.last == nil {
		return Result{}, false
	}
	return *u.last, true
}
