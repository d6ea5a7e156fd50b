package pricepage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/fuel-price-page/internal/cache"
	"github.com/i474232898/fuel-price-page/internal/config"
	"github.com/i474232898/fuel-price-page/internal/fuel"
	"github.com/i474232898/fuel-price-page/internal/publish"
	"github.com/i474232898/fuel-price-page/internal/report"
)

// rosterFetcher returns fixed prices and fails for one airport.
type rosterFetcher struct {
	fail string
}

func (f rosterFetcher) Name() string { return "roster" }

func (f rosterFetcher) Fetch(_ context.Context, icao, name string) (fuel.PriceRecord, error) {
	if icao == f.fail {
		return fuel.PriceRecord{}, &fuel.FetchError{ICAO: icao, Err: errors.New("no table found in page")}
	}
	avgas := 2.0 + float64(len(name))/100
	return fuel.PriceRecord{ICAO: icao, Name: name, Avgas: &avgas, CapturedAt: time.Now().UTC()}, nil
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, []byte, string) error {
	return errors.New("storage unavailable")
}

func (failingPublisher) Current(context.Context) ([]byte, error) {
	return nil, publish.ErrNotPublished
}

func newUpdater(t *testing.T, fetcher fuel.Fetcher, pub publish.Publisher) *Updater {
	t.Helper()
	airports := config.DefaultAirports()
	svc := fuel.NewService(cache.New[fuel.PriceRecord](), fetcher, nil, airports, time.Minute)
	renderer, err := report.NewHTMLRenderer()
	require.NoError(t, err)
	return NewUpdater(svc, len(airports), renderer, pub, time.Minute)
}

func TestRefresh_OneFailingAirportIsOmitted(t *testing.T) {
	pub := publish.NewMemoryPublisher()
	u := newUpdater(t, rosterFetcher{fail: "ETND"}, pub)

	res, err := u.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, 9, res.Airports)
	require.Equal(t, 8, res.Rows)
	require.NotEmpty(t, res.RunID)

	page, err := u.Current(context.Background())
	require.NoError(t, err)
	require.Contains(t, string(page), "<td>EDVE</td>")
	require.NotContains(t, string(page), "<td>ETND</td>")
	require.Equal(t, 8, strings.Count(string(page), "<tr>")-1)

	last, ok := u.LastRefresh()
	require.True(t, ok)
	require.Equal(t, res.RunID, last.RunID)
}

func TestBuild_AllAirports(t *testing.T) {
	u := newUpdater(t, rosterFetcher{}, publish.NewMemoryPublisher())

	rep := u.Build(context.Background())
	require.Len(t, rep.Rows, 9)
	require.Equal(t, "EDVE", rep.Rows[0].ICAO)
	require.Equal(t, "Höxter", rep.Rows[5].Name)
}

func TestRefresh_PublishFailure(t *testing.T) {
	u := newUpdater(t, rosterFetcher{}, failingPublisher{})

	_, err := u.Refresh(context.Background())
	require.ErrorContains(t, err, "storage unavailable")

	_, ok := u.LastRefresh()
	require.False(t, ok)
}

func TestCurrent_BeforeFirstRefresh(t *testing.T) {
	u := newUpdater(t, rosterFetcher{}, publish.NewMemoryPublisher())

	_, err := u.Current(context.Background())
	require.ErrorIs(t, err, publish.ErrNotPublished)
}

// deadlinePublisher records whether Publish ran under a deadline.
type deadlinePublisher struct {
	publish.MemoryPublisher
	hadDeadline bool
}

func (d *deadlinePublisher) Publish(ctx context.Context, content []byte, contentType string) error {
	_, d.hadDeadline = ctx.Deadline()
	return d.MemoryPublisher.Publish(ctx, content, contentType)
}

func TestRefresh_RunIsBoundedByTimeout(t *testing.T) {
	pub := &deadlinePublisher{}
	u := newUpdater(t, rosterFetcher{}, pub)

	_, err := u.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, pub.hadDeadline)
}
