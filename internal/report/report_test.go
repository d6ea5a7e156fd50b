package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/fuel-price-page/internal/fuel"
)

func p(v float64) *float64 { return &v }

func highlighted(rows []Row, avgas bool) []string {
	var out []string
	for _, r := range rows {
		if (avgas && r.AvgasHighlighted) || (!avgas && r.NonAvgasHighlighted) {
			out = append(out, r.ICAO)
		}
	}
	return out
}

func TestBuild_TiesAtBoundaryAreHighlighted(t *testing.T) {
	records := []fuel.PriceRecord{
		{ICAO: "AAAA", Avgas: p(1.50)},
		{ICAO: "BBBB", Avgas: p(1.70)},
		{ICAO: "CCCC", Avgas: p(1.50)},
		{ICAO: "DDDD", Avgas: p(1.60)},
	}
	rep := Build(records, time.Now())
	require.Equal(t, []string{"AAAA", "CCCC", "DDDD"}, highlighted(rep.Rows, true))
}

func TestBuild_TieAtThirdRankHighlightsMoreThanThree(t *testing.T) {
	records := []fuel.PriceRecord{
		{ICAO: "AAAA", Avgas: p(1.40)},
		{ICAO: "BBBB", Avgas: p(1.50)},
		{ICAO: "CCCC", Avgas: p(1.60)},
		{ICAO: "DDDD", Avgas: p(1.60)},
		{ICAO: "EEEE", Avgas: p(1.61)},
	}
	rep := Build(records, time.Now())
	require.Equal(t, []string{"AAAA", "BBBB", "CCCC", "DDDD"}, highlighted(rep.Rows, true))
}

func TestBuild_FewerThanThreeAllHighlighted(t *testing.T) {
	records := []fuel.PriceRecord{
		{ICAO: "AAAA", Avgas: p(2.10)},
		{ICAO: "BBBB"},
		{ICAO: "CCCC", Avgas: p(2.90)},
	}
	rep := Build(records, time.Now())
	require.Equal(t, []string{"AAAA", "CCCC"}, highlighted(rep.Rows, true))
	require.Nil(t, rep.Rows[1].Avgas)
}

func TestBuild_CategoriesAreIndependent(t *testing.T) {
	records := []fuel.PriceRecord{
		{ICAO: "EDVE", Avgas: p(2.50)},
		{ICAO: "EDCB", Avgas: p(2.60), UL91: p(2.20)},
		{ICAO: "EDAD", Avgas: p(2.70), SuperPlus: p(1.90), UL91: p(1.00)},
		{ICAO: "ETND", Avgas: p(2.80), SuperPlus: p(2.00)},
		{ICAO: "EDVM", SuperPlus: p(2.30)},
	}
	rep := Build(records, time.Now())

	require.Equal(t, []string{"EDVE", "EDCB", "EDAD"}, highlighted(rep.Rows, true))
	require.Equal(t, []string{"EDCB", "EDAD", "ETND"}, highlighted(rep.Rows, false))

	edve := rep.Rows[0]
	require.Nil(t, edve.NonAvgas)
	require.Empty(t, edve.NonAvgasType)
	require.False(t, edve.NonAvgasHighlighted)

	// Super+ wins over UL91 even when UL91 is cheaper.
	edad := rep.Rows[2]
	require.InDelta(t, 1.90, *edad.NonAvgas, 1e-9)
	require.Equal(t, fuel.GradeSuperPlus, edad.NonAvgasType)
	require.Equal(t, fuel.GradeUL91, rep.Rows[1].NonAvgasType)
}

func TestBuild_NoAvailablePrices(t *testing.T) {
	rep := Build([]fuel.PriceRecord{{ICAO: "EDOV"}, {ICAO: "EDBM"}}, time.Now())
	require.Len(t, rep.Rows, 2)
	require.Empty(t, highlighted(rep.Rows, true))
	require.Empty(t, highlighted(rep.Rows, false))
}

func TestBuild_RetrievedAt(t *testing.T) {
	older := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 7, 15, 10, 30, 0, 0, time.UTC)
	rep := Build([]fuel.PriceRecord{
		{ICAO: "EDVE", CapturedAt: newer},
		{ICAO: "EDCB", CapturedAt: older},
	}, time.Now())

	require.True(t, rep.RetrievedAt.Equal(newer))
	require.Equal(t, TimeZone, rep.RetrievedAt.Location().String())
	// CEST is UTC+2 in July.
	require.Equal(t, "2025-07-15 12:30:00", rep.RetrievedAt.Format("2006-01-02 15:04:05"))

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	empty := Build(nil, now)
	require.Empty(t, empty.Rows)
	require.True(t, empty.RetrievedAt.Equal(now))
	require.Equal(t, "2025-01-02 04:04:05", empty.RetrievedAt.Format("2006-01-02 15:04:05"))
}
