package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/fuel-price-page/internal/fuel"
)

func TestHTMLRenderer_Render(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)
	require.Equal(t, "text/html; charset=utf-8", r.ContentType())

	rep := Build([]fuel.PriceRecord{
		{ICAO: "EDVE", Name: "Braunschweig", Avgas: p(2.891), SuperPlus: p(1.99),
			CapturedAt: time.Date(2025, 2, 1, 11, 0, 0, 0, time.UTC)},
		{ICAO: "EDVI", Name: "Höxter", UL91: p(2.05)},
		{ICAO: "EDOV"},
	}, time.Now())

	out, err := r.Render(rep)
	require.NoError(t, err)
	page := string(out)

	require.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	require.Contains(t, page, "<title>FFG | Günstig Tanken</title>")
	require.Contains(t, page, "<td>EDVE</td>")
	require.Contains(t, page, "<td>Braunschweig</td>")
	require.Contains(t, page, `<td class="top3price">2.89 €/l</td>`)
	require.Contains(t, page, `<td class="top3price">1.99 €/l (Super+)</td>`)
	require.Contains(t, page, `<td class="top3price">2.05 €/l (UL91)</td>`)
	require.Contains(t, page, "<td>Höxter</td>")
	require.Contains(t, page, "<td>N/A</td>")
	// Cells outside the top three carry no class attribute.
	require.NotContains(t, page, `class=""`)
	require.Equal(t, 4, strings.Count(page, "<td>N/A</td>"))
	require.Contains(t, page, "Letzter Datenabruf: 2025-02-01 12:00:00")
}
