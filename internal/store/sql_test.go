package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSQLStore_SaveAndQuery(t *testing.T) {
	s, err := OpenSQLite(":memory:", 0, 0)
	require.NoError(t, err)

	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	_, err = s.GetLatest("EDBM")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SaveRecord(rec("EDBM", base, 2.71)))
	require.NoError(t, s.SaveRecord(rec("EDBM", base.Add(6*time.Hour), 2.69)))
	require.NoError(t, s.SaveRecord(rec("EDVY", base, 2.80)))

	latest, err := s.GetLatest("EDBM")
	require.NoError(t, err)
	require.InDelta(t, 2.69, *latest.Avgas, 1e-9)
	require.Nil(t, latest.SuperPlus)
	require.True(t, latest.CapturedAt.Equal(base.Add(6*time.Hour)))

	got, err := s.GetRange("EDBM", base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = s.GetRange("EDBM", base.Add(24*time.Hour), base.Add(48*time.Hour))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLStore_PrunesOldRows(t *testing.T) {
	s, err := OpenSQLite(":memory:", 0, 24*time.Hour)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.SaveRecord(rec("EDOV", now.Add(-72*time.Hour), 2.9)))
	require.NoError(t, s.SaveRecord(rec("EDOV", now, 2.8)))

	got, err := s.GetRange("EDOV", now.Add(-100*time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.InDelta(t, 2.8, *got[0].Avgas, 1e-9)
}

func TestSQLStore_KeepsNewestEntries(t *testing.T) {
	s, err := OpenSQLite(":memory:", 2, 0)
	require.NoError(t, err)

	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveRecord(rec("EDVM", base.Add(time.Duration(i)*6*time.Hour), 2.0+float64(i)/10)))
	}
	require.NoError(t, s.SaveRecord(rec("EDVI", base, 2.5)))

	got, err := s.GetRange("EDVM", base, base.Add(48*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.InDelta(t, 2.3, *got[0].Avgas, 1e-9)
	require.InDelta(t, 2.4, *got[1].Avgas, 1e-9)

	// Other airports have their own budget.
	got, err = s.GetRange("EDVI", base, base)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
