package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeSpace(t *testing.T) {
	require.Equal(t, "100 LL Preis", NormalizeSpace("  100 LL \n\tPreis "))
	require.Equal(t, "", NormalizeSpace(" \n "))
	require.Equal(t, "2,34 €", NormalizeSpace("2,34\u00a0€"))
}

func TestHasAnyPrefix(t *testing.T) {
	p, ok := HasAnyPrefix("UL91 Preis pro Liter", "Super+ Preis", "UL91 Preis")
	require.True(t, ok)
	require.Equal(t, "UL91 Preis", p)

	_, ok = HasAnyPrefix("Jet A1 Preis", "Super+ Preis", "UL91 Preis")
	require.False(t, ok)
}
