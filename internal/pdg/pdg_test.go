package pdg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMassByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   int
		want float64
	}{
		{"kaon positive", 321, KaonMassMeV},
		{"kaon negative", -321, KaonMassMeV},
		{"pion positive", 211, PionMassMeV},
		{"pion negative", -211, PionMassMeV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := MassByID(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestMassByIDUnknownSpecies(t *testing.T) {
	t.Parallel()

	for _, id := range []int{0, 13, -13, 2212, 421} {
		_, err := MassByID(id)
		assert.Error(t, err, "ID %d should have no hypothesis", id)
	}
}
