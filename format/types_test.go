package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPointFormatFieldSets(t *testing.T) {
	tests := []struct {
		pf      PointFormat
		gps     bool
		rgb     bool
		recordL int
	}{
		{Format0, false, false, 20},
		{Format1, true, false, 28},
		{Format2, false, true, 26},
		{Format3, true, true, 34},
	}

	for _, tc := range tests {
		t.Run(tc.pf.String(), func(t *testing.T) {
			require.True(t, tc.pf.Valid())
			require.Equal(t, tc.gps, tc.pf.HasGPSTime())
			require.Equal(t, tc.rgb, tc.pf.HasRGB())
			require.Equal(t, tc.recordL, tc.pf.RecordLength())
		})
	}
}

func TestPointFormatValid(t *testing.T) {
	require.False(t, PointFormat(4).Valid())
	require.False(t, PointFormat(255).Valid())
	require.Equal(t, "Unknown", PointFormat(9).String())
}
