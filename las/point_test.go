package las

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Karwot/lazstream/format"
)

func TestBitFieldPacking(t *testing.T) {
	pt := Point{BitField: PackBitField(2, 5, 1, 1)}

	require.Equal(t, byte(2), pt.ReturnNumber())
	require.Equal(t, byte(5), pt.NumberOfReturns())
	require.Equal(t, byte(1), pt.ScanDirectionFlag())
	require.Equal(t, byte(1), pt.EdgeOfFlightLine())
}

func TestBitFieldPackingMasksOverflow(t *testing.T) {
	// Out-of-range inputs must not bleed into neighboring fields.
	bf := PackBitField(0xff, 0, 0, 0)
	require.Equal(t, byte(0x07), bf)
}

func TestPointEqual(t *testing.T) {
	base := Point{
		Format: format.Format1,
		X:      10, Y: 20, Z: 30,
		Intensity: 100,
		GPSTime:   123.456,
	}

	t.Run("Identical", func(t *testing.T) {
		require.True(t, base.Equal(base))
	})

	t.Run("DifferentFormatTag", func(t *testing.T) {
		other := base
		other.Format = format.Format0
		require.False(t, base.Equal(other))
	})

	t.Run("DifferentCoreField", func(t *testing.T) {
		other := base
		other.Z++
		require.False(t, base.Equal(other))
	})

	t.Run("DifferentGPSTime", func(t *testing.T) {
		other := base
		other.GPSTime += 1e-9
		require.False(t, base.Equal(other))
	})

	t.Run("RGBIgnoredWithoutRGBFormat", func(t *testing.T) {
		other := base
		other.Red = 500
		require.True(t, base.Equal(other), "format 1 has no RGB, the field must not participate")
	})

	t.Run("RGBComparedWithRGBFormat", func(t *testing.T) {
		a := Point{Format: format.Format2, Red: 1}
		b := Point{Format: format.Format2, Red: 2}
		require.False(t, a.Equal(b))
	})
}

func TestPointNormalize(t *testing.T) {
	pt := Point{
		Format:  format.Format0,
		X:       1,
		GPSTime: 99.9,
		Red:     1, Green: 2, Blue: 3,
	}

	n := pt.Normalize()
	require.Zero(t, n.GPSTime)
	require.Zero(t, n.Red)
	require.Zero(t, n.Green)
	require.Zero(t, n.Blue)
	require.Equal(t, int32(1), n.X)

	full := Point{Format: format.Format3, GPSTime: 1.5, Red: 7}
	require.Equal(t, full, full.Normalize())
}
