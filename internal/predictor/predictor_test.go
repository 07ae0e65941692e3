package predictor

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Karwot/lazstream/format"
	"github.com/Karwot/lazstream/internal/pool"
	"github.com/Karwot/lazstream/las"
	"github.com/Karwot/lazstream/rangecoder"
)

func makePoints(pf format.PointFormat, n int, seed int64) []las.Point {
	rng := rand.New(rand.NewSource(seed))

	points := make([]las.Point, n)
	gps := 300_000.123
	for i := range points {
		pt := las.Point{
			Format:         pf,
			X:              int32(100_000 + i*25 + rng.Intn(10)),
			Y:              int32(200_000 + i*25 + rng.Intn(10)),
			Z:              int32(5_000 + rng.Intn(200)),
			Intensity:      uint16(rng.Intn(4096)),
			BitField:       las.PackBitField(byte(1+rng.Intn(3)), 3, byte(i%2), 0),
			Classification: byte(rng.Intn(10)),
			ScanAngle:      int8(rng.Intn(61) - 30),
			UserData:       byte(rng.Intn(4)),
			PointSourceID:  uint16(7000 + rng.Intn(4)),
		}
		if pf.HasGPSTime() {
			gps += 0.00005
			pt.GPSTime = gps
		}
		if pf.HasRGB() {
			pt.Red = uint16(rng.Intn(65536))
			pt.Green = uint16(rng.Intn(65536))
			pt.Blue = uint16(rng.Intn(65536))
		}
		points[i] = pt
	}

	return points
}

func encodePoints(t *testing.T, model *PointModel, points []las.Point) []byte {
	t.Helper()

	buf := &pool.ByteBuffer{}
	enc := rangecoder.NewEncoder(buf)
	for _, pt := range points {
		model.EncodePoint(enc, pt)
	}
	enc.Flush()

	return append([]byte(nil), buf.Bytes()...)
}

func decodePoints(t *testing.T, model *PointModel, data []byte, n int) []las.Point {
	t.Helper()

	dec := rangecoder.NewDecoder(data)
	points := make([]las.Point, n)
	for i := range points {
		points[i] = model.DecodePoint(dec)
	}
	require.False(t, dec.Overrun())

	return points
}

func TestRoundTripAllFormats(t *testing.T) {
	formats := []format.PointFormat{
		format.Format0, format.Format1, format.Format2, format.Format3,
	}

	for _, pf := range formats {
		t.Run(pf.String(), func(t *testing.T) {
			points := makePoints(pf, 500, 42)

			model := NewPointModel(pf)
			data := encodePoints(t, model, points)

			model.Reset()
			decoded := decodePoints(t, model, data, len(points))

			for i := range points {
				require.True(t, points[i].Equal(decoded[i]), "point %d: %+v != %+v", i, points[i], decoded[i])
			}
		})
	}
}

func TestRoundTripExtremeValues(t *testing.T) {
	points := []las.Point{
		{Format: format.Format1, X: math.MaxInt32, Y: math.MinInt32, Z: 0, GPSTime: math.MaxFloat64},
		{Format: format.Format1, X: math.MinInt32, Y: math.MaxInt32, Z: -1, GPSTime: -math.MaxFloat64},
		{Format: format.Format1, X: 0, Y: 0, Z: math.MaxInt32, Intensity: math.MaxUint16, GPSTime: math.SmallestNonzeroFloat64},
		{Format: format.Format1, ScanAngle: -90, GPSTime: 0},
		{Format: format.Format1, ScanAngle: 90, BitField: 0xff, Classification: 0xff, UserData: 0xff, PointSourceID: math.MaxUint16},
	}

	model := NewPointModel(format.Format1)
	data := encodePoints(t, model, points)

	model.Reset()
	decoded := decodePoints(t, model, data, len(points))

	for i := range points {
		require.True(t, points[i].Equal(decoded[i]), "point %d", i)
	}
}

func TestGPSTimeLossless(t *testing.T) {
	// Irregular, non-monotonic timestamps must survive bit-exactly.
	times := []float64{
		0, 1.0 / 3.0, -250_000.999, 604_800.000000001,
		math.SmallestNonzeroFloat64, -math.SmallestNonzeroFloat64,
		math.MaxFloat64, 123456.654321,
	}

	points := make([]las.Point, len(times))
	for i, gt := range times {
		points[i] = las.Point{Format: format.Format1, GPSTime: gt}
	}

	model := NewPointModel(format.Format1)
	data := encodePoints(t, model, points)

	model.Reset()
	decoded := decodePoints(t, model, data, len(points))

	for i := range times {
		require.Equal(t, math.Float64bits(times[i]), math.Float64bits(decoded[i].GPSTime), "time %d", i)
	}
}

func TestResetGivesIdenticalBytes(t *testing.T) {
	points := makePoints(format.Format3, 200, 7)

	model := NewPointModel(format.Format3)
	first := encodePoints(t, model, points)

	// Encoding different data and resetting must reproduce the first output
	// exactly, or chunk boundaries would leak state.
	encodePoints(t, model, makePoints(format.Format3, 100, 8))
	model.Reset()
	second := encodePoints(t, model, points)

	require.Equal(t, first, second)
}

func TestDecodeSetsFormatTag(t *testing.T) {
	points := makePoints(format.Format2, 3, 1)

	model := NewPointModel(format.Format2)
	data := encodePoints(t, model, points)

	model.Reset()
	decoded := decodePoints(t, model, data, len(points))

	for _, pt := range decoded {
		require.Equal(t, format.Format2, pt.Format)
	}
}
