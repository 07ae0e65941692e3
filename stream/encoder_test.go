package stream_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Karwot/lazstream/errs"
	"github.com/Karwot/lazstream/format"
	"github.com/Karwot/lazstream/las"
	"github.com/Karwot/lazstream/section"
	"github.com/Karwot/lazstream/stream"
)

// flightLine simulates an airborne scan: coordinates advance nearly linearly
// with jitter, GPS time ticks at the pulse rate, scalars change rarely.
func flightLine(pf format.PointFormat, n int, seed int64) []las.Point {
	rng := rand.New(rand.NewSource(seed))

	points := make([]las.Point, n)
	gps := 415_000.0
	for i := range points {
		pt := las.Point{
			Format:         pf,
			X:              int32(500_000 + i*30 + rng.Intn(20) - 10),
			Y:              int32(4_000_000 + i*5 + rng.Intn(6) - 3),
			Z:              int32(120_000 + rng.Intn(500)),
			Intensity:      uint16(100 + rng.Intn(2000)),
			BitField:       las.PackBitField(byte(1+rng.Intn(2)), 2, byte(i%2), 0),
			Classification: byte(2 + rng.Intn(4)),
			ScanAngle:      int8(i%40 - 20),
			UserData:       0,
			PointSourceID:  7001,
		}
		if pf.HasGPSTime() {
			gps += 0.000005
			pt.GPSTime = gps
		}
		if pf.HasRGB() {
			pt.Red = uint16(20_000 + rng.Intn(2000))
			pt.Green = uint16(25_000 + rng.Intn(2000))
			pt.Blue = uint16(15_000 + rng.Intn(2000))
		}
		points[i] = pt
	}

	return points
}

func encodeAll(t *testing.T, points []las.Point, opts ...stream.EncoderOption) []byte {
	t.Helper()

	enc, err := stream.NewEncoder(opts...)
	require.NoError(t, err)

	for _, pt := range points {
		require.NoError(t, enc.AppendPoint(pt))
	}

	data, err := enc.Finish()
	require.NoError(t, err)

	return data
}

func TestRoundTripAllFormats(t *testing.T) {
	formats := []format.PointFormat{
		format.Format0, format.Format1, format.Format2, format.Format3,
	}

	for _, pf := range formats {
		t.Run(pf.String(), func(t *testing.T) {
			points := flightLine(pf, 2_500, 42)

			data := encodeAll(t, points,
				stream.WithPointFormat(pf),
				stream.WithChunkSize(1_000),
			)

			dec, err := stream.NewDecoder(data)
			require.NoError(t, err)
			require.Equal(t, len(points), dec.PointCount())
			require.Equal(t, 3, dec.ChunkCount())
			require.Equal(t, pf, dec.PointFormat())

			decoded, err := dec.Materialize()
			require.NoError(t, err)
			for i := range points {
				require.True(t, points[i].Equal(decoded[i]), "point %d", i)
			}
		})
	}
}

func TestRoundTripAllCompressions(t *testing.T) {
	types := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	points := flightLine(format.Format1, 1_200, 7)

	for _, ct := range types {
		t.Run(ct.String(), func(t *testing.T) {
			data := encodeAll(t, points,
				stream.WithPointFormat(format.Format1),
				stream.WithChunkSize(500),
				stream.WithChunkCompression(ct),
			)

			dec, err := stream.NewDecoder(data)
			require.NoError(t, err)

			decoded, err := dec.Materialize()
			require.NoError(t, err)
			for i := range points {
				require.True(t, points[i].Equal(decoded[i]), "point %d", i)
			}
		})
	}
}

func TestRoundTripBigEndian(t *testing.T) {
	points := flightLine(format.Format1, 300, 11)

	data := encodeAll(t, points,
		stream.WithPointFormat(format.Format1),
		stream.WithChunkSize(128),
		stream.WithBigEndian(),
	)

	dec, err := stream.NewDecoder(data)
	require.NoError(t, err)

	decoded, err := dec.Materialize()
	require.NoError(t, err)
	for i := range points {
		require.True(t, points[i].Equal(decoded[i]), "point %d", i)
	}
}

func TestEncoderDeterminism(t *testing.T) {
	points := flightLine(format.Format3, 1_000, 3)

	opts := []stream.EncoderOption{
		stream.WithPointFormat(format.Format3),
		stream.WithChunkSize(400),
	}

	first := encodeAll(t, points, opts...)
	second := encodeAll(t, points, opts...)
	require.Equal(t, first, second)
}

func TestEncoderFormatMismatch(t *testing.T) {
	enc, err := stream.NewEncoder(stream.WithPointFormat(format.Format1))
	require.NoError(t, err)

	err = enc.AppendPoint(las.Point{Format: format.Format2})
	require.ErrorIs(t, err, errs.ErrFormatMismatch)
	require.Zero(t, enc.PointCount(), "a rejected record must not be counted")

	// The stream remains usable after a rejected record.
	require.NoError(t, enc.AppendPoint(las.Point{Format: format.Format1}))
	require.Equal(t, 1, enc.PointCount())
}

func TestEncoderFinished(t *testing.T) {
	enc, err := stream.NewEncoder()
	require.NoError(t, err)

	_, err = enc.Finish()
	require.NoError(t, err)

	require.ErrorIs(t, enc.AppendPoint(las.Point{}), errs.ErrEncoderFinished)
	_, err = enc.Finish()
	require.ErrorIs(t, err, errs.ErrEncoderFinished)
}

func TestEncoderInvalidOptions(t *testing.T) {
	_, err := stream.NewEncoder(stream.WithPointFormat(format.PointFormat(9)))
	require.ErrorIs(t, err, errs.ErrInvalidPointFormat)

	_, err = stream.NewEncoder(stream.WithChunkSize(0))
	require.ErrorIs(t, err, errs.ErrInvalidChunkSize)

	_, err = stream.NewEncoder(stream.WithChunkSize(-5))
	require.ErrorIs(t, err, errs.ErrInvalidChunkSize)

	_, err = stream.NewEncoder(stream.WithChunkCompression(format.CompressionType(0x7f)))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func TestEmptyStream(t *testing.T) {
	data := encodeAll(t, nil)
	require.Len(t, data, section.HeaderSize+section.TrailerSize)

	dec, err := stream.NewDecoder(data)
	require.NoError(t, err)
	require.Zero(t, dec.PointCount())
	require.Zero(t, dec.ChunkCount())

	decoded, err := dec.Materialize()
	require.NoError(t, err)
	require.Empty(t, decoded)

	_, err = dec.PointAt(0)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
}

func TestFinalShortChunk(t *testing.T) {
	// 5 points with chunk size 2: chunks of 2, 2 and 1.
	points := flightLine(format.Format0, 5, 1)

	data := encodeAll(t, points,
		stream.WithPointFormat(format.Format0),
		stream.WithChunkSize(2),
	)

	dec, err := stream.NewDecoder(data)
	require.NoError(t, err)
	require.Equal(t, 3, dec.ChunkCount())

	last, err := dec.DecodeChunk(2)
	require.NoError(t, err)
	require.Len(t, last, 1)
	require.True(t, points[4].Equal(last[0]))
}

func TestThreePointScenario(t *testing.T) {
	points := []las.Point{
		{Format: format.Format0, X: 100, Y: 200, Z: 50},
		{Format: format.Format0, X: 101, Y: 200, Z: 50},
		{Format: format.Format0, X: 102, Y: 201, Z: 51},
	}

	data := encodeAll(t, points,
		stream.WithPointFormat(format.Format0),
		stream.WithChunkSize(2),
	)

	dec, err := stream.NewDecoder(data)
	require.NoError(t, err)
	require.Equal(t, 3, dec.PointCount())
	require.Equal(t, 2, dec.ChunkCount())

	// Point 2 lives alone in the second chunk.
	pt, err := dec.PointAt(2)
	require.NoError(t, err)
	require.True(t, points[2].Equal(pt))

	for i := range points {
		got, err := dec.PointAt(i)
		require.NoError(t, err)
		require.True(t, points[i].Equal(got), "point %d", i)
	}
}
