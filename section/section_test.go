package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Karwot/lazstream/endian"
	"github.com/Karwot/lazstream/errs"
	"github.com/Karwot/lazstream/format"
)

func TestStreamFlagDefaults(t *testing.T) {
	flag := NewStreamFlag()

	require.True(t, flag.IsLittleEndian())
	require.True(t, flag.IsValidMagicNumber())
	require.Equal(t, format.Format0, flag.Format())
	require.Equal(t, format.CompressionNone, flag.Compression())
	require.NoError(t, flag.Validate())
}

func TestStreamFlagEndianness(t *testing.T) {
	flag := NewStreamFlag()

	flag.WithBigEndian()
	require.False(t, flag.IsLittleEndian())
	require.True(t, flag.IsValidMagicNumber(), "endianness bit must not disturb the magic number")

	flag.WithLittleEndian()
	require.True(t, flag.IsLittleEndian())
}

func TestStreamFlagValidate(t *testing.T) {
	t.Run("BadMagic", func(t *testing.T) {
		flag := NewStreamFlag()
		flag.Options = 0x1230
		require.ErrorIs(t, flag.Validate(), errs.ErrCorruptStream)
	})

	t.Run("BadFormat", func(t *testing.T) {
		flag := NewStreamFlag()
		flag.PointFormat = 9
		require.ErrorIs(t, flag.Validate(), errs.ErrInvalidPointFormat)
	})

	t.Run("BadCompression", func(t *testing.T) {
		flag := NewStreamFlag()
		flag.CompressionType = 0x7f
		require.ErrorIs(t, flag.Validate(), errs.ErrInvalidCompression)
	})
}

func TestStreamHeaderRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		bigEndian bool
	}{
		{name: "LittleEndian", bigEndian: false},
		{name: "BigEndian", bigEndian: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			header := NewStreamHeader(format.Format3, 10_000)
			header.Flag.SetCompression(format.CompressionZstd)
			header.PointCount = 123_456
			header.ChunkCount = 13
			if tc.bigEndian {
				header.Flag.WithBigEndian()
			}

			data := header.Bytes()
			require.Len(t, data, HeaderSize)

			parsed, err := ParseStreamHeader(data)
			require.NoError(t, err)
			require.Equal(t, *header, parsed)
		})
	}
}

func TestStreamHeaderParseErrors(t *testing.T) {
	header := NewStreamHeader(format.Format0, 100)
	data := header.Bytes()

	t.Run("TooShort", func(t *testing.T) {
		_, err := ParseStreamHeader(data[:HeaderSize-1])
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("BadMagic", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[1] ^= 0xff
		_, err := ParseStreamHeader(bad)
		require.ErrorIs(t, err, errs.ErrCorruptStream)
	})

	t.Run("BadFormat", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[2] = 200
		_, err := ParseStreamHeader(bad)
		require.ErrorIs(t, err, errs.ErrInvalidPointFormat)
	})
}

func TestChunkEntryRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	entry := ChunkEntry{
		ByteLength: 4321,
		PointCount: 50_000,
		Checksum:   0xdeadbeefcafebabe,
	}

	data := entry.Bytes(engine)
	require.Len(t, data, ChunkEntrySize)

	parsed, err := ParseChunkEntry(data, engine)
	require.NoError(t, err)
	require.Equal(t, entry.ByteLength, parsed.ByteLength)
	require.Equal(t, entry.PointCount, parsed.PointCount)
	require.Equal(t, entry.Checksum, parsed.Checksum)
	require.Zero(t, parsed.Offset)
	require.Zero(t, parsed.StartIndex)
}

func TestChunkEntryWriteToSlice(t *testing.T) {
	engine := endian.GetBigEndianEngine()

	entry := ChunkEntry{ByteLength: 77, PointCount: 11, Checksum: 42}

	out := make([]byte, 4+ChunkEntrySize)
	next := entry.WriteToSlice(out, 4, engine)
	require.Equal(t, 4+ChunkEntrySize, next)
	require.Equal(t, entry.Bytes(engine), out[4:])
}

func TestParseChunkEntryTooShort(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	_, err := ParseChunkEntry(make([]byte, ChunkEntrySize-1), engine)
	require.ErrorIs(t, err, errs.ErrInvalidChunkEntrySize)
}
