// Package las defines the point record data model shared by the encoder and
// decoder.
//
// A Point is one LiDAR sample. Its field set is determined by the point
// format it is tagged with: every format carries the core fields (quantized
// XYZ coordinates, intensity, return bit field, classification, scan angle,
// user data, point source ID); formats 1 and 3 add GPS time, formats 2 and 3
// add an RGB triple. Fields outside the tagged format are ignored by the
// codec and must decode as zero values.
package las

import "github.com/Karwot/lazstream/format"

// Point is a single point record. Coordinates are stored as quantized
// integers; the scale factor and offset that map them to world units belong
// to the LAS file header, which is outside the codec's scope.
type Point struct {
	// Format tags which field set of this record is live. It must match the
	// point format declared by the stream the record is written to.
	Format format.PointFormat

	X int32
	Y int32
	Z int32

	Intensity uint16

	// BitField packs return number (bits 0-2), number of returns (bits 3-5),
	// scan direction flag (bit 6) and edge of flight line flag (bit 7).
	BitField byte

	Classification byte
	ScanAngle      int8
	UserData       byte
	PointSourceID  uint16

	// GPSTime is live for formats 1 and 3.
	GPSTime float64

	// Red, Green and Blue are live for formats 2 and 3.
	Red   uint16
	Green uint16
	Blue  uint16
}

// ReturnNumber returns the return number packed in bits 0-2 of the bit field.
func (p Point) ReturnNumber() byte {
	return p.BitField & 0x07
}

// NumberOfReturns returns the number of returns packed in bits 3-5.
func (p Point) NumberOfReturns() byte {
	return (p.BitField >> 3) & 0x07
}

// ScanDirectionFlag returns the scan direction flag from bit 6.
func (p Point) ScanDirectionFlag() byte {
	return (p.BitField >> 6) & 0x01
}

// EdgeOfFlightLine returns the edge of flight line flag from bit 7.
func (p Point) EdgeOfFlightLine() byte {
	return (p.BitField >> 7) & 0x01
}

// PackBitField packs return information into a single bit field byte,
// mirroring the LAS point record layout.
func PackBitField(returnNumber, numberOfReturns, scanDirection, edgeOfFlight byte) byte {
	return (returnNumber & 0x07) |
		((numberOfReturns & 0x07) << 3) |
		((scanDirection & 0x01) << 6) |
		((edgeOfFlight & 0x01) << 7)
}

// Equal reports whether two points are field-for-field identical within the
// field set of their tagged formats. Records with different format tags are
// never equal.
func (p Point) Equal(other Point) bool {
	if p.Format != other.Format {
		return false
	}

	if p.X != other.X || p.Y != other.Y || p.Z != other.Z ||
		p.Intensity != other.Intensity ||
		p.BitField != other.BitField ||
		p.Classification != other.Classification ||
		p.ScanAngle != other.ScanAngle ||
		p.UserData != other.UserData ||
		p.PointSourceID != other.PointSourceID {
		return false
	}

	if p.Format.HasGPSTime() && p.GPSTime != other.GPSTime {
		return false
	}

	if p.Format.HasRGB() &&
		(p.Red != other.Red || p.Green != other.Green || p.Blue != other.Blue) {
		return false
	}

	return true
}

// Normalize returns a copy of the point with fields outside the tagged
// format's field set zeroed. The codec never transmits those fields, so
// normalizing an input record yields exactly what a decoder will produce.
func (p Point) Normalize() Point {
	if !p.Format.HasGPSTime() {
		p.GPSTime = 0
	}
	if !p.Format.HasRGB() {
		p.Red = 0
		p.Green = 0
		p.Blue = 0
	}

	return p
}
