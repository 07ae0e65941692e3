// Package predictor implements the per-field context models that turn point
// records into small integer residuals for the range coder.
//
// Coordinates are predicted by linear extrapolation from the last two values,
// GPS time by linear extrapolation over its bit pattern history, and every
// other attribute by the immediately preceding point's value. The first point
// of a chunk has no history, so the predictor predicts zero and the value
// itself travels as the residual; this is bit-reproducible on both paths.
//
// A PointModel owns all mutable history and all adaptive probability contexts
// for one in-flight chunk. Reset restores the fixed initial state at every
// chunk boundary, which is what makes chunks independently decodable.
package predictor

import (
	"math"

	"github.com/Karwot/lazstream/format"
	"github.com/Karwot/lazstream/las"
	"github.com/Karwot/lazstream/rangecoder"
)

// PointModel predicts point fields from chunk-local history and codes the
// residuals through per-field adaptive contexts. It is not safe for
// concurrent use; each chunk worker owns its own instance.
type PointModel struct {
	pointFormat format.PointFormat

	// Chunk-local history.
	count   int
	prev    las.Point
	dx      int64
	dy      int64
	dz      int64
	prevGPS int64
	gpsStep int64

	// Per-field entropy contexts.
	x              rangecoder.IntModel
	y              rangecoder.IntModel
	z              rangecoder.IntModel
	intensity      rangecoder.IntModel
	bitField       rangecoder.IntModel
	classification rangecoder.IntModel
	scanAngle      rangecoder.IntModel
	userData       rangecoder.IntModel
	sourceID       rangecoder.IntModel
	gpsTime        rangecoder.IntModel
	red            rangecoder.IntModel
	green          rangecoder.IntModel
	blue           rangecoder.IntModel
}

// NewPointModel creates a model for the given point format at the fixed
// initial state.
func NewPointModel(pointFormat format.PointFormat) *PointModel {
	m := &PointModel{
		pointFormat:    pointFormat,
		x:              rangecoder.NewIntModel(),
		y:              rangecoder.NewIntModel(),
		z:              rangecoder.NewIntModel(),
		intensity:      rangecoder.NewIntModel(),
		bitField:       rangecoder.NewIntModel(),
		classification: rangecoder.NewIntModel(),
		scanAngle:      rangecoder.NewIntModel(),
		userData:       rangecoder.NewIntModel(),
		sourceID:       rangecoder.NewIntModel(),
		gpsTime:        rangecoder.NewIntModel(),
		red:            rangecoder.NewIntModel(),
		green:          rangecoder.NewIntModel(),
		blue:           rangecoder.NewIntModel(),
	}

	return m
}

// Format returns the point format the model was created for.
func (m *PointModel) Format() format.PointFormat {
	return m.pointFormat
}

// Reset restores the fixed initial state: empty history and even probability
// distributions. Called at every chunk boundary on both codec paths.
func (m *PointModel) Reset() {
	m.count = 0
	m.prev = las.Point{}
	m.dx, m.dy, m.dz = 0, 0, 0
	m.prevGPS = 0
	m.gpsStep = 0

	m.x.Reset()
	m.y.Reset()
	m.z.Reset()
	m.intensity.Reset()
	m.bitField.Reset()
	m.classification.Reset()
	m.scanAngle.Reset()
	m.userData.Reset()
	m.sourceID.Reset()
	m.gpsTime.Reset()
	m.red.Reset()
	m.green.Reset()
	m.blue.Reset()
}

// predictCoord extrapolates the next coordinate: no history predicts zero,
// one point predicts that point, two or more predict last + last delta.
func predictCoord(count int, prev int32, delta int64) int64 {
	switch {
	case count == 0:
		return 0
	case count == 1:
		return int64(prev)
	default:
		return int64(prev) + delta
	}
}

// predictScalar predicts the previous point's value, or zero without history.
func predictScalar(count int, prev int64) int64 {
	if count == 0 {
		return 0
	}

	return prev
}

// EncodePoint codes one point's residuals and advances the chunk history.
// The caller has already validated the record's format tag.
func (m *PointModel) EncodePoint(e *rangecoder.Encoder, pt las.Point) {
	m.x.Encode(e, int64(pt.X)-predictCoord(m.count, m.prev.X, m.dx))
	m.y.Encode(e, int64(pt.Y)-predictCoord(m.count, m.prev.Y, m.dy))
	m.z.Encode(e, int64(pt.Z)-predictCoord(m.count, m.prev.Z, m.dz))

	m.intensity.Encode(e, int64(pt.Intensity)-predictScalar(m.count, int64(m.prev.Intensity)))
	m.bitField.Encode(e, int64(pt.BitField)-predictScalar(m.count, int64(m.prev.BitField)))
	m.classification.Encode(e, int64(pt.Classification)-predictScalar(m.count, int64(m.prev.Classification)))
	m.scanAngle.Encode(e, int64(pt.ScanAngle)-predictScalar(m.count, int64(m.prev.ScanAngle)))
	m.userData.Encode(e, int64(pt.UserData)-predictScalar(m.count, int64(m.prev.UserData)))
	m.sourceID.Encode(e, int64(pt.PointSourceID)-predictScalar(m.count, int64(m.prev.PointSourceID)))

	if m.pointFormat.HasGPSTime() {
		g := int64(math.Float64bits(pt.GPSTime))
		m.gpsTime.Encode(e, g-m.predictGPS())
		m.updateGPS(g)
	}

	if m.pointFormat.HasRGB() {
		m.red.Encode(e, int64(pt.Red)-predictScalar(m.count, int64(m.prev.Red)))
		m.green.Encode(e, int64(pt.Green)-predictScalar(m.count, int64(m.prev.Green)))
		m.blue.Encode(e, int64(pt.Blue)-predictScalar(m.count, int64(m.prev.Blue)))
	}

	m.advance(pt)
}

// DecodePoint reconstructs the next point from residuals and advances the
// chunk history identically to the encode path.
func (m *PointModel) DecodePoint(d *rangecoder.Decoder) las.Point {
	pt := las.Point{Format: m.pointFormat}

	pt.X = int32(predictCoord(m.count, m.prev.X, m.dx) + m.x.Decode(d))
	pt.Y = int32(predictCoord(m.count, m.prev.Y, m.dy) + m.y.Decode(d))
	pt.Z = int32(predictCoord(m.count, m.prev.Z, m.dz) + m.z.Decode(d))

	pt.Intensity = uint16(predictScalar(m.count, int64(m.prev.Intensity)) + m.intensity.Decode(d))
	pt.BitField = byte(predictScalar(m.count, int64(m.prev.BitField)) + m.bitField.Decode(d))
	pt.Classification = byte(predictScalar(m.count, int64(m.prev.Classification)) + m.classification.Decode(d))
	pt.ScanAngle = int8(predictScalar(m.count, int64(m.prev.ScanAngle)) + m.scanAngle.Decode(d))
	pt.UserData = byte(predictScalar(m.count, int64(m.prev.UserData)) + m.userData.Decode(d))
	pt.PointSourceID = uint16(predictScalar(m.count, int64(m.prev.PointSourceID)) + m.sourceID.Decode(d))

	if m.pointFormat.HasGPSTime() {
		g := m.predictGPS() + m.gpsTime.Decode(d)
		pt.GPSTime = math.Float64frombits(uint64(g))
		m.updateGPS(g)
	}

	if m.pointFormat.HasRGB() {
		pt.Red = uint16(predictScalar(m.count, int64(m.prev.Red)) + m.red.Decode(d))
		pt.Green = uint16(predictScalar(m.count, int64(m.prev.Green)) + m.green.Decode(d))
		pt.Blue = uint16(predictScalar(m.count, int64(m.prev.Blue)) + m.blue.Decode(d))
	}

	m.advance(pt)

	return pt
}

// predictGPS extrapolates the next GPS time bit pattern from the two most
// recent values. Arithmetic wraps identically on both codec paths.
func (m *PointModel) predictGPS() int64 {
	switch {
	case m.count == 0:
		return 0
	case m.count == 1:
		return m.prevGPS
	default:
		return m.prevGPS + m.gpsStep
	}
}

func (m *PointModel) updateGPS(g int64) {
	if m.count > 0 {
		m.gpsStep = g - m.prevGPS
	}
	m.prevGPS = g
}

// advance rolls the coordinate delta history and previous point forward.
func (m *PointModel) advance(pt las.Point) {
	if m.count > 0 {
		m.dx = int64(pt.X) - int64(m.prev.X)
		m.dy = int64(pt.Y) - int64(m.prev.Y)
		m.dz = int64(pt.Z) - int64(m.prev.Z)
	}
	m.prev = pt
	m.count++
}
