package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for length and line-height.
// All page geometry is expressed in millimetres; font sizes are points.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm    = 0.352777
	MmToPt    = 1.0 / PtToMm
	MmPerInch = 25.4
)

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Pt is shorthand for a length in points.
func Pt(v float64) Length { return Length{Value: v, Unit: UnitPT} }

// Mm is shorthand for a length in millimetres.
func Mm(v float64) Length { return Length{Value: v, Unit: UnitMM} }

func (l Length) IsZero() bool { return l.Value == 0 }

// To converts this length to target unit. Supported targets: UnitMM, UnitPT.
func (l Length) To(target Unit) float64 {
	var mm float64
	switch l.Unit {
	case UnitMM:
		mm = l.Value
	case UnitCM:
		mm = l.Value * 10
	case UnitIN:
		mm = l.Value * MmPerInch
	case UnitPT:
		if target == UnitPT {
			return l.Value
		}
		mm = l.Value * PtToMm
	default:
		return l.Value
	}
	if target == UnitPT {
		return mm * MmToPt
	}
	return mm
}

func (l Length) ToMM() float64 { return l.To(UnitMM) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }

// ParseLength parses a length string such as "12pt" or "4.5mm".
// A bare number is read as millimetres.
func ParseLength(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitMM
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			v = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}

// LineMetricsKind distinguishes proportional vs fixed line height.
type LineMetricsKind int

const (
	// LineProportional sizes a line as fontSize × multiplier.
	LineProportional LineMetricsKind = iota
	// LineFixed uses a constant height regardless of font size.
	LineFixed
)

// DefaultLineSpacing is the multiplier used when a proportional metric
// carries no explicit value.
const DefaultLineSpacing = 1.2

// LineMetrics selects how the height of one text line is computed.
type LineMetrics struct {
	Kind       LineMetricsKind `json:"kind"`
	Multiplier float64         `json:"multiplier,omitempty"`
	Fixed      Length          `json:"fixed,omitempty"`
}

// Proportional returns line metrics of fontSize × multiplier.
func Proportional(multiplier float64) LineMetrics {
	return LineMetrics{Kind: LineProportional, Multiplier: multiplier}
}

// FixedPt returns line metrics with a constant height in points.
func FixedPt(pt float64) LineMetrics {
	return LineMetrics{Kind: LineFixed, Fixed: Pt(pt)}
}

// Resolve computes the absolute line height in target unit for the given font size.
func (m LineMetrics) Resolve(fontSize Length, target Unit) float64 {
	switch m.Kind {
	case LineFixed:
		if m.Fixed.Value > 0 {
			return m.Fixed.To(target)
		}
	case LineProportional:
		if m.Multiplier > 0 {
			return fontSize.To(target) * m.Multiplier
		}
	}
	return fontSize.To(target) * DefaultLineSpacing
}

// LineHeight returns the line height in millimetres for a font.
func (m LineMetrics) LineHeight(font Font) float64 {
	return m.Resolve(Pt(font.Size), UnitMM)
}

// pxPerMM converts a DPI value to device pixels per millimetre.
func pxPerMM(dpi float64) float64 {
	return dpi / MmPerInch
}
