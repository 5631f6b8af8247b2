package geo

import "fmt"

// ModelOptions are the caller-supplied scalars that, together with a
// ProjectedBBox and a min-elevation reference, derive a Frame. These mirror
// the generator contract's validated ranges (spec.md §6).
type ModelOptions struct {
	ModelWidthMM  float64 // in [50, 500]
	ZExaggeration float64 // in [0.5, 5]
	BaseHeightMM  float64 // in [0.5, 20]
}

// Validate enforces the generator contract's scalar ranges.
func (o ModelOptions) Validate() error {
	if o.ModelWidthMM < 50 || o.ModelWidthMM > 500 {
		return fmt.Errorf("model_width_mm out of range [50,500]: %v", o.ModelWidthMM)
	}
	if o.ZExaggeration < 0.5 || o.ZExaggeration > 5 {
		return fmt.Errorf("z_exaggeration out of range [0.5,5]: %v", o.ZExaggeration)
	}
	if o.BaseHeightMM < 0.5 || o.BaseHeightMM > 20 {
		return fmt.Errorf("base_height_mm out of range [0.5,20]: %v", o.BaseHeightMM)
	}
	return nil
}

// Frame is the ModelFrame of spec.md §3: the immutable derived parameters
// that map projected metres + elevation metres into millimetre model space.
// All other components use only the formulas exposed here; the core permits
// no other coordinate conversion (spec.md §4.A).
type Frame struct {
	bbox             ProjectedBBox
	minElev          float64
	horizontalScale  float64 // mm per metre, horizontal
	heightMM         float64 // model-space Y extent in mm
	zScale           float64 // mm per metre, vertical (horizontalScale * zExaggeration)
	baseZ            float64 // negative, mm
	modelWidthMM     float64
}

// NewFrame builds the ModelFrame from a projected bbox, model options, and
// the min-elevation reference (per-tile nanmin, or an externally supplied
// global_min_elev for multi-tile jobs — spec.md §4.I).
func NewFrame(bbox ProjectedBBox, opts ModelOptions, minElev float64) (Frame, error) {
	if err := bbox.Validate(); err != nil {
		return Frame{}, err
	}
	if err := opts.Validate(); err != nil {
		return Frame{}, err
	}

	horizontalScale := opts.ModelWidthMM / bbox.Width()
	heightMM := bbox.Height() * horizontalScale
	zScale := horizontalScale * opts.ZExaggeration
	baseZ := -opts.BaseHeightMM

	f := Frame{
		bbox:            bbox,
		minElev:         minElev,
		horizontalScale: horizontalScale,
		heightMM:        heightMM,
		zScale:          zScale,
		baseZ:           baseZ,
		modelWidthMM:    opts.ModelWidthMM,
	}

	if f.horizontalScale <= 0 || f.zScale <= 0 || f.baseZ >= 0 {
		return Frame{}, fmt.Errorf("derived model frame violates invariants (scale>0, base_z<0)")
	}
	return f, nil
}

// ModelWidthMM returns the target model width in mm (the X extent).
func (f Frame) ModelWidthMM() float64 { return f.modelWidthMM }

// HeightMM returns the derived model height in mm (the Y extent).
func (f Frame) HeightMM() float64 { return f.heightMM }

// BaseZ returns the (negative) base-plate z level in mm.
func (f Frame) BaseZ() float64 { return f.baseZ }

// ZScale returns the millimetres-per-metre vertical scale factor.
func (f Frame) ZScale() float64 { return f.zScale }

// MinElev returns the min-elevation reference this frame was built with.
func (f Frame) MinElev() float64 { return f.minElev }

// Bounds returns the projected bbox the frame was derived from.
func (f Frame) Bounds() ProjectedBBox { return f.bbox }

// ToModelX maps an easting in metres to a model-space X in millimetres.
func (f Frame) ToModelX(e float64) float64 {
	return (e - f.bbox.MinE) / f.bbox.Width() * f.modelWidthMM
}

// ToModelY maps a northing in metres to a model-space Y in millimetres.
// Row 0 (north) maps to the largest Y; this matches the grid's north-west
// origin (spec.md §3 ElevationGrid).
func (f Frame) ToModelY(n float64) float64 {
	return (n - f.bbox.MinN) / f.bbox.Height() * f.heightMM
}

// ToModelZ maps an elevation in metres to a model-space Z in millimetres.
func (f Frame) ToModelZ(elev float64) float64 {
	return (elev - f.minElev) * f.zScale
}

// ToProjectedE is the inverse of ToModelX, used by the coordinate
// round-trip property test (spec.md §8 property 1).
func (f Frame) ToProjectedE(xMM float64) float64 {
	return xMM/f.modelWidthMM*f.bbox.Width() + f.bbox.MinE
}

// ToProjectedN is the inverse of ToModelY.
func (f Frame) ToProjectedN(yMM float64) float64 {
	return yMM/f.heightMM*f.bbox.Height() + f.bbox.MinN
}

// ColAt maps an easting to a fractional column index in [0, cols-1],
// clamped into range.
func (f Frame) ColAt(e float64, cols int) float64 {
	frac := (e - f.bbox.MinE) / f.bbox.Width() * float64(cols-1)
	return clamp(frac, 0, float64(cols-1))
}

// RowAt maps a northing to a fractional row index in [0, rows-1], clamped
// into range. Row 0 is north (max northing).
func (f Frame) RowAt(n float64, rows int) float64 {
	frac := (1 - (n-f.bbox.MinN)/f.bbox.Height()) * float64(rows-1)
	return clamp(frac, 0, float64(rows-1))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
