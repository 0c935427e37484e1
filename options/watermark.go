package options

import (
	"math"

	"github.com/drummonds/pdfire/geometry"
	"github.com/drummonds/pdfire/pdferr"
)

// Defaults applied by NewWatermark and DefaultWatermark.
const (
	DefaultRotation            = -45
	DefaultOpacity             = 0.125
	DefaultWidthRelativeToPage = 0.75
)

// Watermark controls how an image watermark is placed on each page.
type Watermark struct {
	rotation            float64
	opacity             float64
	widthRelativeToPage float64
	anchor              geometry.Anchor
}

// WatermarkOption sets one field of a Watermark before validation.
type WatermarkOption func(*Watermark)

// WithRotation sets the rotation in degrees, valid range [-360, 360].
func WithRotation(degrees float64) WatermarkOption {
	return func(w *Watermark) { w.rotation = degrees }
}

// WithOpacity sets how visible the watermark is, valid range (0, 1].
func WithOpacity(opacity float64) WatermarkOption {
	return func(w *Watermark) { w.opacity = opacity }
}

// WithWidthRelativeToPage sets the watermark width as a fraction of the page
// width. Must be greater than 0; values above 1 overflow the page.
func WithWidthRelativeToPage(ratio float64) WatermarkOption {
	return func(w *Watermark) { w.widthRelativeToPage = ratio }
}

// WithAnchor sets where on the page the watermark is placed.
func WithAnchor(a geometry.Anchor) WatermarkOption {
	return func(w *Watermark) { w.anchor = a }
}

// NewWatermark applies opts over the defaults (-45 degrees, 0.125 opacity,
// three quarters of the page width, centered) and validates every field.
func NewWatermark(opts ...WatermarkOption) (*Watermark, error) {
	w := &Watermark{
		rotation:            DefaultRotation,
		opacity:             DefaultOpacity,
		widthRelativeToPage: DefaultWidthRelativeToPage,
		anchor:              geometry.Center,
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// DefaultWatermark returns the watermark options used when a caller passes nil.
func DefaultWatermark() *Watermark {
	w, _ := NewWatermark()
	return w
}

func (w *Watermark) validate() error {
	if !(w.rotation >= -360 && w.rotation <= 360) {
		return pdferr.Invalid("RotationDegrees", w.rotation, "in range [-360, 360]")
	}
	if !(w.opacity > 0 && w.opacity <= 1) {
		return pdferr.Invalid("Opacity", w.opacity, "in range (0, 1]")
	}
	if !(w.widthRelativeToPage > 0) || math.IsInf(w.widthRelativeToPage, 1) {
		return pdferr.Invalid("WidthRelativeToPage", w.widthRelativeToPage, "greater than 0")
	}
	if !w.anchor.Valid() {
		return pdferr.Invalid("Anchor", w.anchor, "one of center, top-left, top-right, bottom-left, bottom-right")
	}
	return nil
}

// RotationDegrees is the clockwise rotation applied to the image.
func (w *Watermark) RotationDegrees() float64 { return w.rotation }

// Opacity is the alpha the watermark is drawn with.
func (w *Watermark) Opacity() float64 { return w.opacity }

// WidthRelativeToPage is the watermark width as a fraction of the page width.
func (w *Watermark) WidthRelativeToPage() float64 { return w.widthRelativeToPage }

// Anchor is where on the page the watermark is placed.
func (w *Watermark) Anchor() geometry.Anchor { return w.anchor }
