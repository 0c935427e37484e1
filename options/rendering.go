// Package options holds the validated parameter bundles that drive page
// rendering and watermarking. Values are built once through a constructor,
// validated there, and are read-only afterwards.
package options

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/drummonds/pdfire/pdferr"
)

// Quality selects how hard rendered pages are compressed.
type Quality int

// Medium is the zero value and the default.
const (
	Medium Quality = iota
	High
	Low
)

func (q Quality) String() string {
	switch q {
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// CompressionRate maps q onto the 1-100 scale handed to the image codec.
// For JPEG it is the quality, so higher means larger, more faithful output.
// PNG is lossless and only uses it to pick the zlib effort.
func (q Quality) CompressionRate() (int, error) {
	switch q {
	case High:
		return 100, nil
	case Medium:
		return 75, nil
	case Low:
		return 50, nil
	}
	return 0, pdferr.Invalid("Quality", q, "one of high, medium, low")
}

// ParseQuality accepts high, medium or low in any case.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return High, nil
	case "medium":
		return Medium, nil
	case "low":
		return Low, nil
	}
	return 0, pdferr.Invalid("Quality", s, "one of high, medium, low")
}

// Format is the encoding of rendered page images.
type Format int

// PNG is the zero value and the default.
const (
	PNG Format = iota
	JPEG
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat accepts png, jpeg or jpg in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	}
	return 0, pdferr.Invalid("Format", s, "one of png, jpeg")
}

// DefaultTargetWidth is the rendered page width in pixels when none is set.
const DefaultTargetWidth = 1100

// White is the default page background.
var White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Rendering controls how pages are rasterized.
type Rendering struct {
	targetWidth float64
	quality     Quality
	background  color.NRGBA
	format      Format
}

// RenderingOption sets one field of a Rendering before validation.
type RenderingOption func(*Rendering)

// WithTargetWidth sets the width in pixels of every rendered page.
func WithTargetWidth(width float64) RenderingOption {
	return func(r *Rendering) { r.targetWidth = width }
}

// WithQuality sets the compression level of rendered pages.
func WithQuality(q Quality) RenderingOption {
	return func(r *Rendering) { r.quality = q }
}

// WithBackground sets the color the canvas is filled with before the page is drawn.
func WithBackground(c color.Color) RenderingOption {
	return func(r *Rendering) { r.background = color.NRGBAModel.Convert(c).(color.NRGBA) }
}

// WithFormat sets the encoding of rendered pages.
func WithFormat(f Format) RenderingOption {
	return func(r *Rendering) { r.format = f }
}

// NewRendering applies opts over the defaults (1100px wide, medium quality,
// opaque white background, PNG) and validates the result.
func NewRendering(opts ...RenderingOption) (*Rendering, error) {
	r := &Rendering{
		targetWidth: DefaultTargetWidth,
		quality:     Medium,
		background:  White,
		format:      PNG,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// DefaultRendering returns the rendering options used when a caller passes nil.
func DefaultRendering() *Rendering {
	r, _ := NewRendering()
	return r
}

func (r *Rendering) validate() error {
	if !(r.targetWidth > 0) || math.IsInf(r.targetWidth, 1) {
		return pdferr.Invalid("TargetWidth", r.targetWidth, "greater than 0")
	}
	if _, err := r.quality.CompressionRate(); err != nil {
		return err
	}
	if r.format != PNG && r.format != JPEG {
		return pdferr.Invalid("Format", r.format, "one of png, jpeg")
	}
	return nil
}

// TargetWidth is the width in pixels of every rendered page.
func (r *Rendering) TargetWidth() float64 { return r.targetWidth }

// Quality is the compression level of rendered pages.
func (r *Rendering) Quality() Quality { return r.quality }

// Background is the color behind transparent page areas.
func (r *Rendering) Background() color.NRGBA { return r.background }

// Format is the encoding of rendered pages.
func (r *Rendering) Format() Format { return r.format }
