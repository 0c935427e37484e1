// Package geometry holds the placement math for watermarks: the canvas needed
// to hold a rotated image and the anchored position of an image on a page.
package geometry

import (
	"fmt"
	"math"
	"strings"

	"github.com/drummonds/pdfire/pdferr"
)

// Anchor is a named position on the page that a watermark is attached to.
type Anchor int

const (
	Center Anchor = iota
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

var anchorNames = map[Anchor]string{
	Center:      "center",
	TopLeft:     "top-left",
	TopRight:    "top-right",
	BottomLeft:  "bottom-left",
	BottomRight: "bottom-right",
}

func (a Anchor) String() string {
	if name, ok := anchorNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Anchor(%d)", int(a))
}

// Valid reports whether a is one of the declared anchors.
func (a Anchor) Valid() bool {
	_, ok := anchorNames[a]
	return ok
}

// ParseAnchor accepts the names printed by String, case-insensitively, with
// '_' or '-' separators.
func ParseAnchor(s string) (Anchor, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for a, name := range anchorNames {
		if s == name || s == strings.ReplaceAll(name, "-", "") {
			return a, nil
		}
	}
	return 0, pdferr.Invalid("Anchor", s, "one of center, top-left, top-right, bottom-left, bottom-right")
}

// epsilon absorbs floating point noise from sin/cos so that exact multiples of
// 90 degrees do not grow the canvas by a pixel.
const epsilon = 1e-9

// RotatedBoundingSize rotates a width x height rectangle about the origin by
// degrees (clockwise positive) and returns the ceiling of the width and height
// of the axis-aligned box around the rotated corners.
func RotatedBoundingSize(degrees float64, width, height int) (int, int) {
	rads := degrees * math.Pi / 180
	sin, cos := math.Sincos(-rads)

	xs := [4]float64{0, float64(width), float64(width), 0}
	ys := [4]float64{0, 0, float64(height), float64(height)}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := range xs {
		x := cos*xs[i] - sin*ys[i]
		y := sin*xs[i] + cos*ys[i]
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	return int(math.Ceil(maxX - minX - epsilon)), int(math.Ceil(maxY - minY - epsilon))
}

// AnchorCoordinates returns the lower-left corner of an imageWidth x
// imageHeight rectangle placed at anchor on the page. The origin is the
// bottom-left corner of the page.
func AnchorCoordinates(anchor Anchor, pageWidth, pageHeight, imageWidth, imageHeight float64) (x, y float64, err error) {
	switch anchor {
	case TopLeft:
		return 0, pageHeight - imageHeight, nil
	case TopRight:
		return pageWidth - imageWidth, pageHeight - imageHeight, nil
	case Center:
		return (pageWidth - imageWidth) / 2, (pageHeight - imageHeight) / 2, nil
	case BottomLeft:
		return 0, 0, nil
	case BottomRight:
		return pageWidth - imageWidth, 0, nil
	default:
		return 0, 0, pdferr.Invalid("Anchor", anchor, "one of center, top-left, top-right, bottom-left, bottom-right")
	}
}
