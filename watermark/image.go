// Package watermark holds the images stamped onto pages as watermarks.
package watermark

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/drummonds/pdfire/geometry"
	"github.com/drummonds/pdfire/pdferr"
	"github.com/drummonds/pdfire/source"
)

// signatures are the leading bytes of the accepted image encodings.
var signatures = [][]byte{
	[]byte("BM"),             // bmp
	{0x89, 0x50, 0x4E, 0x47}, // png
	{0x49, 0x49, 0x2A},       // tiff, little-endian
	{0x4D, 0x4D, 0x2A},       // tiff, big-endian
	{0xFF, 0xD8, 0xFF, 0xE0}, // jpeg
	{0xFF, 0xD8, 0xFF, 0xE1}, // jpeg, exif (canon)
}

// IsImage reports whether data starts with an accepted image signature.
func IsImage(data []byte) bool {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// Image is a decoded watermark image. Close releases the pixel buffer.
type Image struct {
	data   []byte
	img    image.Image
	format string
}

// New validates the signature of data and decodes it.
func New(data []byte) (*Image, error) {
	if !IsImage(data) {
		return nil, pdferr.ErrInvalidImage
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pdferr.ErrInvalidImage, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pdferr.ErrInvalidImage, err)
	}

	return &Image{data: data, img: img, format: format}, nil
}

// FromImage encodes img as PNG and wraps it.
func FromImage(img image.Image) (*Image, error) {
	if img == nil {
		return nil, pdferr.ErrInvalidImage
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: %v", pdferr.ErrInvalidImage, err)
	}
	return New(buf.Bytes())
}

// FromReader buffers r fully and wraps it.
func FromReader(r io.Reader) (*Image, error) {
	data, err := source.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(data)
}

// FromFile reads the image at path.
func FromFile(path string) (*Image, error) {
	data, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(data)
}

// FromURL downloads the image at url with client.
func FromURL(ctx context.Context, client *source.Client, url string) (*Image, error) {
	if client == nil {
		client = source.NewClient(source.DefaultTimeout)
	}
	data, err := client.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	return New(data)
}

// Format is the name the image was decoded with: bmp, png, tiff or jpeg.
func (w *Image) Format() string { return w.format }

// Bytes returns the encoded image as it was supplied.
func (w *Image) Bytes() ([]byte, error) {
	if w.img == nil {
		return nil, pdferr.ErrObjectDisposed
	}
	return w.data, nil
}

// Bounds returns the pixel bounds of the decoded image.
func (w *Image) Bounds() (image.Rectangle, error) {
	if w.img == nil {
		return image.Rectangle{}, pdferr.ErrObjectDisposed
	}
	return w.img.Bounds(), nil
}

// Rotated returns the image turned clockwise by degrees, centered on a
// transparent canvas just large enough to hold it unclipped.
func (w *Image) Rotated(degrees float64) (*image.NRGBA, error) {
	if w.img == nil {
		return nil, pdferr.ErrObjectDisposed
	}
	b := w.img.Bounds()
	width, height := geometry.RotatedBoundingSize(degrees, b.Dx(), b.Dy())

	// imaging.Rotate turns counter-clockwise.
	rotated := imaging.Rotate(w.img, -degrees, color.Transparent)
	canvas := imaging.New(width, height, color.Transparent)
	return imaging.PasteCenter(canvas, rotated), nil
}

// Close releases the decoded pixels. Further use returns pdferr.ErrObjectDisposed.
func (w *Image) Close() error {
	w.img = nil
	w.data = nil
	return nil
}
