package pdfmodel

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/drummonds/pdfire/engine"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var _ engine.Stamper = (*Session)(nil)

// Stamp writes a copy of the document with the PNG image png drawn on top of
// every placement's page. The session's own bytes are left untouched.
func (s *Session) Stamp(png []byte, placements []engine.Placement) ([]byte, error) {
	if len(placements) == 0 {
		return nil, errors.New("no placements")
	}

	watermarks := make(map[int]*model.Watermark, len(placements))
	for _, p := range placements {
		wm, err := api.ImageWatermarkForReader(bytes.NewReader(png), Descriptor(p), true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("unable to prepare watermark for page %d: %w", p.Page, err)
		}
		watermarks[p.Page] = wm
	}

	var out bytes.Buffer
	if err := api.AddWatermarksMap(bytes.NewReader(s.data), &out, watermarks, NewConfiguration()); err != nil {
		return nil, err
	}

	Logger.Debug("Stamped document", "pages", len(watermarks), "in", len(s.data), "out", out.Len())
	return out.Bytes(), nil
}

// Descriptor renders a placement in pdfcpu's watermark description syntax.
// The image is anchored by its lower-left corner at an absolute offset and
// scaled from its pixel size; rotation is already baked into the image.
func Descriptor(p engine.Placement) string {
	return fmt.Sprintf("position:bl, offset:%.4f %.4f, scalefactor:%.6f abs, rotation:0, opacity:%.4f",
		p.X, p.Y, p.Scale, p.Opacity)
}
