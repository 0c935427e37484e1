// Package document is the entry point of pdfire. A Document owns one PDF in
// memory and runs bookmark extraction, page rendering and watermarking
// against it, opening a short-lived parser or renderer session per call.
//
// A Document is not safe for concurrent use. Separate Documents share no
// state.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/drummonds/pdfire/config"
	"github.com/drummonds/pdfire/engine"
	"github.com/drummonds/pdfire/engine/pdfrenderer"
	"github.com/drummonds/pdfire/options"
	"github.com/drummonds/pdfire/pdferr"
	"github.com/drummonds/pdfire/pdfmodel"
	"github.com/drummonds/pdfire/source"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

// InjectLogger points every package logger at logger.
func InjectLogger(logger *slog.Logger) {
	Logger = logger
	config.Logger = logger
	engine.Logger = logger
	pdfmodel.Logger = logger
}

var pdfSignature = []byte("%PDF-")

type state int

const (
	validated state = iota
	beingMutated
	disposed
)

var errBusy = errors.New("document is being modified")

// Document is an in-memory PDF.
type Document struct {
	id      ulid.ULID
	data    []byte
	version int
	state   state

	renderer     pdfrenderer.Renderer // injected, not owned
	rendererKind string
	newRenderer  func(kind string) (pdfrenderer.Renderer, error)
	rendering    *options.Rendering
	watermark    *options.Watermark
	fetch        *source.Client
	logger       *slog.Logger
}

// Option configures a Document before its content is loaded.
type Option func(*Document) error

// WithRenderer renders pages with r. The caller keeps ownership of r and
// closes it after the Document is done with it.
func WithRenderer(r pdfrenderer.Renderer) Option {
	return func(d *Document) error {
		d.renderer = r
		return nil
	}
}

// WithRendererKind picks the backend created for each rendering call when no
// renderer is injected: pdfrenderer.KindPDFium or pdfrenderer.KindFitz.
func WithRendererKind(kind string) Option {
	return func(d *Document) error {
		if kind != pdfrenderer.KindPDFium && kind != pdfrenderer.KindFitz {
			return pdferr.Invalid("Renderer", kind, pdfrenderer.KindPDFium+" or "+pdfrenderer.KindFitz)
		}
		d.rendererKind = kind
		return nil
	}
}

// WithRenderingDefaults replaces the options used when a render call passes nil.
func WithRenderingDefaults(opts *options.Rendering) Option {
	return func(d *Document) error {
		if opts != nil {
			d.rendering = opts
		}
		return nil
	}
}

// WithWatermarkDefaults replaces the options used when a watermark call passes nil.
func WithWatermarkDefaults(opts *options.Watermark) Option {
	return func(d *Document) error {
		if opts != nil {
			d.watermark = opts
		}
		return nil
	}
}

// WithSettings applies environment settings: renderer kind, default options
// and the download timeout.
func WithSettings(s config.Settings) Option {
	return func(d *Document) error {
		if err := s.Validate(); err != nil {
			return err
		}
		rendering, err := s.RenderingOptions()
		if err != nil {
			return err
		}
		watermark, err := s.WatermarkOptions()
		if err != nil {
			return err
		}
		d.rendererKind = s.Renderer
		d.rendering = rendering
		d.watermark = watermark
		d.fetch = source.NewClient(s.FetchTimeout)
		return nil
	}
}

// WithHTTPClient downloads URLs with client.
func WithHTTPClient(client *source.Client) Option {
	return func(d *Document) error {
		if client != nil {
			d.fetch = client
		}
		return nil
	}
}

// WithLogger logs through logger instead of the package Logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) error {
		d.logger = logger
		return nil
	}
}

func configure(opts []Option) (*Document, error) {
	d := &Document{
		id:           ulid.Make(),
		rendererKind: pdfrenderer.KindPDFium,
		newRenderer:  pdfrenderer.New,
		rendering:    options.DefaultRendering(),
		watermark:    options.DefaultWatermark(),
		fetch:        source.NewClient(source.DefaultTimeout),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	if d.logger == nil {
		d.logger = Logger
	}
	d.logger = d.logger.With("document", d.id.String())
	return d, nil
}

func (d *Document) load(data []byte) (*Document, error) {
	if !bytes.HasPrefix(data, pdfSignature) {
		return nil, fmt.Errorf("%w: missing %%PDF- header", pdferr.ErrInvalidPDF)
	}
	d.data = data
	d.logger.Debug("Document opened", "bytes", len(data))
	return d, nil
}

// New wraps a copy of data.
func New(data []byte, opts ...Option) (*Document, error) {
	d, err := configure(opts)
	if err != nil {
		return nil, err
	}
	return d.load(bytes.Clone(data))
}

// Open reads r to the end.
func Open(r io.Reader, opts ...Option) (*Document, error) {
	d, err := configure(opts)
	if err != nil {
		return nil, err
	}
	data, err := source.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return d.load(data)
}

// OpenFile reads the PDF at path.
func OpenFile(path string, opts ...Option) (*Document, error) {
	d, err := configure(opts)
	if err != nil {
		return nil, err
	}
	data, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return d.load(data)
}

// OpenURL downloads the PDF at url.
func OpenURL(ctx context.Context, url string, opts ...Option) (*Document, error) {
	d, err := configure(opts)
	if err != nil {
		return nil, err
	}
	data, err := d.fetch.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	return d.load(data)
}

// ID identifies the document in log output.
func (d *Document) ID() string {
	return d.id.String()
}

// Version counts the mutations applied since the document was opened. It
// starts at zero and each successful watermark call adds one.
func (d *Document) Version() int {
	return d.version
}

func (d *Document) check() error {
	switch d.state {
	case disposed:
		return pdferr.ErrObjectDisposed
	case beingMutated:
		return errBusy
	}
	return nil
}

// Close releases the document buffer. Every later call fails with
// pdferr.ErrObjectDisposed. Closing twice is harmless.
func (d *Document) Close() error {
	if d.state == disposed {
		return nil
	}
	d.state = disposed
	d.data = nil
	d.logger.Debug("Document closed", "version", d.version)
	return nil
}
