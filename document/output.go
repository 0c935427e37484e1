package document

import (
	"bytes"
	"io"
	"os"
)

// Bytes returns a copy of the current PDF.
func (d *Document) Bytes() ([]byte, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return bytes.Clone(d.data), nil
}

// WriteTo writes the current PDF to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	n, err := w.Write(d.data)
	return int64(n), err
}

// Save writes the current PDF to path, replacing any existing file.
func (d *Document) Save(path string) error {
	if err := d.check(); err != nil {
		return err
	}
	if err := os.WriteFile(path, d.data, 0644); err != nil {
		return err
	}
	d.logger.Debug("Document saved", "path", path, "version", d.version)
	return nil
}
