// Package pdferr holds the error taxonomy shared by every pdfire package.
//
// Callers match causes with errors.Is against the sentinels and pull details
// (offending field, page, destination) out with errors.As.
package pdferr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPDF           = errors.New("pdfire: data is not a PDF document")
	ErrInvalidImage         = errors.New("pdfire: data is corrupted or is not an image, supported formats: [bmp, png, jpeg, tiff]")
	ErrInvalidConfiguration = errors.New("pdfire: invalid configuration")
	ErrPageOutOfRange       = errors.New("pdfire: page out of range")
	ErrResolution           = errors.New("pdfire: unresolvable destination")
	ErrObjectDisposed       = errors.New("pdfire: object has been disposed")
)

// ConfigError names an option field whose value is outside its valid range.
type ConfigError struct {
	Field string
	Value any
	Want  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pdfire: invalid configuration: %s=%v, must be %s", e.Field, e.Value, e.Want)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfiguration }

// Invalid is shorthand for building a *ConfigError.
func Invalid(field string, value any, want string) error {
	return &ConfigError{Field: field, Value: value, Want: want}
}

// PageError reports a page or page range outside [1, PageCount].
// A single page is reported with Start == End.
type PageError struct {
	Start     int
	End       int
	PageCount int
}

func (e *PageError) Error() string {
	switch {
	case e.Start > e.End:
		return fmt.Sprintf("pdfire: page out of range: start page %d is after end page %d", e.Start, e.End)
	case e.Start == e.End:
		return fmt.Sprintf("pdfire: page out of range: page %d not in [1, %d]", e.Start, e.PageCount)
	default:
		return fmt.Sprintf("pdfire: page out of range: pages %d-%d not in [1, %d]", e.Start, e.End, e.PageCount)
	}
}

func (e *PageError) Unwrap() error { return ErrPageOutOfRange }

// CheckPage returns a *PageError unless 1 <= page <= pageCount.
func CheckPage(page, pageCount int) error {
	if page < 1 || page > pageCount {
		return &PageError{Start: page, End: page, PageCount: pageCount}
	}
	return nil
}

// CheckPages validates every page before any work is done on them.
func CheckPages(pages []int, pageCount int) error {
	for _, p := range pages {
		if err := CheckPage(p, pageCount); err != nil {
			return err
		}
	}
	return nil
}

// PageRange expands start..end inclusive. start > end is rejected.
func PageRange(start, end int) ([]int, error) {
	if start > end {
		return nil, &PageError{Start: start, End: end}
	}
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages, nil
}

// ResolutionError is returned when an outline destination cannot be mapped to
// a page of the document.
type ResolutionError struct {
	Title       string
	Destination string
	Err         error
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("pdfire: unresolvable destination %q for bookmark %q", e.Destination, e.Title)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() error { return e.Err }

func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }
