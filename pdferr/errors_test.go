package pdferr

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestConfigErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("building options: %w", Invalid("Opacity", 0.0, "in range (0, 1]"))

	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("Expected ErrInvalidConfiguration, got: %v", err)
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected *ConfigError in chain, got: %T", err)
	}
	if cfgErr.Field != "Opacity" {
		t.Errorf("Expected field Opacity, got %q", cfgErr.Field)
	}
}

func TestCheckPages(t *testing.T) {
	tests := []struct {
		name    string
		pages   []int
		count   int
		wantErr bool
	}{
		{"all valid", []int{1, 2, 3}, 3, false},
		{"empty", nil, 3, false},
		{"zero page", []int{0}, 3, true},
		{"past end", []int{1, 4}, 3, true},
		{"empty document", []int{1}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPages(tt.pages, tt.count)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckPages(%v, %d) error = %v, wantErr %v", tt.pages, tt.count, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrPageOutOfRange) {
				t.Errorf("Expected ErrPageOutOfRange, got: %v", err)
			}
		})
	}
}

func TestPageRange(t *testing.T) {
	pages, err := PageRange(2, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(pages, []int{2, 3, 4}) {
		t.Errorf("Expected [2 3 4], got %v", pages)
	}

	pages, err = PageRange(3, 3)
	if err != nil || !reflect.DeepEqual(pages, []int{3}) {
		t.Errorf("Expected [3], got %v (err %v)", pages, err)
	}

	if _, err := PageRange(4, 2); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("Expected ErrPageOutOfRange for descending range, got: %v", err)
	}
}

func TestResolutionErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("page object 12 not in page tree")
	err := &ResolutionError{Title: "Chapter 1", Destination: "chap1", Err: cause}

	if !errors.Is(err, ErrResolution) {
		t.Error("Expected ResolutionError to match ErrResolution")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected ResolutionError to unwrap to its cause")
	}
}
