// Package bookmark turns a document outline into a tree of titled page
// references.
package bookmark

import (
	"fmt"
	"strconv"
)

// Node is one bookmark. PageNumber is 1-based, or 0 when the outline entry
// has no destination.
type Node struct {
	Title      string
	PageNumber int
	Children   []Node
}

// PageRef identifies a page object of the document, by object number.
// Zero never identifies a page.
type PageRef int

// Destination is where an outline entry points: either a symbolic name to be
// looked up in a NameMap or an explicit page object.
type Destination struct {
	Name string
	Page PageRef
}

func (d Destination) String() string {
	if d.Name != "" {
		return d.Name
	}
	return "page object " + strconv.Itoa(int(d.Page))
}

// Outline is a read-only view of one outline entry.
type Outline interface {
	Title() string
	Destination() (Destination, bool)
	Children() ([]Outline, error)
}

// NameMap maps symbolic destination names to their target page objects.
type NameMap map[string]PageRef

// PageLookup maps a page object to its 1-based position in the page tree.
type PageLookup interface {
	PageNumber(ref PageRef) (int, error)
}

// PageIndex is the PageLookup built from walking the page tree once.
type PageIndex map[PageRef]int

func (idx PageIndex) PageNumber(ref PageRef) (int, error) {
	if n, ok := idx[ref]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("object %d is not a page of this document", ref)
}

func resolvePage(dest Destination, names NameMap, pages PageLookup) (int, error) {
	ref := dest.Page
	if dest.Name != "" {
		target, ok := names[dest.Name]
		if !ok {
			return 0, fmt.Errorf("no named destination %q", dest.Name)
		}
		ref = target
	}
	return pages.PageNumber(ref)
}
