package pdfmodel

import (
	"fmt"

	"github.com/drummonds/pdfire/bookmark"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// outlineItem is a bookmark.Outline over one outline dictionary.
type outlineItem struct {
	s     *Session
	dict  types.Dict
	title string
	seen  map[int]bool
}

// Outline returns the root of the document outline, or nil when the catalog
// has none.
func (s *Session) Outline() (bookmark.Outline, error) {
	catalog, err := s.ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("unable to read catalog: %w", err)
	}

	obj, found := catalog.Find("Outlines")
	if !found {
		return nil, nil
	}
	root, err := s.ctx.DereferenceDict(obj)
	if err != nil {
		return nil, fmt.Errorf("unable to read outline root: %w", err)
	}
	if root == nil {
		return nil, nil
	}

	seen := map[int]bool{}
	if ref, ok := obj.(types.IndirectRef); ok {
		seen[ref.ObjectNumber.Value()] = true
	}
	return &outlineItem{s: s, dict: root, seen: seen}, nil
}

func (o *outlineItem) Title() string {
	return o.title
}

func (o *outlineItem) Destination() (bookmark.Destination, bool) {
	if obj, found := o.dict.Find("Dest"); found {
		return o.s.destination(obj)
	}

	obj, found := o.dict.Find("A")
	if !found {
		return bookmark.Destination{}, false
	}
	action, err := o.s.ctx.DereferenceDict(obj)
	if err != nil || action == nil {
		return bookmark.Destination{}, false
	}
	if s := action.NameEntry("S"); s == nil || *s != "GoTo" {
		return bookmark.Destination{}, false
	}
	d, found := action.Find("D")
	if !found {
		return bookmark.Destination{}, false
	}
	return o.s.destination(d)
}

// Children follows the /First and /Next chain. A chain that loops back onto
// an item already visited is reported as an error.
func (o *outlineItem) Children() ([]bookmark.Outline, error) {
	next, found := o.dict.Find("First")
	var kids []bookmark.Outline

	for found && next != nil {
		ref, ok := next.(types.IndirectRef)
		if !ok {
			return nil, fmt.Errorf("outline item link is %T, want an indirect reference", next)
		}
		nr := ref.ObjectNumber.Value()
		if o.seen[nr] {
			return nil, fmt.Errorf("outline item %d is linked more than once", nr)
		}
		o.seen[nr] = true

		dict, err := o.s.ctx.DereferenceDict(ref)
		if err != nil {
			return nil, fmt.Errorf("unable to read outline item %d: %w", nr, err)
		}
		if dict == nil {
			break
		}

		title, err := o.s.text(dict, "Title")
		if err != nil {
			return nil, fmt.Errorf("unable to read title of outline item %d: %w", nr, err)
		}
		kids = append(kids, &outlineItem{s: o.s, dict: dict, title: title, seen: o.seen})

		next, found = dict.Find("Next")
	}

	return kids, nil
}

// destination interprets a destination value: a name, a string or an
// explicit array whose first element is the target page. Destination
// dictionaries carry the array under /D.
func (s *Session) destination(obj types.Object) (bookmark.Destination, bool) {
	obj, err := s.ctx.Dereference(obj)
	if err != nil || obj == nil {
		return bookmark.Destination{}, false
	}

	switch v := obj.(type) {
	case types.Name:
		return bookmark.Destination{Name: string(v)}, true
	case types.StringLiteral, types.HexLiteral:
		name, err := decodeString(v)
		if err != nil {
			return bookmark.Destination{}, false
		}
		return bookmark.Destination{Name: name}, true
	case types.Array:
		return bookmark.Destination{Page: explicitPage(v)}, true
	case types.Dict:
		d, found := v.Find("D")
		if !found {
			return bookmark.Destination{}, false
		}
		return s.destination(d)
	}
	return bookmark.Destination{}, false
}

// explicitPage returns the page object an explicit destination targets.
// Page numbers in place of references (remote destinations) yield zero,
// which never matches a page.
func explicitPage(arr types.Array) bookmark.PageRef {
	if len(arr) == 0 {
		return 0
	}
	if ref, ok := arr[0].(types.IndirectRef); ok {
		return bookmark.PageRef(ref.ObjectNumber.Value())
	}
	return 0
}

// text reads a text string entry of dict.
func (s *Session) text(dict types.Dict, key string) (string, error) {
	obj, found := dict.Find(key)
	if !found {
		return "", nil
	}
	obj, err := s.ctx.Dereference(obj)
	if err != nil {
		return "", err
	}
	if obj == nil {
		return "", nil
	}
	return decodeString(obj)
}

func decodeString(obj types.Object) (string, error) {
	switch v := obj.(type) {
	case types.StringLiteral:
		return types.StringLiteralToString(v)
	case types.HexLiteral:
		return types.HexLiteralToString(v)
	case types.Name:
		return string(v), nil
	}
	return "", fmt.Errorf("got %T, want a string", obj)
}
