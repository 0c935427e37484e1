package pdfmodel

import (
	"fmt"

	"github.com/drummonds/pdfire/bookmark"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// maxNameTreeDepth bounds /Kids recursion in the destination name tree.
const maxNameTreeDepth = 64

// NamedDestinations collects every named destination of the document: the
// catalog /Dests dictionary of PDF 1.1 and the /Names /Dests name tree.
// When a name appears in both, the name tree wins.
func (s *Session) NamedDestinations() (bookmark.NameMap, error) {
	catalog, err := s.ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("unable to read catalog: %w", err)
	}
	names := bookmark.NameMap{}

	if obj, found := catalog.Find("Dests"); found {
		dests, err := s.ctx.DereferenceDict(obj)
		if err != nil {
			return nil, fmt.Errorf("unable to read /Dests: %w", err)
		}
		for key, value := range dests {
			if ref, ok := s.destinationPage(value); ok {
				names[key] = ref
			}
		}
	}

	obj, found := catalog.Find("Names")
	if !found {
		return names, nil
	}
	nameDict, err := s.ctx.DereferenceDict(obj)
	if err != nil {
		return nil, fmt.Errorf("unable to read /Names: %w", err)
	}
	if nameDict == nil {
		return names, nil
	}
	tree, found := nameDict.Find("Dests")
	if !found {
		return names, nil
	}
	if err := s.walkNameTree(tree, names, map[int]bool{}, 0); err != nil {
		return nil, err
	}

	return names, nil
}

func (s *Session) walkNameTree(obj types.Object, names bookmark.NameMap, visited map[int]bool, depth int) error {
	if depth > maxNameTreeDepth {
		return fmt.Errorf("destination name tree nested deeper than %d levels", maxNameTreeDepth)
	}
	if ref, ok := obj.(types.IndirectRef); ok {
		nr := ref.ObjectNumber.Value()
		if visited[nr] {
			return fmt.Errorf("destination name tree node %d is linked more than once", nr)
		}
		visited[nr] = true
	}

	node, err := s.ctx.DereferenceDict(obj)
	if err != nil {
		return fmt.Errorf("unable to read destination name tree: %w", err)
	}
	if node == nil {
		return nil
	}

	if o, found := node.Find("Names"); found {
		pairs, err := s.ctx.DereferenceArray(o)
		if err != nil {
			return fmt.Errorf("unable to read destination names: %w", err)
		}
		for i := 0; i+1 < len(pairs); i += 2 {
			key, err := s.ctx.Dereference(pairs[i])
			if err != nil {
				return err
			}
			name, err := decodeString(key)
			if err != nil {
				continue
			}
			if ref, ok := s.destinationPage(pairs[i+1]); ok {
				names[name] = ref
			}
		}
	}

	if o, found := node.Find("Kids"); found {
		kids, err := s.ctx.DereferenceArray(o)
		if err != nil {
			return fmt.Errorf("unable to read destination name tree kids: %w", err)
		}
		for _, kid := range kids {
			if err := s.walkNameTree(kid, names, visited, depth+1); err != nil {
				return err
			}
		}
	}

	return nil
}

// destinationPage extracts the page object of a named destination value,
// either an explicit array or a dictionary holding one under /D.
func (s *Session) destinationPage(obj types.Object) (bookmark.PageRef, bool) {
	obj, err := s.ctx.Dereference(obj)
	if err != nil || obj == nil {
		return 0, false
	}

	switch v := obj.(type) {
	case types.Array:
		return explicitPage(v), true
	case types.Dict:
		d, found := v.Find("D")
		if !found {
			return 0, false
		}
		arr, err := s.ctx.DereferenceArray(d)
		if err != nil || arr == nil {
			return 0, false
		}
		return explicitPage(arr), true
	}
	return 0, false
}
