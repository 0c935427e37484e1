package bookmark

import (
	"fmt"

	"github.com/drummonds/pdfire/pdferr"
)

// MaxDepth bounds outline nesting. Real outlines stay in single digits.
const MaxDepth = 256

type frame struct {
	entry Outline
	node  *Node
	depth int
}

// ResolveTree builds one Node per direct child of root, in outline order,
// with every entry's destination resolved through names and pages.
//
// Any destination that cannot be mapped to a page aborts the whole walk with
// a *pdferr.ResolutionError; no partial tree is returned.
func ResolveTree(root Outline, names NameMap, pages PageLookup) ([]Node, error) {
	if root == nil {
		return nil, nil
	}
	top, err := root.Children()
	if err != nil {
		return nil, &pdferr.ResolutionError{Title: root.Title(), Err: err}
	}

	nodes := make([]Node, len(top))
	stack := make([]frame, 0, len(top))
	stack = pushChildren(stack, top, nodes, 1)

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		title := f.entry.Title()
		if f.depth > MaxDepth {
			return nil, &pdferr.ResolutionError{
				Title: title,
				Err:   fmt.Errorf("outline nested deeper than %d levels", MaxDepth),
			}
		}

		f.node.Title = title
		if dest, ok := f.entry.Destination(); ok {
			n, err := resolvePage(dest, names, pages)
			if err != nil {
				return nil, &pdferr.ResolutionError{Title: title, Destination: dest.String(), Err: err}
			}
			f.node.PageNumber = n
		}

		kids, err := f.entry.Children()
		if err != nil {
			return nil, &pdferr.ResolutionError{Title: title, Err: err}
		}
		if len(kids) > 0 {
			f.node.Children = make([]Node, len(kids))
			stack = pushChildren(stack, kids, f.node.Children, f.depth+1)
		}
	}

	return nodes, nil
}

// pushChildren pushes kids in reverse so they are popped in outline order.
// dst must already have len(kids) elements; frames point into it.
func pushChildren(stack []frame, kids []Outline, dst []Node, depth int) []frame {
	for i := len(kids) - 1; i >= 0; i-- {
		stack = append(stack, frame{entry: kids[i], node: &dst[i], depth: depth})
	}
	return stack
}
