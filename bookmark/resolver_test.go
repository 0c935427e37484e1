package bookmark

import (
	"errors"
	"reflect"
	"testing"

	"github.com/drummonds/pdfire/pdferr"
)

type entry struct {
	title string
	dest  *Destination
	kids  []*entry
	err   error
}

func (e *entry) Title() string { return e.title }

func (e *entry) Destination() (Destination, bool) {
	if e.dest == nil {
		return Destination{}, false
	}
	return *e.dest, true
}

func (e *entry) Children() ([]Outline, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([]Outline, len(e.kids))
	for i, k := range e.kids {
		out[i] = k
	}
	return out, nil
}

func named(name string) *Destination    { return &Destination{Name: name} }
func explicit(ref PageRef) *Destination { return &Destination{Page: ref} }

var pages = PageIndex{10: 1, 20: 2, 30: 3}

func TestResolveTreeNested(t *testing.T) {
	root := &entry{kids: []*entry{
		{title: "Part I", kids: []*entry{
			{title: "Chapter 1", kids: []*entry{
				{title: "Section 1.1", dest: named("s11")},
				{title: "Section 1.2", dest: explicit(20)},
			}},
		}},
		{title: "Part II", kids: []*entry{
			{title: "Chapter 2", kids: []*entry{
				{title: "Section 2.1", dest: named("s21")},
			}},
		}},
	}}
	names := NameMap{"s11": 10, "s21": 30}

	got, err := ResolveTree(root, names, pages)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []Node{
		{Title: "Part I", Children: []Node{
			{Title: "Chapter 1", Children: []Node{
				{Title: "Section 1.1", PageNumber: 1},
				{Title: "Section 1.2", PageNumber: 2},
			}},
		}},
		{Title: "Part II", Children: []Node{
			{Title: "Chapter 2", Children: []Node{
				{Title: "Section 2.1", PageNumber: 3},
			}},
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveTree mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestResolveTreePreservesOrder(t *testing.T) {
	root := &entry{}
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		root.kids = append(root.kids, &entry{title: title})
	}

	got, err := ResolveTree(root, nil, pages)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, title := range []string{"a", "b", "c", "d", "e"} {
		if got[i].Title != title {
			t.Errorf("Position %d: expected %q, got %q", i, title, got[i].Title)
		}
	}
}

func TestResolveTreeEmptyOutline(t *testing.T) {
	got, err := ResolveTree(&entry{}, nil, pages)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no bookmarks, got %d", len(got))
	}

	got, err = ResolveTree(nil, nil, pages)
	if err != nil || got != nil {
		t.Errorf("Expected nil result for nil root, got %v, %v", got, err)
	}
}

func TestResolveTreeUnknownName(t *testing.T) {
	root := &entry{kids: []*entry{
		{title: "Good", dest: named("ok")},
		{title: "Broken", dest: named("missing")},
	}}

	got, err := ResolveTree(root, NameMap{"ok": 10}, pages)
	if !errors.Is(err, pdferr.ErrResolution) {
		t.Fatalf("Expected ErrResolution, got: %v", err)
	}
	if got != nil {
		t.Errorf("Expected no partial tree, got %+v", got)
	}

	var resErr *pdferr.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Expected *ResolutionError, got %T", err)
	}
	if resErr.Title != "Broken" || resErr.Destination != "missing" {
		t.Errorf("Unexpected error detail: %+v", resErr)
	}
}

func TestResolveTreePageNotInDocument(t *testing.T) {
	root := &entry{kids: []*entry{{title: "Dangling", dest: explicit(99)}}}

	if _, err := ResolveTree(root, nil, pages); !errors.Is(err, pdferr.ErrResolution) {
		t.Errorf("Expected ErrResolution, got: %v", err)
	}
}

func TestResolveTreeChildrenError(t *testing.T) {
	cause := errors.New("outline sibling chain loops")
	root := &entry{kids: []*entry{{title: "Loop", err: cause}}}

	_, err := ResolveTree(root, nil, pages)
	if !errors.Is(err, pdferr.ErrResolution) || !errors.Is(err, cause) {
		t.Errorf("Expected ErrResolution wrapping the cause, got: %v", err)
	}
}

func TestResolveTreeDepthGuard(t *testing.T) {
	// An entry that is its own child never terminates without the guard.
	loop := &entry{title: "again"}
	loop.kids = []*entry{loop}

	_, err := ResolveTree(&entry{kids: []*entry{loop}}, nil, pages)
	if !errors.Is(err, pdferr.ErrResolution) {
		t.Errorf("Expected ErrResolution for self-referencing outline, got: %v", err)
	}
}

func TestResolveTreeIsRepeatable(t *testing.T) {
	root := &entry{kids: []*entry{{title: "One", dest: explicit(10), kids: []*entry{{title: "Two", dest: explicit(30)}}}}}

	first, err := ResolveTree(root, nil, pages)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := ResolveTree(root, nil, pages)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results, got %+v and %+v", first, second)
	}
}
