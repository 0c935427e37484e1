// Package pdftest assembles small, valid PDF documents in memory for tests:
// pages with one line of text, an optional outline and named destinations.
package pdftest

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Bookmark is an outline entry. At most one of Page, Name or ActionPage is
// used as its destination; none gives an entry without destination.
type Bookmark struct {
	Title      string
	Page       int    // explicit destination, 1-based
	Name       string // named destination, looked up in Doc.Names
	ActionPage int    // GoTo action destination, 1-based
	Children   []Bookmark
}

// Doc describes the document to build.
type Doc struct {
	// Pages holds the width and height of each page in points.
	Pages    [][2]float64
	Outline  []Bookmark
	Names    map[string]int // destination name to 1-based page
	Legacy   bool           // store Names in the catalog /Dests dictionary instead of a name tree
	NoText   bool           // leave pages without content streams
	Dangling string         // a named destination pointing at an object that is not a page
}

// Letter returns a Doc with n US Letter pages.
func Letter(n int) Doc {
	pages := make([][2]float64, n)
	for i := range pages {
		pages[i] = [2]float64{612, 792}
	}
	return Doc{Pages: pages}
}

type writer struct {
	objects []string
}

func (w *writer) reserve() int {
	w.objects = append(w.objects, "")
	return len(w.objects)
}

func (w *writer) set(nr int, body string) {
	w.objects[nr-1] = body
}

func (w *writer) add(body string) int {
	nr := w.reserve()
	w.set(nr, body)
	return nr
}

func ref(nr int) string { return fmt.Sprintf("%d 0 R", nr) }

// Build renders doc as a PDF file.
func Build(doc Doc) []byte {
	w := &writer{}
	catalog := w.reserve()
	pagesNr := w.reserve()
	font := w.add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	pageRefs := make([]int, len(doc.Pages))
	kids := make([]string, len(doc.Pages))
	for i, size := range doc.Pages {
		page := w.reserve()
		pageRefs[i] = page
		kids[i] = ref(page)

		contents := ""
		if !doc.NoText {
			text := fmt.Sprintf("BT /F1 24 Tf 72 %.0f Td (Page %d) Tj ET", size[1]-72, i+1)
			stream := w.add(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(text), text))
			contents = " /Contents " + ref(stream)
		}
		w.set(page, fmt.Sprintf("<< /Type /Page /Parent %s /MediaBox [0 0 %v %v] /Resources << /Font << /F1 %s >> >>%s >>",
			ref(pagesNr), size[0], size[1], ref(font), contents))
	}
	w.set(pagesNr, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids)))

	explicit := func(page int) string {
		if page < 1 || page > len(pageRefs) {
			return "[0 /Fit]"
		}
		return fmt.Sprintf("[%s /Fit]", ref(pageRefs[page-1]))
	}

	extra := ""
	if len(doc.Outline) > 0 {
		root := w.reserve()
		first, last, count := writeOutline(w, doc.Outline, root, doc.Legacy, explicit)
		w.set(root, fmt.Sprintf("<< /Type /Outlines /First %s /Last %s /Count %d >>", ref(first), ref(last), count))
		extra += " /Outlines " + ref(root) + " /PageMode /UseOutlines"
	}

	if len(doc.Names) > 0 || doc.Dangling != "" {
		keys := make([]string, 0, len(doc.Names))
		for k := range doc.Names {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		dests := make([]string, 0, len(keys)+1)
		for _, k := range keys {
			dests = append(dests, fmt.Sprintf("%s %s", key(k, doc.Legacy), explicit(doc.Names[k])))
		}
		if doc.Dangling != "" {
			dests = append(dests, fmt.Sprintf("%s [%s /Fit]", key(doc.Dangling, doc.Legacy), ref(font)))
		}

		if doc.Legacy {
			extra += " /Dests " + ref(w.add("<< "+strings.Join(dests, " ")+" >>"))
		} else {
			tree := w.add("<< /Names [" + strings.Join(dests, " ") + "] >>")
			extra += fmt.Sprintf(" /Names << /Dests %s >>", ref(tree))
		}
	}

	w.set(catalog, fmt.Sprintf("<< /Type /Catalog /Pages %s%s >>", ref(pagesNr), extra))

	return w.bytes(catalog)
}

func key(name string, legacy bool) string {
	if legacy {
		return "/" + name
	}
	return "(" + name + ")"
}

// writeOutline writes one sibling list and returns its first and last item
// numbers and the number of items below parent.
func writeOutline(w *writer, items []Bookmark, parent int, legacy bool, explicit func(int) string) (int, int, int) {
	nrs := make([]int, len(items))
	for i := range items {
		nrs[i] = w.reserve()
	}

	total := 0
	for i, item := range items {
		var b strings.Builder
		fmt.Fprintf(&b, "<< /Title (%s) /Parent %s", item.Title, ref(parent))
		if i > 0 {
			fmt.Fprintf(&b, " /Prev %s", ref(nrs[i-1]))
		}
		if i < len(items)-1 {
			fmt.Fprintf(&b, " /Next %s", ref(nrs[i+1]))
		}
		switch {
		case item.Page > 0:
			fmt.Fprintf(&b, " /Dest %s", explicit(item.Page))
		case item.Name != "":
			fmt.Fprintf(&b, " /Dest %s", key(item.Name, legacy))
		case item.ActionPage > 0:
			fmt.Fprintf(&b, " /A << /S /GoTo /D %s >>", explicit(item.ActionPage))
		}
		if len(item.Children) > 0 {
			first, last, count := writeOutline(w, item.Children, nrs[i], legacy, explicit)
			fmt.Fprintf(&b, " /First %s /Last %s /Count %d", ref(first), ref(last), count)
			total += count
		}
		b.WriteString(" >>")
		w.set(nrs[i], b.String())
		total++
	}

	return nrs[0], nrs[len(nrs)-1], total
}

func (w *writer) bytes(root int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(w.objects))
	for i, body := range w.objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(w.objects)+1)
	fmt.Fprintf(&buf, "%010d %05d f \n", 0, 65535)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d %05d n \n", off, 0)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %s >>\nstartxref\n%d\n%%%%EOF\n", len(w.objects)+1, ref(root), xref)

	return buf.Bytes()
}
