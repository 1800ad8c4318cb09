// Package document loads raw statement documents: page-oriented PDFs
// (decrypting them when a secret is supplied) and spreadsheet exports. The
// output is per-page text lines plus raw table cell grids, with no
// interpretation of their contents.
package document

import (
	"errors"
	"strings"
)

// ErrDocumentUnreadable means the document could not be decrypted or have its
// contents extracted. Fatal, aborts the import.
var ErrDocumentUnreadable = errors.New("document unreadable")

// Kind declares how the raw bytes should be read.
type Kind string

const (
	// KindPageDocument is a page-oriented document (PDF statement).
	KindPageDocument Kind = "page-document"
	// KindSpreadsheet is a spreadsheet export (XLSX or CSV).
	KindSpreadsheet Kind = "spreadsheet"
)

// Table is an ordered grid of raw cell strings.
type Table [][]string

// Page holds one page's extracted text lines and table grids.
type Page struct {
	Lines  []string
	Tables []Table
}

// Document is the loaded, decrypted content of one statement file.
type Document struct {
	Kind  Kind
	Pages []Page
}

// Text returns all page text concatenated in page and line order.
func (d *Document) Text() string {
	var b strings.Builder
	for _, p := range d.Pages {
		for _, line := range p.Lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Tables returns every table grid across all pages, in page order.
func (d *Document) Tables() []Table {
	var out []Table
	for _, p := range d.Pages {
		out = append(out, p.Tables...)
	}
	return out
}

// Grid returns the single raw cell grid of a spreadsheet document. For
// page documents it returns the first table, or nil when there is none.
func (d *Document) Grid() Table {
	for _, p := range d.Pages {
		if len(p.Tables) > 0 {
			return p.Tables[0]
		}
	}
	return nil
}
