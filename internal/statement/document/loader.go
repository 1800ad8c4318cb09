package document

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// cellGap is the horizontal gap, in text-space units, that separates two
// words into different table cells when rebuilding grids from PDF rows.
const cellGap = 12.0

// Loader turns raw statement bytes into a Document.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load decrypts (when needed) and extracts the document contents. The
// password is only consulted for encrypted page documents; a missing or blank
// password on an encrypted document fails with ErrDocumentUnreadable.
func (l *Loader) Load(data []byte, kind Kind, password string) (*Document, error) {
	switch kind {
	case KindPageDocument:
		return l.loadPDF(data, password)
	case KindSpreadsheet:
		return l.loadSpreadsheet(data)
	default:
		return nil, fmt.Errorf("%w: unknown document kind %q", ErrDocumentUnreadable, kind)
	}
}

// loadPDF extracts per-page text rows and rebuilds table grids from word
// positions. The pdf library panics on some malformed files, so extraction
// runs behind a recover.
func (l *Loader) loadPDF(data []byte, password string) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pdf extraction panic: %v", ErrDocumentUnreadable, r)
		}
	}()

	// One attempt with the supplied secret.
	trimmed := strings.TrimSpace(password)
	attempts := []string{trimmed}
	reader, err := pdf.NewReaderEncrypted(bytes.NewReader(data), int64(len(data)), func() string {
		if len(attempts) == 0 {
			return ""
		}
		pw := attempts[0]
		attempts = attempts[1:]
		return pw
	})
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, fmt.Errorf("%w: document is password protected and the supplied password did not open it", ErrDocumentUnreadable)
		}
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}
	if passwordRequired(reader.Trailer(), trimmed) {
		return nil, fmt.Errorf("%w: document is password protected and no password was supplied", ErrDocumentUnreadable)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrDocumentUnreadable)
	}

	d := &Document{Kind: KindPageDocument}
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, rowErr := page.GetTextByRow()
		if rowErr != nil {
			l.logger.Warn("page text extraction failed", "page", i, "error", rowErr)
			continue
		}
		d.Pages = append(d.Pages, buildPage(rows))
	}

	if len(d.Pages) == 0 {
		return nil, fmt.Errorf("%w: no text could be extracted", ErrDocumentUnreadable)
	}
	return d, nil
}

// passwordRequired reports whether the document carries an encryption
// dictionary while the caller supplied no password. Files encrypted with a
// blank owner password open on the reader's implicit empty-string attempt, so
// a successful open alone does not prove the file was unprotected.
func passwordRequired(trailer pdf.Value, password string) bool {
	return password == "" && !trailer.Key("Encrypt").IsNull()
}

// buildPage joins each row's words into a text line and, in parallel, groups
// the words into cells on wide horizontal gaps. Rows with at least two cells
// form the page's table grid.
func buildPage(rows pdf.Rows) Page {
	var p Page
	var grid Table

	for _, row := range rows {
		var words []string
		var cells []string
		var cell strings.Builder
		prevEnd := 0.0

		for _, word := range row.Content {
			s := strings.TrimSpace(word.S)
			if s == "" {
				continue
			}
			words = append(words, s)

			if cell.Len() > 0 && word.X-prevEnd > cellGap {
				cells = append(cells, cell.String())
				cell.Reset()
			}
			if cell.Len() > 0 {
				cell.WriteByte(' ')
			}
			cell.WriteString(s)
			prevEnd = word.X + word.W
		}
		if cell.Len() > 0 {
			cells = append(cells, cell.String())
		}

		if line := strings.TrimSpace(strings.Join(words, " ")); line != "" {
			p.Lines = append(p.Lines, line)
		}
		if len(cells) >= 2 {
			grid = append(grid, cells)
		}
	}

	if len(grid) >= 2 {
		p.Tables = []Table{grid}
	}
	return p
}

// loadSpreadsheet reads an XLSX workbook (first sheet) or CSV bytes into a
// single raw cell grid. No decryption step applies.
func (l *Loader) loadSpreadsheet(data []byte) (*Document, error) {
	var grid Table
	var err error
	if isZip(data) {
		grid, err = readWorkbookGrid(data)
	} else {
		grid, err = readCSVGrid(data)
	}
	if err != nil {
		return nil, err
	}

	return &Document{
		Kind:  KindSpreadsheet,
		Pages: []Page{{Tables: []Table{grid}}},
	}, nil
}

func readWorkbookGrid(data []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrDocumentUnreadable)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}

	grid := make(Table, 0, len(rows))
	for _, row := range rows {
		grid = append(grid, row)
	}
	return grid, nil
}

func readCSVGrid(data []byte) (Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var grid Table
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
		}
		grid = append(grid, record)
	}
	return grid, nil
}

func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

func isZip(data []byte) bool {
	return len(data) >= 4 && data[0] == 'P' && data[1] == 'K'
}
