// Package export turns a translation pair into downloadable documents.
// Writers are pure: bytes in, bytes out, no session state.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/fumiama/go-docx"
	"github.com/xuri/excelize/v2"
)

// Format names a supported download format.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatCSV  Format = "csv"
	FormatDOCX Format = "docx"
	FormatXLSX Format = "xlsx"
)

// utf8BOM lets spreadsheet applications detect the CSV encoding.
const utf8BOM = "\xEF\xBB\xBF"

// Pair is the exportable payload: the recognized source text and its
// translation, as currently held by the session context.
type Pair struct {
	Original   string
	Translated string
}

// MIMEType returns the Content-Type to serve the format under.
func (f Format) MIMEType() string {
	switch f {
	case FormatTXT:
		return "text/plain; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// ParseFormat maps a query-string value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatTXT:
		return FormatTXT, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatDOCX:
		return FormatDOCX, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Write renders the pair in the requested format.
func Write(f Format, p Pair) ([]byte, error) {
	switch f {
	case FormatTXT:
		return WriteTXT(p), nil
	case FormatCSV:
		return WriteCSV(p)
	case FormatDOCX:
		return WriteDOCX(p, time.Now())
	case FormatXLSX:
		return WriteXLSX(p)
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}

// WriteTXT joins the pair with a horizontal-rule separator.
func WriteTXT(p Pair) []byte {
	return []byte(p.Original + "\n\n---\n\n" + p.Translated)
}

// WriteCSV emits a single-row CSV with a UTF-8 BOM so Excel opens Korean
// text correctly.
func WriteCSV(p Pair) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"original", "translation"}); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}
	if err := w.Write([]string{p.Original, p.Translated}); err != nil {
		return nil, fmt.Errorf("csv write: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDOCX builds a small document: title, date line, then the original
// and translated sections as headed paragraphs.
func WriteDOCX(p Pair, now time.Time) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText("Translation Result").Size("36").Bold()
	doc.AddParagraph().AddText(now.Format("2006-01-02 15:04")).Size("18")
	doc.AddParagraph()

	doc.AddParagraph().AddText("Original (Korean)").Size("28").Bold()
	for _, line := range strings.Split(p.Original, "\n") {
		doc.AddParagraph().AddText(line)
	}
	doc.AddParagraph()

	doc.AddParagraph().AddText("Translation").Size("28").Bold()
	for _, line := range strings.Split(p.Translated, "\n") {
		doc.AddParagraph().AddText(line)
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("docx write: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteXLSX emits a one-sheet workbook mirroring the CSV layout.
func WriteXLSX(p Pair) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Translation"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	cells := map[string]string{
		"A1": "original",
		"B1": "translation",
		"A2": p.Original,
		"B2": p.Translated,
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return nil, fmt.Errorf("xlsx cell %s: %w", cell, err)
		}
	}
	_ = f.SetColWidth(sheet, "A", "B", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename derives a download filename carrying the language code, matching
// the `translation_{lang}.{ext}` convention of the downloads this replaces.
func Filename(f Format, langCode string) string {
	if langCode == "" {
		langCode = "unknown"
	}
	return fmt.Sprintf("translation_%s.%s", langCode, f)
}
