// Package pdfdoc is a small builder over fpdf for A4 business documents:
// headings, key/value lines and tables whose header repeats on every page.
package pdfdoc

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Column alignment
const (
	AlignLeft   = "L"
	AlignCenter = "C"
	AlignRight  = "R"
)

const (
	margin     = 15.0
	lineHeight = 7.0
	fontFamily = "Helvetica"
)

// Column describes one table column. A zero width shares the remaining page width.
type Column struct {
	Header string
	Width  float64
	Align  string
}

// Document builds a PDF page by page.
type Document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// NewDocument creates an A4 portrait document with the given title metadata
func NewDocument(title string) *Document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("restaurant-billing", true)
	pdf.AddPage()
	pdf.SetFont(fontFamily, "", 11)

	return &Document{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// Heading writes a centered bold line
func (d *Document) Heading(text string, size float64) *Document {
	d.ensureSpace(size / 2)
	d.pdf.SetFont(fontFamily, "B", size)
	d.pdf.CellFormat(0, size/2, d.tr(text), "", 1, AlignCenter, false, 0, "")
	d.pdf.SetFont(fontFamily, "", 11)
	return d
}

// Text writes a left-aligned line
func (d *Document) Text(text string) *Document {
	d.ensureSpace(lineHeight)
	d.pdf.CellFormat(0, lineHeight, d.tr(text), "", 1, AlignLeft, false, 0, "")
	return d
}

// TextF writes a formatted left-aligned line
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// CenteredText writes a centered line
func (d *Document) CenteredText(text string) *Document {
	d.ensureSpace(lineHeight)
	d.pdf.CellFormat(0, lineHeight, d.tr(text), "", 1, AlignCenter, false, 0, "")
	return d
}

// KeyValue writes a key on the left and its value right-aligned
func (d *Document) KeyValue(key, value string) *Document {
	d.ensureSpace(lineHeight)
	half := d.contentWidth() / 2
	d.pdf.CellFormat(half, lineHeight, d.tr(key), "", 0, AlignLeft, false, 0, "")
	d.pdf.CellFormat(half, lineHeight, d.tr(value), "", 1, AlignRight, false, 0, "")
	return d
}

// SetBold toggles bold text for subsequent lines
func (d *Document) SetBold(on bool) *Document {
	style := ""
	if on {
		style = "B"
	}
	d.pdf.SetFont(fontFamily, style, 11)
	return d
}

// Separator draws a horizontal rule across the content width
func (d *Document) Separator() *Document {
	d.ensureSpace(lineHeight / 2)
	y := d.pdf.GetY() + lineHeight/4
	pageW, _ := d.pdf.GetPageSize()
	d.pdf.Line(margin, y, pageW-margin, y)
	d.pdf.Ln(lineHeight / 2)
	return d
}

// Space adds vertical whitespace
func (d *Document) Space(h float64) *Document {
	d.pdf.Ln(h)
	return d
}

// Table writes a bordered table, starting a new page and repeating the header
// whenever the next row would cross the bottom margin
func (d *Document) Table(columns []Column, rows [][]string) *Document {
	widths := d.columnWidths(columns)

	d.ensureSpace(lineHeight * 2)
	d.tableHeader(columns, widths)

	for _, row := range rows {
		if d.remaining() < lineHeight {
			d.pdf.AddPage()
			d.tableHeader(columns, widths)
		}
		for i, col := range columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			d.pdf.CellFormat(widths[i], lineHeight, d.tr(cell), "1", 0, alignOf(col), false, 0, "")
		}
		d.pdf.Ln(-1)
	}
	return d
}

// PageCount returns the number of pages written so far
func (d *Document) PageCount() int {
	return d.pdf.PageNo()
}

// Bytes renders the document
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdfdoc: failed to render: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Document) tableHeader(columns []Column, widths []float64) {
	d.pdf.SetFont(fontFamily, "B", 11)
	d.pdf.SetFillColor(230, 230, 230)
	for i, col := range columns {
		d.pdf.CellFormat(widths[i], lineHeight, d.tr(col.Header), "1", 0, alignOf(col), true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetFont(fontFamily, "", 11)
}

func (d *Document) columnWidths(columns []Column) []float64 {
	widths := make([]float64, len(columns))
	fixed, shared := 0.0, 0
	for i, col := range columns {
		widths[i] = col.Width
		if col.Width > 0 {
			fixed += col.Width
		} else {
			shared++
		}
	}
	if shared > 0 {
		each := (d.contentWidth() - fixed) / float64(shared)
		for i := range widths {
			if widths[i] <= 0 {
				widths[i] = each
			}
		}
	}
	return widths
}

func (d *Document) ensureSpace(h float64) {
	if d.remaining() < h {
		d.pdf.AddPage()
	}
}

func (d *Document) remaining() float64 {
	_, pageH := d.pdf.GetPageSize()
	return pageH - margin - d.pdf.GetY()
}

func (d *Document) contentWidth() float64 {
	pageW, _ := d.pdf.GetPageSize()
	return pageW - 2*margin
}

func alignOf(col Column) string {
	if col.Align == "" {
		return AlignLeft
	}
	return col.Align
}
