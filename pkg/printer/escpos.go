package printer

import (
	"bytes"
	"fmt"
	"strings"
)

// ESC/POS control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Alignment values for ESC a
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Character sizes for GS !
const (
	FontNormal = 0x00
	FontDouble = 0x11
	FontWide   = 0x10
	FontTall   = 0x01
)

// Paper widths in characters at the default font
const (
	Width58mm = 32
	Width80mm = 48
)

// Document accumulates an ESC/POS job. Text is laid out for a fixed
// character width; longer values are truncated or wrapped.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument creates a job for a printer with the given character width
func NewDocument(width int) *Document {
	if width <= 0 {
		width = Width58mm
	}
	d := &Document{width: width}
	d.Init()
	return d
}

// Width returns the character width of the document
func (d *Document) Width() int {
	return d.width
}

// Init resets printer state (ESC @)
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// LineFeed ends the current line
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

// FeedLines advances the paper n lines
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) SetAlign(align int) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

func (d *Document) SetBold(on bool) *Document {
	var b byte
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes s and a line feed
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

// TextF writes a formatted line
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Wrapped writes s broken on spaces so no line exceeds the document width
func (d *Document) Wrapped(s string) *Document {
	for _, line := range wrap(s, d.width) {
		d.Text(line)
	}
	return d
}

// Separator fills a line with char
func (d *Document) Separator(char byte) *Document {
	return d.Text(strings.Repeat(string(char), d.width))
}

// KeyValue writes key left and value right on one line
func (d *Document) KeyValue(key, value string) *Document {
	return d.Text(justify(key, value, d.width))
}

// ItemLine writes "<qty>x <name>" with the amount right-aligned.
// Names too long for the line are truncated.
func (d *Document) ItemLine(qty int, name, amount string) *Document {
	prefix := fmt.Sprintf("%dx ", qty)
	room := d.width - len(prefix) - len(amount) - 1
	if room < 1 {
		room = 1
	}
	return d.Text(justify(prefix+truncate(name, room), amount, d.width))
}

// Cut performs a full paper cut
func (d *Document) Cut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x00})
	return d
}

// PartialCut leaves a small hinge uncut
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the job
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func justify(left, right string, width int) string {
	spaces := width - len(left) - len(right)
	if spaces < 1 {
		spaces = 1
	}
	return left + strings.Repeat(" ", spaces) + right
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "~"
}

func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, w := range words {
		for len(w) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			lines = append(lines, w[:width])
			w = w[width:]
		}
		switch {
		case current == "":
			current = w
		case len(current)+1+len(w) <= width:
			current += " " + w
		default:
			lines = append(lines, current)
			current = w
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
