package display

import (
	"fmt"
	"io"
	"strings"

	"go.bug.st/serial"
)

// TextDisplay rasterises draw commands onto a character grid and writes
// each flushed frame to an io.Writer, such as a serial terminal.
type TextDisplay struct {
	w     io.Writer
	grid  [Height / GlyphHeight][Width / GlyphWidth]byte
	x, y  int
	scale int
	last  string
}

// NewTextDisplay creates a TextDisplay writing frames to w.
func NewTextDisplay(w io.Writer) *TextDisplay {
	d := &TextDisplay{w: w}
	d.Clear()
	return d
}

// OpenSerial opens a serial terminal and returns a TextDisplay on it.
// The returned closer releases the port.
func OpenSerial(port string, baudRate int) (*TextDisplay, io.Closer, error) {
	conn, err := serial.Open(port, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, nil, fmt.Errorf("open display port %s: %w", port, err)
	}
	return NewTextDisplay(conn), conn, nil
}

// Clear blanks the grid and homes the cursor.
func (d *TextDisplay) Clear() {
	for r := range d.grid {
		for c := range d.grid[r] {
			d.grid[r][c] = ' '
		}
	}
	d.x, d.y, d.scale = 0, 0, 1
}

// SetCursor moves the cursor to pixel coordinates.
func (d *TextDisplay) SetCursor(x, y int) {
	d.x, d.y = x, y
}

// SetTextScale sets the glyph magnification.
func (d *TextDisplay) SetTextScale(scale int) {
	if scale < 1 {
		scale = 1
	}
	d.scale = scale
}

// Print draws text at the cursor. A scaled glyph occupies one cell and
// advances the cursor by its scaled width.
func (d *TextDisplay) Print(text string) {
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch == '\n' {
			d.x = 0
			d.y += GlyphHeight * d.scale
			continue
		}
		row, col := d.y/GlyphHeight, d.x/GlyphWidth
		if row >= 0 && row < len(d.grid) && col >= 0 && col < len(d.grid[row]) {
			d.grid[row][col] = ch
		}
		d.x += GlyphWidth * d.scale
	}
}

// Flush writes the frame if it differs from the previous one.
func (d *TextDisplay) Flush() error {
	frame := d.String()
	if frame == d.last {
		return nil
	}
	if _, err := io.WriteString(d.w, frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	d.last = frame
	return nil
}

// String returns the grid framed by a border.
func (d *TextDisplay) String() string {
	border := "+" + strings.Repeat("-", len(d.grid[0])) + "+\n"
	var b strings.Builder
	b.WriteString(border)
	for _, row := range d.grid {
		b.WriteByte('|')
		b.Write(row[:])
		b.WriteString("|\n")
	}
	b.WriteString(border)
	return b.String()
}

// Row returns row r of the grid without trailing spaces.
func (d *TextDisplay) Row(r int) string {
	if r < 0 || r >= len(d.grid) {
		return ""
	}
	return strings.TrimRight(string(d.grid[r][:]), " ")
}
