// Package display turns controller views into draw commands.
package display

// Surface geometry of the 128x64 panel and its 6x8 glyph cells.
const (
	Width       = 128
	Height      = 64
	GlyphWidth  = 6
	GlyphHeight = 8
)

// Display accepts draw commands for one frame at a time.
type Display interface {
	Clear()
	SetCursor(x, y int)
	SetTextScale(scale int)
	Print(text string)
	Flush() error
}

// CenterX returns the x that horizontally centres n glyphs at scale.
func CenterX(scale, n int) int {
	x := (Width - scale*(GlyphWidth*n-1)) / 2
	if x < 0 {
		return 0
	}
	return x
}

// LineY returns the y of a line at fraction f of the height.
func LineY(scale int, f float64) int {
	y := int(f*Height) - scale*GlyphHeight/2
	if y < 0 {
		return 0
	}
	return y
}
