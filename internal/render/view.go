package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/carbocation/mediancut/quantize"
)

// Draw paints the palette as equal-width columns below a title line, with
// the hex value of each color on the bottom row
func Draw(screen tcell.Screen, palette []quantize.Color, title string) {
	screen.Clear()
	w, h := screen.Size()
	plain := tcell.StyleDefault

	putString(screen, 0, 0, w, title, plain)
	n := len(palette)
	if n == 0 || h < 3 {
		screen.Show()
		return
	}

	for i, c := range palette {
		x0, x1 := i*w/n, (i+1)*w/n
		fill := plain.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
		for y := 1; y < h-1; y++ {
			for x := x0; x < x1; x++ {
				screen.SetContent(x, y, ' ', nil, fill)
			}
		}
		putString(screen, x0, h-1, x1-x0, Hex(c), plain)
	}
	screen.Show()
}

// View draws the palette and waits for a key press. Resizes redraw.
func View(screen tcell.Screen, palette []quantize.Color, title string) {
	Draw(screen, palette, title)
	for {
		switch screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
			Draw(screen, palette, title)
		case *tcell.EventKey:
			return
		case nil:
			return // Screen finalized
		}
	}
}

// putString writes s at x, y clipped to width cells
func putString(screen tcell.Screen, x, y, width int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		if i >= width {
			return
		}
		screen.SetContent(x+i, y, r, nil, style)
	}
}
