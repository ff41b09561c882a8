package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/carbocation/mediancut/quantize"
)

// Entry is one palette color as written by WriteJSON
type Entry struct {
	Hex        string `json:"hex"`
	R          uint8  `json:"r"`
	G          uint8  `json:"g"`
	B          uint8  `json:"b"`
	Population int    `json:"population,omitempty"`
}

// Hex formats c as #rrggbb
func Hex(c quantize.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

// Entries pairs every palette color with its population. populations may be
// nil or shorter than palette.
func Entries(palette []quantize.Color, populations []int) []Entry {
	entries := make([]Entry, len(palette))
	for i, c := range palette {
		entries[i] = Entry{Hex: Hex(c), R: c.R, G: c.G, B: c.B}
		if i < len(populations) {
			entries[i].Population = populations[i]
		}
	}
	return entries
}

// WriteText writes one line per palette color
func WriteText(w io.Writer, palette []quantize.Color, populations []int) error {
	for _, e := range Entries(palette, populations) {
		var err error
		if e.Population > 0 {
			_, err = fmt.Fprintf(w, "%s %3d %3d %3d %d\n", e.Hex, e.R, e.G, e.B, e.Population)
		} else {
			_, err = fmt.Fprintf(w, "%s %3d %3d %3d\n", e.Hex, e.R, e.G, e.B)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the palette as an indented JSON array
func WriteJSON(w io.Writer, palette []quantize.Color, populations []int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Entries(palette, populations))
}
