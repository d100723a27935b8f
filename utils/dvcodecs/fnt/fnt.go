// Package fnt decodes the game's bitmap font: a flat run of 16x16
// one-bit glyph cells, 32 bytes each, two bytes per row with the most
// significant bit leftmost.
package fnt

import (
	"fmt"
	"image"
	"image/color"
)

const (
	GlyphWidth  = 16
	GlyphHeight = 16
	glyphBytes  = GlyphHeight * 2
)

// Font is a parsed font file.
type Font struct {
	data []byte
}

func Parse(data []byte) (*Font, error) {
	if len(data) == 0 || len(data)%glyphBytes != 0 {
		return nil, fmt.Errorf("fnt: size %d is not a whole number of %d-byte glyphs", len(data), glyphBytes)
	}
	return &Font{data: data}, nil
}

// GlyphCount returns the number of glyph cells in the file.
func (f *Font) GlyphCount() int {
	return len(f.data) / glyphBytes
}

// Glyph renders cell i as an alpha mask. i outside [0, GlyphCount)
// panics.
func (f *Font) Glyph(i int) *image.Alpha {
	if i < 0 || i >= f.GlyphCount() {
		panic(fmt.Sprintf("fnt: glyph %d out of range [0, %d)", i, f.GlyphCount()))
	}

	img := image.NewAlpha(image.Rect(0, 0, GlyphWidth, GlyphHeight))
	cell := f.data[i*glyphBytes : (i+1)*glyphBytes]
	for y := 0; y < GlyphHeight; y++ {
		row := uint16(cell[y*2])<<8 | uint16(cell[y*2+1])
		for x := 0; x < GlyphWidth; x++ {
			if row&(0x8000>>x) != 0 {
				img.SetAlpha(x, y, color.Alpha{A: 0xFF})
			}
		}
	}
	return img
}

// Sheet composes all glyphs into a contact sheet with cols glyphs per
// row, white on transparent, for export or inspection.
func (f *Font) Sheet(cols int) image.Image {
	if cols <= 0 {
		cols = 16
	}
	count := f.GlyphCount()
	rows := (count + cols - 1) / cols

	sheet := image.NewNRGBA(image.Rect(0, 0, cols*GlyphWidth, rows*GlyphHeight))
	for i := 0; i < count; i++ {
		glyph := f.Glyph(i)
		ox := (i % cols) * GlyphWidth
		oy := (i / cols) * GlyphHeight
		for y := 0; y < GlyphHeight; y++ {
			for x := 0; x < GlyphWidth; x++ {
				if glyph.AlphaAt(x, y).A != 0 {
					sheet.SetNRGBA(ox+x, oy+y, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
				}
			}
		}
	}
	return sheet
}
