// Package pal decodes 256-entry RGB palettes (768 bytes, 8 bits per
// component) into color.Palette values.
package pal

import (
	"fmt"
	"image"
	"image/color"
)

const (
	Entries = 256
	Size    = Entries * 3
)

// Parse decodes one palette.
func Parse(data []byte) (color.Palette, error) {
	if len(data) != Size {
		return nil, fmt.Errorf("pal: size %d, want %d", len(data), Size)
	}

	palette := make(color.Palette, Entries)
	for i := 0; i < Entries; i++ {
		palette[i] = color.NRGBA{
			R: data[i*3],
			G: data[i*3+1],
			B: data[i*3+2],
			A: 0xFF,
		}
	}
	return palette, nil
}

// Swatch renders the palette as a 16x16 grid of cell-pixel squares
// for inspection exports.
func Swatch(palette color.Palette, cell int) image.Image {
	if cell <= 0 {
		cell = 8
	}
	img := image.NewNRGBA(image.Rect(0, 0, 16*cell, 16*cell))
	for i, c := range palette {
		ox := (i % 16) * cell
		oy := (i / 16) * cell
		for y := 0; y < cell; y++ {
			for x := 0; x < cell; x++ {
				img.Set(ox+x, oy+y, c)
			}
		}
	}
	return img
}
