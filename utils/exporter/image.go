package exporter

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
)

// ExportImage writes img under outputDir as <baseName>.png, or
// <baseName>.webp when asWebp is set, and returns the written path.
func ExportImage(img image.Image, outputDir string, baseName string, asWebp bool) (string, error) {
	ext := ".png"
	if asWebp {
		ext = ".webp"
	}
	imageFile := filepath.Join(outputDir, baseName+ext)

	file, err := os.Create(imageFile)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	if asWebp {
		err = nativewebp.Encode(file, img, nil)
	} else {
		err = png.Encode(file, img)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return imageFile, nil
}
