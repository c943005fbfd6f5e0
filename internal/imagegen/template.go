// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imagegen

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	templateSize = 1080
	// cardBackground matches the original template's muted rose tone.
	cardBackground = 0xC97B84
)

// templateCard draws the fallback cover locally: flat background, the
// lowercase word centered, the subtitle beneath it. Always succeeds as long
// as the output directory is writable.
func (g *Generator) templateCard(outDir, word, subtitle string) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, templateSize, templateSize))
	bg := color.RGBA{
		R: cardBackground >> 16 & 0xff,
		G: cardBackground >> 8 & 0xff,
		B: cardBackground & 0xff,
		A: 0xff,
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	display := strings.ToLower(strings.TrimSpace(word))
	if display == "" {
		display = "word"
	}

	drawCentered(img, display, templateSize/2)
	if subtitle != "" {
		drawCentered(img, subtitle, templateSize/2+40)
	}

	path := filepath.Join(outDir, safeWord(word)+"_template.png")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating template image: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encoding template image: %w", err)
	}
	return path, nil
}

// drawCentered renders one line of text horizontally centered at baseline y.
func drawCentered(img *image.RGBA, text string, y int) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	width := d.MeasureString(text)
	d.Dot = fixed.Point26_6{
		X: fixed.I(templateSize/2) - width/2,
		Y: fixed.I(y),
	}
	d.DrawString(text)
}
