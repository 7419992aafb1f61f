package chart

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// RGB is a color with components in [0, 1]
type RGB [3]float64

var (
	colorText      = RGB{0.92, 0.92, 0.95}
	colorMuted     = RGB{0.6, 0.6, 0.68}
	colorProfit    = RGB{0.4, 1.0, 0.4}
	colorLoss      = RGB{1.0, 0.4, 0.4}
	colorBreakEven = RGB{0.8, 0.8, 0.8}
)

// palette colors series in order
var palette = []RGB{
	{0.35, 0.65, 1.0},
	{1.0, 0.6, 0.25},
	{0.45, 0.9, 0.5},
	{0.95, 0.4, 0.6},
	{0.75, 0.55, 1.0},
	{0.95, 0.85, 0.35},
	{0.4, 0.9, 0.9},
}

// SeriesColor returns the palette color for the i-th series
func SeriesColor(i int) RGB {
	return palette[i%len(palette)]
}

func setColor(dc *gg.Context, c RGB) {
	dc.SetRGB(c[0], c[1], c[2])
}

// drawBackground paints the vertical gradient used by every image
func drawBackground(dc *gg.Context, width, height int) {
	for i := 0; i < height; i++ {
		t := float64(i) / float64(height)
		dc.SetRGB(0.02+t*0.03, 0.02+t*0.05, 0.05+t*0.1)
		dc.DrawLine(0, float64(i), float64(width), float64(i))
		dc.Stroke()
	}
}

// drawSharpText draws text over a faint offset shadow
func drawSharpText(dc *gg.Context, text string, x, y float64) {
	dc.Push()
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawString(text, x+0.5, y+0.5)
	dc.Pop()

	dc.DrawString(text, x, y)
}

// loadFont loads a font from byte data
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:       size,
		DPI:        72,
		Hinting:    font.HintingFull,
		SubPixelsX: 4,
		SubPixelsY: 4,
	})
	return face, nil
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// truncate shortens s to max runes with an ellipsis
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
