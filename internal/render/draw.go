package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var (
	colorWhite     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	colorLightGray = color.RGBA{R: 211, G: 211, B: 211, A: 255}
	colorGray      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	colorBase      = color.RGBA{R: 0x14, G: 0x14, B: 0x14, A: 255}
)

// gradient fills a base #141414 canvas, then shades each row from 20 to 100.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBase), image.Point{}, draw.Src)

	for y := range h {
		v := uint8(20 + (y*80)/h)
		row := image.Rect(0, y, w, y+1)
		draw.Draw(img, row, image.NewUniform(color.RGBA{R: v, G: v, B: v, A: 255}), image.Point{}, draw.Src)
	}
	return img
}

// drawText places s with its top-left corner at (x, y). Text running past the
// canvas is clipped.
func drawText(dst draw.Image, face font.Face, x, y int, s string, c color.Color) {
	if s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// drawLines draws each line step pixels below the previous one.
func drawLines(dst draw.Image, face font.Face, x, y, step int, lines []string, c color.Color) {
	for i, line := range lines {
		drawText(dst, face, x, y+i*step, line, c)
	}
}
