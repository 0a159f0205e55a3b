package render

import (
	"image"
	"image/color"
)

type textBlock struct {
	bold  bool
	size  float64
	wrap  int
	x, y  int
	step  int
	color color.Color
}

var (
	coverTitle    = textBlock{bold: true, size: 80, wrap: 20, x: 100, y: 300, step: 90, color: colorWhite}
	coverSubtitle = textBlock{size: 46, x: 100, y: 550, step: 40, color: colorLightGray}

	slideNumber = textBlock{bold: true, size: 130, x: 80, y: 60, color: colorGray}
	slideTitle  = textBlock{bold: true, size: 72, wrap: 26, x: 100, y: 300, step: 75, color: colorWhite}
	slideBody   = textBlock{size: 42, wrap: 48, x: 100, y: 440, step: 55, color: colorLightGray}

	ctaText   = textBlock{bold: true, size: 72, wrap: 30, x: 120, y: 420, step: 70, color: colorWhite}
	ctaFooter = textBlock{size: 44, x: 120, y: 650, color: colorLightGray}

	listNumber = textBlock{bold: true, size: 110, x: 80, y: 60, color: colorGray}
	listTitle  = textBlock{bold: true, size: 64, wrap: 24, x: 100, y: 360, step: 80, color: colorWhite}
	listBody   = textBlock{size: 40, wrap: 45, x: 100, step: 55, color: colorLightGray}
)

const (
	listBodyGap = 40

	swipeIconSize = 80
	aiIconSize    = 70
)

var (
	swipeIconAt = image.Pt(500, 950)
	aiIconAt    = image.Pt(970, 40)
)
