// Package document combines rendered slides into a single PDF.
package document

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"

	"carousel/internal/carousel"
)

const defaultJPEGQuality = 95

var ErrNoSlides = errors.New("no slides to assemble")

type Assembler struct {
	quality int
	creator string
}

func NewAssembler(jpegQuality int, creator string) *Assembler {
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = defaultJPEGQuality
	}
	return &Assembler{quality: jpegQuality, creator: creator}
}

// Assemble writes one full-bleed page per slide, in order. Page size equals
// slide size with one point per pixel.
func (a *Assembler) Assemble(title string, slides []carousel.RenderedSlide) (*carousel.Document, error) {
	if len(slides) == 0 {
		return nil, ErrNoSlides
	}

	b := slides[0].Image.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if title != "" {
		pdf.SetTitle(title, true)
	}
	if a.creator != "" {
		pdf.SetCreator(a.creator, true)
	}

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	for _, s := range slides {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, s.Image, imaging.JPEG, imaging.JPEGQuality(a.quality)); err != nil {
			return nil, fmt.Errorf("encode %s: %w", s.Name(), err)
		}

		pdf.RegisterImageOptionsReader(s.Name(), opts, &buf)
		pdf.AddPage()
		pdf.ImageOptions(s.Name(), 0, 0, w, h, false, opts, 0, "")

		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("add page %s: %w", s.Name(), err)
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	return &carousel.Document{
		Data:   out.Bytes(),
		Pages:  pdf.PageCount(),
		Width:  w,
		Height: h,
	}, nil
}
