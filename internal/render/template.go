package render

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"

	"carousel/internal/carousel"
)

// TemplateSource supplies the background image for list slides.
type TemplateSource interface {
	Template(ctx context.Context) (image.Image, error)
}

type FileTemplate struct {
	Fs   afero.Fs
	Path string
}

func (t FileTemplate) Template(_ context.Context) (image.Image, error) {
	f, err := t.Fs.Open(t.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: template %s: %v", carousel.ErrAssetMissing, t.Path, err)
	}
	defer func() { _ = f.Close() }()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: template %s: %v", carousel.ErrAssetMissing, t.Path, err)
	}
	return img, nil
}

// fitTemplate returns a fresh slide-sized copy of the template so drawing
// never touches the shared source.
func fitTemplate(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() != carousel.SlideWidth || b.Dy() != carousel.SlideHeight {
		return imaging.Resize(img, carousel.SlideWidth, carousel.SlideHeight, imaging.Lanczos)
	}
	return imaging.Clone(img)
}
