package render

import (
	"fmt"

	"github.com/spf13/afero"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"carousel/internal/carousel"
)

type fontSet struct {
	bold    *opentype.Font
	regular *opentype.Font
	faces   map[faceKey]font.Face
}

type faceKey struct {
	bold bool
	size float64
}

func loadFonts(fs afero.Fs, boldPath, regularPath string) (*fontSet, error) {
	bold, err := loadFont(fs, boldPath)
	if err != nil {
		return nil, err
	}
	regular, err := loadFont(fs, regularPath)
	if err != nil {
		return nil, err
	}
	return &fontSet{
		bold:    bold,
		regular: regular,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

func loadFont(fs afero.Fs, path string) (*opentype.Font, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: font %s: %v", carousel.ErrAssetMissing, path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: font %s: %v", carousel.ErrAssetMissing, path, err)
	}
	return f, nil
}

// face returns a cached face; pixel size equals point size at 72 DPI.
func (s *fontSet) face(bold bool, size float64) (font.Face, error) {
	key := faceKey{bold: bold, size: size}
	if f, ok := s.faces[key]; ok {
		return f, nil
	}

	src := s.regular
	if bold {
		src = s.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	s.faces[key] = f
	return f, nil
}

func (s *fontSet) Close() {
	for _, f := range s.faces {
		_ = f.Close()
	}
	clear(s.faces)
}
