package render

import (
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
)

// overlayIcon composites the icon at path, resized to size×size, onto dst
// at pt. Any failure leaves dst untouched; decoration is optional.
func overlayIcon(fs afero.Fs, dst image.Image, path string, size int, pt image.Point) image.Image {
	if path == "" {
		return dst
	}

	f, err := fs.Open(path)
	if err != nil {
		slog.Debug("Skipping icon", "path", path, "error", err)
		return dst
	}
	defer func() { _ = f.Close() }()

	icon, err := imaging.Decode(f)
	if err != nil {
		slog.Debug("Skipping icon", "path", path, "error", err)
		return dst
	}

	icon = imaging.Resize(icon, size, size, imaging.Lanczos)
	return imaging.Overlay(dst, icon, pt, 1.0)
}
