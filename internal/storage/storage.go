package storage

import (
	"context"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// DeckMirror copies a finished session's files to remote storage.
type DeckMirror interface {
	UploadDeck(ctx context.Context, sessionID string, paths []string) ([]string, error)
}

var imageExts = []string{".png", ".jpg", ".jpeg"}

func isImage(name string) bool {
	return slices.Contains(imageExts, strings.ToLower(filepath.Ext(name)))
}

// pickTemplate returns the lexically first image name so every request uses
// the same template.
func pickTemplate(names []string) (string, bool) {
	var images []string
	for _, n := range names {
		if isImage(n) {
			images = append(images, n)
		}
	}
	if len(images) == 0 {
		return "", false
	}
	slices.Sort(images)
	return images[0], true
}

func deckObjectName(prefix, sessionID, localPath string) string {
	return path.Join(prefix, sessionID, filepath.Base(localPath))
}
