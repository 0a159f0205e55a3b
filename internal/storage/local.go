package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"

	"carousel/internal/carousel"
)

type LocalStorage struct {
	fs        afero.Fs
	outputDir string
	quality   int
}

func NewLocalStorage(fs afero.Fs, outputDir string, jpegQuality int) *LocalStorage {
	return &LocalStorage{
		fs:        fs,
		outputDir: outputDir,
		quality:   jpegQuality,
	}
}

func (s *LocalStorage) OutputDir() string {
	return s.outputDir
}

// NewSession creates <output>/<id> and returns its path.
func (s *LocalStorage) NewSession(id string) (string, error) {
	dir := filepath.Join(s.outputDir, id)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}
	return dir, nil
}

func (s *LocalStorage) RemoveSession(dir string) error {
	if err := s.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove session directory: %w", err)
	}
	return nil
}

// SaveSlide writes the slide as <dir>/<name>.jpg.
func (s *LocalStorage) SaveSlide(dir string, slide carousel.RenderedSlide) (string, error) {
	path := filepath.Join(dir, slide.Name()+".jpg")

	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create slide file: %w", err)
	}

	if err := imaging.Encode(f, slide.Image, imaging.JPEG, imaging.JPEGQuality(s.quality)); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to encode slide %s: %w", slide.Name(), err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write slide file: %w", err)
	}

	return path, nil
}

func (s *LocalStorage) SaveDocument(dir, name string, doc *carousel.Document) (string, error) {
	path := filepath.Join(dir, name)
	if err := afero.WriteFile(s.fs, path, doc.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	return path, nil
}

// ListSessions returns the session directories under the output directory.
func (s *LocalStorage) ListSessions() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var sessions []string
	for _, entry := range entries {
		if entry.IsDir() {
			sessions = append(sessions, filepath.Join(s.outputDir, entry.Name()))
		}
	}
	return sessions, nil
}

// ClearSessions removes every session directory and reports how many it
// removed.
func (s *LocalStorage) ClearSessions() (int, error) {
	sessions, err := s.ListSessions()
	if err != nil {
		return 0, err
	}
	for i, dir := range sessions {
		if err := s.RemoveSession(dir); err != nil {
			return i, err
		}
	}
	return len(sessions), nil
}

func (s *LocalStorage) EnsureDirectories() error {
	if err := s.fs.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
