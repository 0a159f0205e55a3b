package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"

	"carousel/internal/carousel"
)

func testSlide(kind carousel.SlideKind, index int) carousel.RenderedSlide {
	return carousel.RenderedSlide{
		Kind:  kind,
		Index: index,
		Image: imaging.New(1080, 1080, color.NRGBA{R: 40, G: 40, B: 40, A: 255}),
	}
}

func TestLocalStorageSession(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewLocalStorage(fs, "slides", 90)

	dir, err := s.NewSession("20260101_120000_abcd1234")
	if err != nil {
		t.Fatalf("NewSession() error: %v", err)
	}
	if dir != filepath.Join("slides", "20260101_120000_abcd1234") {
		t.Errorf("NewSession() = %q", dir)
	}
	if ok, _ := afero.DirExists(fs, dir); !ok {
		t.Fatal("session directory should exist")
	}

	if err := s.RemoveSession(dir); err != nil {
		t.Fatalf("RemoveSession() error: %v", err)
	}
	if ok, _ := afero.DirExists(fs, dir); ok {
		t.Error("session directory should be removed")
	}
}

func TestLocalStorageSaveSlide(t *testing.T) {
	tests := []struct {
		name     string
		slide    carousel.RenderedSlide
		wantFile string
	}{
		{"cover", testSlide(carousel.KindCover, 0), "cover.jpg"},
		{"content", testSlide(carousel.KindContent, 3), "slide_3.jpg"},
		{"cta", testSlide(carousel.KindCTA, 0), "cta.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			s := NewLocalStorage(fs, "out", 90)
			dir, _ := s.NewSession("session")

			path, err := s.SaveSlide(dir, tt.slide)
			if err != nil {
				t.Fatalf("SaveSlide() error: %v", err)
			}
			if filepath.Base(path) != tt.wantFile {
				t.Errorf("SaveSlide() path = %q, want %s", path, tt.wantFile)
			}

			data, err := afero.ReadFile(fs, path)
			if err != nil {
				t.Fatalf("read slide: %v", err)
			}
			img, format, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode slide: %v", err)
			}
			if format != "jpeg" {
				t.Errorf("format = %q, want jpeg", format)
			}
			if img.Bounds().Dx() != 1080 {
				t.Errorf("width = %d, want 1080", img.Bounds().Dx())
			}
		})
	}
}

func TestLocalStorageSaveDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewLocalStorage(fs, "out", 90)
	dir, _ := s.NewSession("session")

	doc := &carousel.Document{Data: []byte("%PDF-1.3 test"), Pages: 1}
	path, err := s.SaveDocument(dir, "carousel.pdf", doc)
	if err != nil {
		t.Fatalf("SaveDocument() error: %v", err)
	}

	got, _ := afero.ReadFile(fs, path)
	if !bytes.Equal(got, doc.Data) {
		t.Errorf("document = %q, want %q", got, doc.Data)
	}
}

func TestLocalStorageClearSessions(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewLocalStorage(fs, "out", 90)

	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.NewSession(id); err != nil {
			t.Fatal(err)
		}
	}
	_ = afero.WriteFile(fs, "out/readme.txt", []byte("keep"), 0644)

	n, err := s.ClearSessions()
	if err != nil {
		t.Fatalf("ClearSessions() error: %v", err)
	}
	if n != 3 {
		t.Errorf("ClearSessions() = %d, want 3", n)
	}

	sessions, _ := s.ListSessions()
	if len(sessions) != 0 {
		t.Errorf("sessions left = %v", sessions)
	}
	if ok, _ := afero.Exists(fs, "out/readme.txt"); !ok {
		t.Error("plain files in the output directory should be kept")
	}
}

func TestLocalStorageListSessionsMissingDir(t *testing.T) {
	s := NewLocalStorage(afero.NewMemMapFs(), "/nonexistent/dir", 90)

	sessions, err := s.ListSessions()
	if err != nil {
		t.Errorf("ListSessions() error = %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("ListSessions() = %v, want empty", sessions)
	}
}

func TestPickTemplate(t *testing.T) {
	tests := []struct {
		name   string
		names  []string
		want   string
		wantOK bool
	}{
		{"empty", nil, "", false},
		{"noImages", []string{"templates/", "templates/notes.txt"}, "", false},
		{"single", []string{"templates/base.png"}, "templates/base.png", true},
		{"lexicalFirst", []string{"templates/z.jpg", "templates/a.PNG", "templates/m.jpeg"}, "templates/a.PNG", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickTemplate(tt.names)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("pickTemplate() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDeckObjectName(t *testing.T) {
	got := deckObjectName("decks", "20260101_120000_abcd1234", "slides/20260101_120000_abcd1234/carousel.pdf")
	if got != "decks/20260101_120000_abcd1234/carousel.pdf" {
		t.Errorf("deckObjectName() = %q", got)
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a/carousel.pdf", "application/pdf"},
		{"a/cover.jpg", "image/jpeg"},
		{"a/t.png", "image/png"},
		{"a/notes", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := contentType(tt.path); got != tt.want {
			t.Errorf("contentType(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

type fakeBucket struct {
	failOn   string
	uploaded []string
	deleted  []string
	delCtx   error
}

func (b *fakeBucket) upload(_ context.Context, localPath, objectName string) error {
	if filepath.Base(localPath) == b.failOn {
		return errors.New("connection reset")
	}
	b.uploaded = append(b.uploaded, objectName)
	return nil
}

func (b *fakeBucket) remove(ctx context.Context, objectName string) error {
	b.delCtx = ctx.Err()
	b.deleted = append(b.deleted, objectName)
	return nil
}

func TestUploadAll(t *testing.T) {
	paths := []string{"s/cover.jpg", "s/slide_1.jpg", "s/cta.jpg", "s/carousel.pdf"}

	tests := []struct {
		name        string
		failOn      string
		wantNames   []string
		wantDeleted []string
		wantErr     bool
	}{
		{
			name:      "allUploaded",
			wantNames: []string{"decks/sid/cover.jpg", "decks/sid/slide_1.jpg", "decks/sid/cta.jpg", "decks/sid/carousel.pdf"},
		},
		{
			name:        "failureRemovesUploaded",
			failOn:      "cta.jpg",
			wantDeleted: []string{"decks/sid/cover.jpg", "decks/sid/slide_1.jpg"},
			wantErr:     true,
		},
		{
			name:    "firstFailureNothingToRemove",
			failOn:  "cover.jpg",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket := &fakeBucket{failOn: tt.failOn}

			names, err := uploadAll(context.Background(), "decks", "sid", paths, bucket.upload, bucket.remove)

			if (err != nil) != tt.wantErr {
				t.Fatalf("uploadAll() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(names, tt.wantNames) {
				t.Errorf("names = %q, want %q", names, tt.wantNames)
			}
			if !reflect.DeepEqual(bucket.deleted, tt.wantDeleted) {
				t.Errorf("deleted = %q, want %q", bucket.deleted, tt.wantDeleted)
			}
		})
	}
}

func TestUploadAllRollbackSurvivesCancel(t *testing.T) {
	bucket := &fakeBucket{failOn: "cta.jpg"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uploadAll(ctx, "decks", "sid", []string{"s/cover.jpg", "s/cta.jpg"}, bucket.upload, bucket.remove)
	if err == nil {
		t.Fatal("uploadAll() should fail")
	}
	if len(bucket.deleted) != 1 {
		t.Fatalf("deleted = %q, want the cover removed", bucket.deleted)
	}
	if bucket.delCtx != nil {
		t.Errorf("delete context error = %v, want a live context", bucket.delCtx)
	}
}
