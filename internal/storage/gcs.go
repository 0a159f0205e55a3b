package storage

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"carousel/internal/carousel"
)

const rollbackTimeout = 30 * time.Second

// GCSStorage mirrors finished decks to a bucket and serves the list-variant
// template from it, caching the download locally.
type GCSStorage struct {
	client         *storage.Client
	fs             afero.Fs
	bucket         string
	templatePrefix string
	deckPrefix     string
	localCacheDir  string
}

type GCSOptions struct {
	Bucket         string
	TemplatePrefix string
	DeckPrefix     string
	CacheDir       string
}

func NewGCSStorage(ctx context.Context, fs afero.Fs, opts GCSOptions, clientOpts ...option.ClientOption) (*GCSStorage, error) {
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{
		client:         client,
		fs:             fs,
		bucket:         opts.Bucket,
		templatePrefix: opts.TemplatePrefix,
		deckPrefix:     opts.DeckPrefix,
		localCacheDir:  opts.CacheDir,
	}, nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

// Template implements render.TemplateSource.
func (s *GCSStorage) Template(ctx context.Context) (image.Image, error) {
	names, err := s.listObjects(ctx, s.templatePrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", carousel.ErrAssetMissing, err)
	}

	remote, ok := pickTemplate(names)
	if !ok {
		return nil, fmt.Errorf("%w: no template image in gs://%s/%s", carousel.ErrAssetMissing, s.bucket, s.templatePrefix)
	}

	localPath := filepath.Join(s.localCacheDir, filepath.Base(remote))
	if exists, _ := afero.Exists(s.fs, localPath); !exists {
		if err := s.downloadFile(ctx, remote, localPath); err != nil {
			return nil, fmt.Errorf("%w: %v", carousel.ErrAssetMissing, err)
		}
	}

	f, err := s.fs.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", carousel.ErrAssetMissing, err)
	}
	defer func() { _ = f.Close() }()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: template %s: %v", carousel.ErrAssetMissing, remote, err)
	}
	return img, nil
}

// UploadDeck copies each file to <deck prefix>/<session>/<name> and returns
// the gs:// URIs. If any upload fails the objects already written are
// deleted and no URIs are returned.
func (s *GCSStorage) UploadDeck(ctx context.Context, sessionID string, paths []string) ([]string, error) {
	names, err := uploadAll(ctx, s.deckPrefix, sessionID, paths, s.uploadFile, s.deleteObject)
	if err != nil {
		return nil, err
	}

	uris := make([]string, 0, len(names))
	for _, name := range names {
		uris = append(uris, fmt.Sprintf("gs://%s/%s", s.bucket, name))
	}

	slog.Debug("Deck mirrored", "bucket", s.bucket, "session", sessionID, "files", len(uris))
	return uris, nil
}

type (
	uploadFunc func(ctx context.Context, localPath, objectName string) error
	deleteFunc func(ctx context.Context, objectName string) error
)

// uploadAll uploads paths in order and returns their object names. On the
// first failure it deletes what was already uploaded, using a context that
// outlives cancellation of ctx.
func uploadAll(ctx context.Context, prefix, sessionID string, paths []string, upload uploadFunc, remove deleteFunc) ([]string, error) {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		name := deckObjectName(prefix, sessionID, p)
		if err := upload(ctx, p, name); err != nil {
			rollbackUploads(ctx, names, remove)
			return nil, fmt.Errorf("failed to upload %s: %w", filepath.Base(p), err)
		}
		names = append(names, name)
	}
	return names, nil
}

func rollbackUploads(ctx context.Context, names []string, remove deleteFunc) {
	if len(names) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()

	for _, name := range names {
		if err := remove(ctx, name); err != nil {
			slog.Warn("Failed to delete partial upload", "object", name, "error", err)
		}
	}
}

func (s *GCSStorage) listObjects(ctx context.Context, prefix string) ([]string, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

func (s *GCSStorage) downloadFile(ctx context.Context, remotePath, localPath string) error {
	if err := s.fs.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	r, err := s.client.Bucket(s.bucket).Object(remotePath).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to create reader: %w", err)
	}
	defer func() { _ = r.Close() }()

	f, err := s.fs.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(localPath)
		return fmt.Errorf("failed to download file: %w", err)
	}
	return f.Close()
}

func (s *GCSStorage) uploadFile(ctx context.Context, localPath, objectName string) error {
	f, err := s.fs.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType(localPath)

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	return w.Close()
}

func (s *GCSStorage) deleteObject(ctx context.Context, objectName string) error {
	err := s.client.Bucket(s.bucket).Object(objectName).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func contentType(path string) string {
	switch filepath.Ext(path) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

func (s *GCSStorage) EnsureCacheDir() error {
	return s.fs.MkdirAll(s.localCacheDir, 0755)
}
