// Package gcs hosts lesson media and language images in a Google Cloud
// Storage bucket.
package gcs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/lingua-labs/lingua-api/internal/config"
	"github.com/lingua-labs/lingua-api/internal/media"
	"github.com/lingua-labs/lingua-api/internal/platform/logger"
)

const (
	imagePrefix   = "images/"
	videoPrefix   = "videos/"
	uploadTimeout = 2 * time.Minute
	cacheControl  = "public, max-age=31536000"
)

// Uploader implements media.Uploader on a single bucket.
type Uploader struct {
	client       *storage.Client
	bucket       string
	cdnDomain    string
	emulatorHost string
	logger       *slog.Logger
	newID        func() string
}

var _ media.Uploader = (*Uploader)(nil)

// NewUploader creates a storage client for cfg. When an emulator host is
// configured the client talks to it without authentication.
func NewUploader(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	if log == nil {
		log = slog.Default()
	}

	emulator := strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
	var opts []option.ClientOption
	switch {
	case emulator != "":
		if err := os.Setenv("STORAGE_EMULATOR_HOST", emulator); err != nil {
			return nil, fmt.Errorf("failed to set emulator host: %w", err)
		}
		opts = append(opts, option.WithoutAuthentication())
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if emulator == "" {
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	u := &Uploader{
		client:       client,
		bucket:       cfg.Bucket,
		cdnDomain:    strings.TrimSpace(cfg.CDNDomain),
		emulatorHost: emulator,
		logger:       log.With(slog.String("component", "gcs_uploader")),
		newID:        func() string { return uuid.NewString() },
	}
	u.logger.Info("object storage initialized",
		slog.String("bucket", cfg.Bucket),
		slog.Bool("emulator", emulator != ""),
		slog.String("cdn_domain", u.cdnDomain))
	return u, nil
}

// UploadImage stores the file under images/.
func (u *Uploader) UploadImage(ctx context.Context, file *media.File) (*media.Result, error) {
	return u.upload(ctx, imagePrefix, file)
}

// UploadVideo stores the file under videos/. Audio is hosted here as well.
func (u *Uploader) UploadVideo(ctx context.Context, file *media.File) (*media.Result, error) {
	return u.upload(ctx, videoPrefix, file)
}

func (u *Uploader) upload(ctx context.Context, prefix string, file *media.File) (*media.Result, error) {
	if file == nil || len(file.Data) == 0 {
		return nil, media.ErrEmptyFile
	}
	log := logger.FromContextOrDefault(ctx, u.logger)

	key := objectKey(prefix, file.Filename, u.newID())
	contentType := file.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(key))
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := u.client.Bucket(u.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = cacheControl
	n, err := io.Copy(w, bytes.NewReader(file.Data))
	if err != nil {
		_ = w.Close()
		log.Error("failed to write object",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		log.Error("failed to finalize object",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to finalize object %s: %w", key, err)
	}

	log.Debug("object uploaded",
		slog.String("key", key),
		slog.String("content_type", contentType),
		slog.Int64("bytes", n))

	return &media.Result{
		SecureURL: u.PublicURL(key),
		PublicID:  key,
		Bytes:     n,
	}, nil
}

// PublicURL returns the address clients use to fetch key.
func (u *Uploader) PublicURL(key string) string {
	key = strings.TrimLeft(key, "/")
	switch {
	case u.cdnDomain != "":
		return fmt.Sprintf("https://%s/%s", u.cdnDomain, key)
	case u.emulatorHost != "":
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media",
			u.emulatorHost, url.PathEscape(u.bucket), url.PathEscape(key))
	default:
		return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, key)
	}
}

// Close releases the storage client.
func (u *Uploader) Close() error {
	if u.client == nil {
		return nil
	}
	return u.client.Close()
}

// objectKey builds prefix + id + the lower-cased original extension.
func objectKey(prefix, filename, id string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 10 || strings.ContainsAny(ext, " /\\?#") {
		ext = ""
	}
	return prefix + id + ext
}
