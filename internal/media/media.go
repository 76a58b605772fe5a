// Package media defines the upload collaborator used to host images and
// video/audio assets, and the rule that picks one for a lesson attachment.
package media

import (
	"context"
	"errors"
	"strings"
)

// ErrUploadsDisabled is returned when no storage backend is configured.
var ErrUploadsDisabled = errors.New("media uploads are not configured")

// ErrEmptyFile is returned for zero-length uploads.
var ErrEmptyFile = errors.New("uploaded file is empty")

// File is an in-memory upload received from a client.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Result describes a hosted asset.
type Result struct {
	// SecureURL is the public HTTPS URL stored on the owning record.
	SecureURL string
	PublicID  string
	Bytes     int64
}

// Uploader hosts files and returns their public location.
type Uploader interface {
	UploadImage(ctx context.Context, file *File) (*Result, error)
	UploadVideo(ctx context.Context, file *File) (*Result, error)
}

// Kind is the hosting class chosen for a file.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// KindOf classifies a MIME type. Video and audio both go to video hosting;
// everything else, including an empty type, is treated as an image.
func KindOf(contentType string) Kind {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if strings.HasPrefix(ct, "video/") || strings.HasPrefix(ct, "audio/") {
		return KindVideo
	}
	return KindImage
}

// UploadLessonMedia uploads a lesson attachment through the hosting class
// matching its MIME type.
func UploadLessonMedia(ctx context.Context, up Uploader, file *File) (*Result, error) {
	if KindOf(file.ContentType) == KindVideo {
		return up.UploadVideo(ctx, file)
	}
	return up.UploadImage(ctx, file)
}

// DisabledUploader rejects every upload with ErrUploadsDisabled.
type DisabledUploader struct{}

var _ Uploader = DisabledUploader{}

func (DisabledUploader) UploadImage(context.Context, *File) (*Result, error) {
	return nil, ErrUploadsDisabled
}

func (DisabledUploader) UploadVideo(context.Context, *File) (*Result, error) {
	return nil, ErrUploadsDisabled
}
