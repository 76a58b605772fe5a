package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lingua-labs/lingua-api/internal/media"
)

// MockUploader is a testify mock of media.Uploader.
type MockUploader struct {
	mock.Mock
}

var _ media.Uploader = (*MockUploader)(nil)

// UploadImage implements media.Uploader.
func (m *MockUploader) UploadImage(ctx context.Context, file *media.File) (*media.Result, error) {
	args := m.Called(ctx, file)
	if res, ok := args.Get(0).(*media.Result); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

// UploadVideo implements media.Uploader.
func (m *MockUploader) UploadVideo(ctx context.Context, file *media.File) (*media.Result, error) {
	args := m.Called(ctx, file)
	if res, ok := args.Get(0).(*media.Result); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}
