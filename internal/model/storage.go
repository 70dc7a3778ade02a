package model

import (
	"context"
	"io"
)

// Storage is the asset host avatars are uploaded to.
type Storage interface {
	// Upload stores the object and returns the URL it is served from.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// AvatarUpload is an image headed for the asset host.
type AvatarUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}
