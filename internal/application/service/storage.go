package service

import (
	"context"
	"io"
)

// PictureStore persists uploaded profile pictures to durable storage.
// Save returns the stored file name (uniquified from the original) and the
// public URL path the file is served from.
type PictureStore interface {
	Save(ctx context.Context, file io.Reader, fileName string) (storedName string, urlPath string, err error)
	Remove(ctx context.Context, storedName string) error
}
