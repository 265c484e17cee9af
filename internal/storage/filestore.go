package storage

import (
	"context"
	"io"
)

// UploadInput describes one file handed to the store.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// FileStore persists attachment bytes and returns a retrievable URL.
// A transport failure is fatal to that single file only.
type FileStore interface {
	Store(ctx context.Context, input UploadInput) (string, error)
}
