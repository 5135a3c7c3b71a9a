package service

import (
	"context"
	"io"
)

// ResumeStorage stores submitted resume files and returns a public URL.
type ResumeStorage interface {
	UploadResume(ctx context.Context, filename string, data io.Reader) (string, error)
}
