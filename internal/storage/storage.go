// Package storage provides the output storage contract for rendered files
// and the local/S3 implementations behind it.
package storage

import (
	"context"
	"io"
)

// Store persists a rendered artifact under a key and returns its public URL
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}
