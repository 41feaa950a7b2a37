// Package storage abstracts where delivered file bytes live. Records in the
// database reference objects here by storage key only, so backends are
// swappable without touching the handlers.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/viper"
)

// ErrNotFound is returned by Get for keys that were never stored.
var ErrNotFound = errors.New("object not found")

// Object is a stored blob opened for reading.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

type Storage interface {
	// Put writes size bytes from r under key. Keys are opaque to the
	// backend but always derive from a sanitized filename.
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error

	// Get opens the blob stored under key. The caller closes Body.
	Get(ctx context.Context, key string) (*Object, error)
}

// New picks the backend configured under storage.type.
func New() (Storage, error) {
	switch t := viper.GetString("storage.type"); t {
	case "s3":
		return NewS3()
	case "local":
		return NewLocal(viper.GetString("storage.root"))
	default:
		return nil, fmt.Errorf("unknown storage type %q", t)
	}
}
