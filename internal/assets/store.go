// Package assets reads gallery images from a pluggable object store.
//
// Keys are slash-separated paths relative to the public root, e.g.
// "clouds/ci/gallery/01.jpg". Stores are read-only from the service's point of
// view; images are placed by an out-of-band copy step.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Driver identifies a concrete store implementation.
type Driver string

const (
	DriverFS     Driver = "fs"     // local directory (default, dev)
	DriverS3     Driver = "s3"     // S3 / MinIO compatible
	DriverMemory Driver = "memory" // in-memory (tests)
)

var (
	// ErrNotFound is returned when no object exists under a key.
	ErrNotFound = errors.New("asset not found")

	// ErrInvalidKey is returned for keys that are empty, absolute, escape the
	// root, or contain glob metacharacters.
	ErrInvalidKey = errors.New("invalid asset key")
)

// Info describes a stored object.
type Info struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// Store is the read surface the service needs from an object store.
type Store interface {
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	// List returns every object under prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]Info, error)
	Driver() Driver
}

// CleanKey validates and normalizes a key.
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: absolute key %q", ErrInvalidKey, key)
	}
	if strings.ContainsAny(key, `*?[]{}\`) {
		return "", fmt.Errorf("%w: metacharacter in %q", ErrInvalidKey, key)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: traversal in %q", ErrInvalidKey, key)
		}
	}
	return path.Clean(key), nil
}

// cleanPrefix is CleanKey for list prefixes, where the empty prefix means everything.
func cleanPrefix(prefix string) (string, error) {
	if prefix == "" {
		return "", nil
	}
	clean, err := CleanKey(prefix)
	if err != nil {
		return "", err
	}
	if strings.HasSuffix(prefix, "/") && clean != "." {
		clean += "/"
	}
	if clean == "." {
		return "", nil
	}
	return clean, nil
}
