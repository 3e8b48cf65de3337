// Package blobstore defines the key-value blob service the document
// store is built on, plus its in-memory and MongoDB implementations.
package blobstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is the backend's absence signal for Get and Delete.
var ErrKeyNotFound = errors.New("key not found")

type ListOptions struct {
	Prefix string
	// Limit caps the number of keys returned. There is no continuation
	// cursor; callers never see keys beyond the cap.
	Limit int
}

// Backend is a namespaced key-value blob service. Each collection is an
// independent flat bucket; Set is a full-value overwrite with no merge
// semantics.
type Backend interface {
	Get(ctx context.Context, collection, key string) ([]byte, error)
	Set(ctx context.Context, collection, key string, value []byte) error
	Delete(ctx context.Context, collection, key string) error
	List(ctx context.Context, collection string, opts ListOptions) ([]string, error)
}
