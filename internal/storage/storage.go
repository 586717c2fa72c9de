package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Kind separates car photos from company and vehicle paperwork so the two
// can live under different prefixes and retention rules.
type Kind string

const (
	KindImage    Kind = "images"
	KindDocument Kind = "documents"
)

// Storage persists uploaded car media. The local implementation backs demo
// and test deployments; a cloud object store can implement the same surface.
type Storage interface {
	// Save writes the content under the key and returns the public URL the
	// catalog should reference.
	Save(ctx context.Context, key string, contentType string, r io.Reader) (string, error)

	// Open returns the stored content for the download handler.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	Delete(ctx context.Context, key string) error

	// URLFor maps a stored key to its public URL without touching the backend.
	URLFor(key string) string
}

// NewKey builds a collision-free storage key for an upload, keeping the
// original extension so content type survives a round trip.
func NewKey(kind Kind, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%s%s", kind, uuid.New().String(), ext)
}
