// Package storage abstracts where attachment bytes live. The backend is
// chosen once at startup from configuration and injected into handlers;
// object layout is backend-agnostic (see ObjectKey).
package storage

import (
	"context"
	"time"
)

// Backend is the capability set every object store must provide.
type Backend interface {
	// PresignUpload returns a time-limited direct-upload target: a URL plus
	// the form fields a client must POST alongside the file. The local
	// backend returns an empty target — local uploads go through the
	// synchronous upload-direct endpoint instead.
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, map[string]string, error)

	// PresignDownload returns a time-limited URL the client can GET. The
	// local backend returns a same-process path that re-enters the API to
	// stream the file from disk.
	PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error)

	// DeleteObject removes the object. Deleting an object that is already
	// gone is success, not an error.
	DeleteObject(ctx context.Context, key string) error
}
