package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

// Local stores attachment bytes as flat files under a single directory,
// keeping only the final segment of each storage key as the filename.
// Key generation embeds a random token, so flattening cannot collide.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir returns the storage directory; the local-download handler uses it to
// confine served paths.
func (l *Local) Dir() string {
	return l.dir
}

// PresignUpload is a placeholder for the local backend: there is nothing to
// presign, the client sends bytes straight to the upload-direct endpoint.
func (l *Local) PresignUpload(_ context.Context, _, _ string, _ time.Duration) (string, map[string]string, error) {
	return "", map[string]string{}, nil
}

// SaveFile writes the incoming stream to disk and returns the on-disk path.
func (l *Local) SaveFile(key string, r io.Reader) (string, error) {
	dst := l.pathFor(key)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return dst, nil
}

// PresignDownload returns a relative API path; the server streams the file
// itself instead of handing out an external URL.
func (l *Local) PresignDownload(_ context.Context, key string, _ time.Duration) (string, error) {
	return "/attachments/local-download?path=" + url.QueryEscape(l.pathFor(key)), nil
}

func (l *Local) DeleteObject(_ context.Context, key string) error {
	err := os.Remove(l.pathFor(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (l *Local) pathFor(key string) string {
	return filepath.Join(l.dir, path.Base(key))
}
