package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local keeps files under the public static directory. A file saved as
// "uploads/x.png" is served at "/uploads/x.png".
type Local struct {
	baseDir string
}

func NewLocal(baseDir string) (*Local, error) {
	//nolint:gosec // public assets are world readable
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	return &Local{baseDir: baseDir}, nil
}

func (l *Local) BaseDir() string {
	return l.baseDir
}

func (l *Local) Save(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	key = cleanKey(key)
	full, err := l.resolve("/" + key)
	if err != nil {
		return "", err
	}

	//nolint:gosec // public assets are world readable
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return "/" + key, nil
}

func (l *Local) Open(_ context.Context, url string) (io.ReadCloser, error) {
	full, err := l.resolve(url)
	if err != nil {
		return nil, err
	}
	//nolint:gosec // G304: path is confined to baseDir by resolve
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// resolve maps a site-relative URL to a path inside baseDir.
func (l *Local) resolve(url string) (string, error) {
	if !strings.HasPrefix(url, "/") || strings.HasPrefix(url, "//") {
		return "", ErrForeignURL
	}
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	cleaned := path.Clean(url)
	if cleaned == "/" || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid file path %q", url)
	}
	return filepath.Join(l.baseDir, filepath.FromSlash(cleaned)), nil
}
