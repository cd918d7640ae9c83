package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

type localStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage stores objects under root and builds URLs from baseURL
// (the router serves root at that prefix). Used when no bucket is set.
func NewLocalStorage(root, baseURL string) (VideoStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &localStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *localStorage) Upload(ctx context.Context, r io.Reader, filename, contentType string) (*UploadResult, error) {
	key := objectKey(filename)
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create object dir: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()

	n, err := io.Copy(f, &ctxReader{ctx: ctx, r: r})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("failed to write object: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("failed to commit object: %w", err)
	}

	return &UploadResult{URL: s.baseURL + "/" + key, Key: key, Size: n}, nil
}

func (s *localStorage) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (s *localStorage) Read(_ context.Context, key, byteRange string) (*Object, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open object %s: %w", key, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat object %s: %w", key, err)
	}
	size := info.Size()

	contentType := contentTypeFor(filepath.Ext(path))

	if byteRange == "" {
		return &Object{Body: f, ContentType: contentType, ContentLength: size}, nil
	}

	start, end, err := parseRange(byteRange, size)
	if err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.Seek(start, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to seek object %s: %w", key, err)
	}

	length := end - start + 1
	return &Object{
		Body:          &limitedReadCloser{Reader: io.LimitReader(f, length), Closer: f},
		ContentType:   contentType,
		ContentLength: length,
		ContentRange:  fmt.Sprintf("bytes %d-%d/%d", start, end, size),
	}, nil
}

// path rejects keys that would escape root.
func (s *localStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".ogv":  "video/ogg",
}

func contentTypeFor(ext string) string {
	ext = strings.ToLower(ext)
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

type limitedReadCloser struct {
	io.Reader
	io.Closer
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
