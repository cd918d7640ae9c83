package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidRange   = errors.New("invalid byte range")
)

// VideoStorage stores large media blobs (videos, and thumbnails when no
// image CDN is configured).
type VideoStorage interface {
	// Upload streams r to storage under a generated key.
	Upload(ctx context.Context, r io.Reader, filename, contentType string) (*UploadResult, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Read opens the object. byteRange is an HTTP Range header value
	// ("bytes=0-1023"); empty means the whole object.
	Read(ctx context.Context, key, byteRange string) (*Object, error)
}

type UploadResult struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// Object is an open read handle. Callers must close Body.
type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	// ContentRange is set for partial reads, e.g. "bytes 0-1023/4096".
	ContentRange string
}

func (o *Object) Partial() bool {
	return o.ContentRange != ""
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// objectKey builds "videos/<uuid>-<clean name>". UUIDv7 keeps keys roughly
// time ordered in bucket listings.
func objectKey(filename string) string {
	base := filepath.Base(filename)
	ext := strings.ToLower(path.Ext(base))
	name := strings.TrimSuffix(base, path.Ext(base))
	name = strings.Trim(unsafeChars.ReplaceAllString(name, "-"), "-.")
	if name == "" {
		name = "file"
	}
	if len(name) > 64 {
		name = name[:64]
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return fmt.Sprintf("videos/%s-%s%s", id.String(), name, ext)
}

// parseRange resolves a single "bytes=" range against size. Multi-range
// requests are rejected.
func parseRange(header string, size int64) (start, end int64, err error) {
	rng, ok := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !ok || strings.Contains(rng, ",") {
		return 0, 0, ErrInvalidRange
	}
	first, last, ok := strings.Cut(rng, "-")
	if !ok {
		return 0, 0, ErrInvalidRange
	}

	switch {
	case first == "":
		// suffix range: last N bytes
		n, perr := strconv.ParseInt(last, 10, 64)
		if perr != nil || n <= 0 {
			return 0, 0, ErrInvalidRange
		}
		if n > size {
			n = size
		}
		return size - n, size - 1, nil
	default:
		start, perr := strconv.ParseInt(first, 10, 64)
		if perr != nil || start < 0 || start >= size {
			return 0, 0, ErrInvalidRange
		}
		end := size - 1
		if last != "" {
			end, perr = strconv.ParseInt(last, 10, 64)
			if perr != nil || end < start {
				return 0, 0, ErrInvalidRange
			}
			if end >= size {
				end = size - 1
			}
		}
		return start, end, nil
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
