package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// NewBlobImageStorage serves ImageStorage from a VideoStorage, for
// deployments without an image CDN. The folder argument is ignored; keys
// come from objectKey like any other blob.
func NewBlobImageStorage(blobs VideoStorage) ImageStorage {
	return &blobImageStorage{blobs: blobs}
}

type blobImageStorage struct {
	blobs VideoStorage
}

func (s *blobImageStorage) UploadImage(ctx context.Context, r io.Reader, _, fileName string) (string, error) {
	res, err := s.blobs.Upload(ctx, r, fileName, contentTypeFor(filepath.Ext(fileName)))
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

func (s *blobImageStorage) DeleteImage(ctx context.Context, fileURL string) error {
	key := keyFromURL(fileURL)
	if key == "" {
		return nil
	}
	return s.blobs.Delete(ctx, key)
}

// keyFromURL recovers the object key from a URL built by Upload. URLs that
// did not come from this storage yield "".
func keyFromURL(fileURL string) string {
	i := strings.LastIndex(fileURL, "/videos/")
	if i < 0 {
		return ""
	}
	return fileURL[i+1:]
}
