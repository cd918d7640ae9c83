package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	cases := []struct {
		header     string
		start, end int64
		wantErr    bool
	}{
		{"bytes=0-9", 0, 9, false},
		{"bytes=10-", 10, 99, false},
		{"bytes=-5", 95, 99, false},
		{"bytes=90-500", 90, 99, false},
		{"bytes=-500", 0, 99, false},
		{"bytes=100-", 0, 0, true},
		{"bytes=5-1", 0, 0, true},
		{"bytes=0-1,4-5", 0, 0, true},
		{"items=0-1", 0, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.header, func(t *testing.T) {
			start, end, err := parseRange(tc.header, 100)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.start, start)
			assert.Equal(t, tc.end, end)
		})
	}
}

func TestObjectKey(t *testing.T) {
	key := objectKey("../My Holiday Video!!.MP4")
	assert.True(t, strings.HasPrefix(key, "videos/"))
	assert.True(t, strings.HasSuffix(key, "-My-Holiday-Video.mp4"))
	assert.NotContains(t, key, "..")

	assert.NotEqual(t, objectKey("a.mp4"), objectKey("a.mp4"))
}

func TestBuildS3URL(t *testing.T) {
	key := "videos/x.mp4"
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com/videos/x.mp4",
		buildS3URL(S3Options{Bucket: "b", Region: "eu-west-1"}, key))
	assert.Equal(t, "http://minio:9000/b/videos/x.mp4",
		buildS3URL(S3Options{Bucket: "b", Endpoint: "http://minio:9000/", UsePathStyle: true}, key))
	assert.Equal(t, "https://b.r2.example.com/videos/x.mp4",
		buildS3URL(S3Options{Bucket: "b", Endpoint: "https://r2.example.com"}, key))
	assert.Equal(t, "https://cdn.example.com/videos/x.mp4",
		buildS3URL(S3Options{Bucket: "b", PublicURL: "https://cdn.example.com/"}, key))
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)

	res, err := store.Upload(ctx, strings.NewReader("0123456789"), "clip.mp4", "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.Size)
	assert.Equal(t, "/media/"+res.Key, res.URL)

	obj, err := store.Read(ctx, res.Key, "")
	require.NoError(t, err)
	body, _ := io.ReadAll(obj.Body)
	obj.Body.Close()
	assert.Equal(t, "0123456789", string(body))
	assert.False(t, obj.Partial())
	assert.Equal(t, "video/mp4", obj.ContentType)

	obj, err = store.Read(ctx, res.Key, "bytes=2-5")
	require.NoError(t, err)
	body, _ = io.ReadAll(obj.Body)
	obj.Body.Close()
	assert.Equal(t, "2345", string(body))
	assert.Equal(t, "bytes 2-5/10", obj.ContentRange)
	assert.Equal(t, int64(4), obj.ContentLength)

	require.NoError(t, store.Delete(ctx, res.Key))
	require.NoError(t, store.Delete(ctx, res.Key))

	_, err = store.Read(ctx, res.Key, "")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "../../etc/passwd", "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrObjectNotFound)
}

func TestBlobImageStorage(t *testing.T) {
	ctx := context.Background()
	blobs, err := NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)
	images := NewBlobImageStorage(blobs)

	url, err := images.UploadImage(ctx, strings.NewReader("png"), "thumbnails", "thumb.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/videos/"))

	key := keyFromURL(url)
	obj, err := blobs.Read(ctx, key, "")
	require.NoError(t, err)
	obj.Body.Close()
	assert.Equal(t, "image/png", obj.ContentType)

	require.NoError(t, images.DeleteImage(ctx, url))
	_, err = blobs.Read(ctx, key, "")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	assert.NoError(t, images.DeleteImage(ctx, "https://elsewhere.example.com/a.png"))
}
