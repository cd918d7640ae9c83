package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPublicID(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712/vidspace/thumbnails/abc.webp": "vidspace/thumbnails/abc",
		"https://res.cloudinary.com/demo/image/upload/vidspace/avatar.png":                "vidspace/avatar",
		"https://res.cloudinary.com/demo/image/upload/video-intro.webp":                   "video-intro",
		"https://res.cloudinary.com/demo/image/fetch/abc.webp":                            "",
		"://bad":                                                                          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, extractPublicID(in), in)
	}
}

func TestCloudinaryFolder(t *testing.T) {
	s := &cloudinaryStorage{rootFolder: "vidspace"}
	assert.Equal(t, "vidspace/thumbnails", s.folder("/thumbnails/"))
	assert.Equal(t, "vidspace", s.folder(""))

	s.rootFolder = ""
	assert.Equal(t, "avatars", s.folder("avatars"))
}
