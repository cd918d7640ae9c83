package search

import (
	"testing"
	"time"

	"anoa.com/vidspace/internal/entity"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDocument(t *testing.T) {
	s := &meiliSearchService{sanitizer: bluemonday.StrictPolicy()}
	desc := "<p>Part one</p><p>of <b>many</b> &amp; more</p>"
	cat := "Gaming"
	uploaded := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	doc := s.toDocument(&entity.Video{
		ID:          "v1",
		Title:       "<script>x</script>Ep1",
		Description: &desc,
		Category:    &cat,
		ChannelID:   "c1",
		Channel:     &entity.Channel{Name: "Gaming Hub"},
		Views:       7,
		UploadedAt:  uploaded,
	})

	assert.Equal(t, "v1", doc.ID)
	assert.Equal(t, "Ep1", doc.Title)
	assert.Equal(t, "Part one of many & more", doc.Description)
	assert.Equal(t, "Gaming", doc.Category)
	assert.Equal(t, "Gaming Hub", doc.ChannelName)
	assert.Equal(t, uploaded.Unix(), doc.UploadedAt)
}

func TestToDocument_NilOptionals(t *testing.T) {
	s := &meiliSearchService{sanitizer: bluemonday.StrictPolicy()}
	doc := s.toDocument(&entity.Video{ID: "v2", Title: "plain"})
	assert.Empty(t, doc.Description)
	assert.Empty(t, doc.Category)
	assert.Empty(t, doc.ChannelName)
}

func TestDecodeHitIDs(t *testing.T) {
	ids, err := decodeHitIDs([]byte(`{"hits":[{"id":"b"},{"id":"a"},{"title":"no id"}],"query":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids)

	ids, err = decodeHitIDs([]byte(`{"hits":[]}`))
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	_, err = decodeHitIDs([]byte(`not json`))
	assert.Error(t, err)
}
