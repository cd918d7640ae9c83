package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestDefaultIsSingleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestRecordLikeToggle(t *testing.T) {
	m := Default()
	before := testutil.ToFloat64(m.LikeTogglesTotal.WithLabelValues("removed"))

	m.RecordLikeToggle("removed")

	assert.Equal(t, before+1, testutil.ToFloat64(m.LikeTogglesTotal.WithLabelValues("removed")))
}

func TestRecordUpload(t *testing.T) {
	m := Default()
	uploads := testutil.ToFloat64(m.VideoUploadsTotal)
	bytes := testutil.ToFloat64(m.UploadBytesTotal)

	m.RecordUpload(2048)
	m.RecordUpload(0)

	assert.Equal(t, uploads+2, testutil.ToFloat64(m.VideoUploadsTotal))
	assert.Equal(t, bytes+2048, testutil.ToFloat64(m.UploadBytesTotal))
}

func TestRecordRequestDoesNotPanic(t *testing.T) {
	Default().RecordRequest("GET", "/api/videos", "200", 0.012)
	Default().RecordView()
	Default().RecordLogin("email")
}
