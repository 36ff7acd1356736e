package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordUpload_CountsBytesOnlyOnSuccess(t *testing.T) {
	before := testutil.ToFloat64(UploadBytesTotal.WithLabelValues("image"))

	RecordUpload("image", "success", 100)
	RecordUpload("image", "error", 50)

	assert.Equal(t, before+100, testutil.ToFloat64(UploadBytesTotal.WithLabelValues("image")))
}

func TestRecordSweep(t *testing.T) {
	before := testutil.ToFloat64(SweepDeletedTotal)
	RecordSweep(3)
	assert.Equal(t, before+3, testutil.ToFloat64(SweepDeletedTotal))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "success", Status(nil))
	assert.Equal(t, "error", Status(errors.New("boom")))
}
