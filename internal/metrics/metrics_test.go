package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordEvents(t *testing.T) {
	before := testutil.ToFloat64(events.WithLabelValues(EventNumberCollision))

	RecordEvent(EventNumberCollision)
	RecordEvents(EventNumberCollision, 2)
	RecordEvents(EventNumberCollision, 0)

	assert.Equal(t, before+3, testutil.ToFloat64(events.WithLabelValues(EventNumberCollision)))
}

func TestRecordImagesRemovedIgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(imagesRemoved.WithLabelValues("orphaned"))

	RecordImagesRemoved("orphaned", 0)
	RecordImagesRemoved("orphaned", 4)

	assert.Equal(t, before+4, testutil.ToFloat64(imagesRemoved.WithLabelValues("orphaned")))
}

func TestRecordDatabaseQuery(t *testing.T) {
	before := testutil.ToFloat64(dbQueries.WithLabelValues(DBQueryTypeSelect, "error"))

	RecordDatabaseQuery(DBQueryTypeSelect, false, time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(dbQueries.WithLabelValues(DBQueryTypeSelect, "error")))
}
