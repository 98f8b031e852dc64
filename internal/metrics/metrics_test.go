package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	m := New()

	m.Transition("applied")
	m.Transition("applied")
	m.Transition("undone")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.batches.WithLabelValues("applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.batches.WithLabelValues("undone")))
}

func TestDepths(t *testing.T) {
	m := New()
	m.Depths(3, 2, 1)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.activeBatches))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.undoDepth))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.redoDepth))
}

func TestCounters(t *testing.T) {
	m := New()
	m.ConflictResolved("skip")
	m.ApplyRejected("blocked")
	m.ApplyRejected("blocked")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflictsResolved.WithLabelValues("skip")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.applyRejected.WithLabelValues("blocked")))
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Transition("dismissed")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.batches.WithLabelValues("dismissed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.batches.WithLabelValues("dismissed")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Transition("applied")
	m.Depths(1, 1, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `previewdeck_batches_total{event="applied"} 1`)
	assert.Contains(t, string(body), "previewdeck_active_batches 1")
}
