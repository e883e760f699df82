package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordConversion(t *testing.T) {
	before := testutil.ToFloat64(Conversions.WithLabelValues("test-provider", "success"))
	RecordConversion("test-provider", "success", 120*time.Millisecond, 3)
	after := testutil.ToFloat64(Conversions.WithLabelValues("test-provider", "success"))
	assert.Equal(t, before+1, after)
}

func TestRecordBackendCall(t *testing.T) {
	RecordBackendCall("p", "m", nil)
	RecordBackendCall("p", "m", errors.New("x"))
	assert.Equal(t, 1.0, testutil.ToFloat64(BackendCalls.WithLabelValues("p", "m", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(BackendCalls.WithLabelValues("p", "m", "success")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	Init()
	Init()
	Fallbacks.WithLabelValues("gemini").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "devicely_fallbacks_total")
}
