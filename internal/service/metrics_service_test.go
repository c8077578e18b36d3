package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/enrollments", http.StatusCreated, 10*time.Millisecond)
	m.ObserveStoreWrite("create", nil, time.Millisecond)
	m.ObserveStoreWrite("create", errors.New("quota"), time.Millisecond)
	m.IncEnrollmentCreated("TALLER")
	m.IncEnrollmentCreated("TALLER")
	m.IncExport("csv", "FINISHED")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `enrollment_store_write_seconds_count{operation="create",outcome="error"} 1`)
	assert.Contains(t, body, `enrollments_created_total{type="TALLER"} 2`)
	assert.Contains(t, body, `http_requests_total{method="POST",path="/api/v1/enrollments",status="201"} 1`)
	assert.Contains(t, body, "goroutines_total")
	assert.Contains(t, body, `listing_exports_total{format="csv",status="FINISHED"} 1`)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.ObserveStoreWrite("create", nil, time.Millisecond)
	m.IncEnrollmentCreated("TALLER")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
