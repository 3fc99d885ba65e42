package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHealthz(t *testing.T) {
	healthy := NewHandler(func(context.Context) error { return nil })
	rec := httptest.NewRecorder()
	healthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	unhealthy := NewHandler(func(context.Context) error { return errors.New("no strengths") })
	rec = httptest.NewRecorder()
	unhealthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "no strengths")
}

func TestMetricsEndpointExposesCounters(t *testing.T) {
	ObserveFit(time.Now(), 20)
	ObservePrediction(true)

	rec := httptest.NewRecorder()
	NewHandler(func(context.Context) error { return nil }).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "scoreline_fits_total")
	assert.Contains(t, rec.Body.String(), `scoreline_predictions_total{fallback="true"}`)
	assert.Equal(t, 20.0, testutil.ToFloat64(FittedTeams))
}
