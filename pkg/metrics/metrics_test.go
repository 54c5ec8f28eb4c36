package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/freelance-credit-ledger/pkg/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOperation(t *testing.T) {
	m := New()

	m.ObserveOperation("assign_freelancer", time.Now(), nil)
	m.ObserveOperation("assign_freelancer", time.Now(), fmt.Errorf("scope: %w", apperr.ErrContention))
	m.ObserveOperation("assign_freelancer", time.Now(), apperr.NotFound("project", "p1"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("assign_freelancer", apperr.KindOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("assign_freelancer", apperr.KindContention)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("assign_freelancer", apperr.KindNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.contention.WithLabelValues("assign_freelancer")))
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveOperation("credit", time.Now(), nil)
		m.SetAuditDiscrepancies(3)
	})
	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	assert.NotNil(t, m.InstrumentHandler(h))
}

func TestInstrumentHandlerUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.InstrumentHandler)
	r.Get("/projects/{projectId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	for _, id := range []string{"a", "b"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/projects/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rr.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/projects/{projectId}", "418")))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "freelance_ledger_http_requests_total")
}
