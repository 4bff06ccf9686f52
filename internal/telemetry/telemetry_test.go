package telemetry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInstrumentHandlerLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/api/orders/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/orders/{id}", "404"))
	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/orders/{id}", "404"))

	assert.Equal(t, 3.0, after-before)
}

func TestInsightAndJobCounters(t *testing.T) {
	before := testutil.ToFloat64(insightFailures.WithLabelValues("sales", "AI_FORMAT"))
	RecordInsightFailure("sales", "AI_FORMAT")
	assert.Equal(t, 1.0, testutil.ToFloat64(insightFailures.WithLabelValues("sales", "AI_FORMAT"))-before)

	failedBefore := testutil.ToFloat64(jobRuns.WithLabelValues("purge", "false"))
	RecordJobRun("purge", errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(jobRuns.WithLabelValues("purge", "false"))-failedBefore)
}

func TestHandlerServesRegistry(t *testing.T) {
	RecordInsightRequest("overall")
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bizmanage_insights_requests_total")
}
