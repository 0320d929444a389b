package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()
	m.Logins.WithLabelValues("success").Inc()
	m.Logins.WithLabelValues("success").Inc()
	m.RoundScore.Observe(100)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Logins.WithLabelValues("success")))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `ninernav_logins_total{outcome="success"} 2`)
	assert.Contains(t, string(body), "ninernav_round_score_count 1")
}
