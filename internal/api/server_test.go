package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"partnerscout/internal/progress"
	"partnerscout/internal/scout"
	"partnerscout/internal/store/memory"
)

type fixedReporter struct {
	summary progress.Summary
}

func (r fixedReporter) LastSummary() progress.Summary { return r.summary }

func newTestServer(t *testing.T, store scout.SubjectStore, reporter SummaryReporter) *httptest.Server {
	t.Helper()
	srv := New(":0", store, reporter, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, memory.New(), nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
}

func TestStatus(t *testing.T) {
	t.Parallel()

	store := memory.New()
	require.NoError(t, store.Insert(context.Background(), scout.Subject{
		ID: "a", Website: "https://a.test", Status: scout.StatusPending,
	}))
	reporter := fixedReporter{summary: progress.Summary{Total: 5, Successful: 4, Failed: 1}}

	ts := newTestServer(t, store, reporter)

	resp, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Pending   int              `json:"pending"`
		LastBatch progress.Summary `json:"last_batch"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, 1, body.Pending)
	require.Equal(t, 5, body.LastBatch.Total)
	require.Equal(t, 4, body.LastBatch.Successful)
}

func TestMetricsEndpointServes(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, memory.New(), nil)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
