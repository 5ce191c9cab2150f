package reporter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btcfi/oracle-aggregator/pkg/logging"
	"github.com/btcfi/oracle-aggregator/pkg/reporter/binance"
	"github.com/btcfi/oracle-aggregator/pkg/server/aggregator"
)

type stubSource struct {
	point binance.PricePoint
	err   error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) FetchClosePrice(context.Context) (binance.PricePoint, error) {
	return s.point, s.err
}

func TestRunOnce_SubmitsFetchedPrice(t *testing.T) {
	engine := aggregator.NewEngine(logging.NewNoopLogger())
	fetchedAt := time.Now()
	source := &stubSource{
		point: binance.PricePoint{PriceCents: 5005075, Source: "binance", Timestamp: fetchedAt},
	}

	r, err := New("node-1", source, NewEngineSubmitter(engine), "0 * * * * *", logging.NewNoopLogger())
	require.NoError(t, err)

	require.NoError(t, r.RunOnce(context.Background()))

	recent := engine.Recent(1)
	require.Len(t, recent, 1)
	assert.Equal(t, 50050.75, recent[0].Price)
	assert.Equal(t, "binance", recent[0].Source)
	assert.Equal(t, "node-1", recent[0].ReporterID)
	assert.Equal(t, fetchedAt.Unix(), recent[0].ObservedAt)
}

func TestRunOnce_SkipsCycleOnFetchFailure(t *testing.T) {
	engine := aggregator.NewEngine(logging.NewNoopLogger())
	source := &stubSource{err: errors.New("connection refused")}

	r, err := New("node-1", source, NewEngineSubmitter(engine), "0 * * * * *", logging.NewNoopLogger())
	require.NoError(t, err)

	require.Error(t, r.RunOnce(context.Background()))
	assert.Empty(t, engine.Recent(10))
}

func TestNew_RejectsInvalidSchedule(t *testing.T) {
	_, err := New("node-1", &stubSource{}, NewEngineSubmitter(nil), "every minute", logging.NewNoopLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestHTTPSubmitter_PostsSubmission(t *testing.T) {
	var got aggregator.Submission
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/prices", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"ok"}`))
	}))
	defer server.Close()

	s := NewHTTPSubmitter(server.URL, 5*time.Second)
	sub := aggregator.Submission{Price: 50000, ObservedAt: 1_700_000_000, Source: "binance", ReporterID: "node-1"}
	require.NoError(t, s.Submit(context.Background(), sub))
	assert.Equal(t, sub, got)
}

func TestHTTPSubmitter_SurfacesRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"success":false,"message":"price must be positive"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	s := NewHTTPSubmitter(server.URL, 5*time.Second)
	err := s.Submit(context.Background(), aggregator.Submission{Price: -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSubmitRejected)
}
