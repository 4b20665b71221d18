package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cbratkovics/nba-analytics/internal/platform/logging"
	"github.com/cbratkovics/nba-analytics/internal/platform/resilience"
	"github.com/cbratkovics/nba-analytics/internal/usecase"
)

const fetchSampleCSV = "player_id,first_name,last_name,game_id,game_date,home_away,pts,reb,ast\n" +
	"1,Stephen,Curry,100,2024-01-10,home,32,5,8\n" +
	"2,Nikola,Jokic,101,2024-01-11,away,26,12,9\n"

func newTestFetcher(t *testing.T, maxRetries int) *Fetcher {
	t.Helper()
	return NewFetcher(FetcherConfig{
		Timeout:    2 * time.Second,
		MaxRetries: maxRetries,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 3,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})
}

func TestFetch_ParsesRemoteCSV(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(fetchSampleCSV))
	}))
	defer ts.Close()

	f := newTestFetcher(t, 0)
	rows, skipped, columns, err := f.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got=%d", len(rows))
	}
	if skipped != 0 {
		t.Fatalf("expected no skipped rows, got=%d", skipped)
	}
	if columns != 9 {
		t.Fatalf("expected 9 columns, got=%d", columns)
	}
	if rows[0].PlayerFirstName != "Stephen" || rows[0].Points != 32 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
}

func TestFetch_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(fetchSampleCSV))
	}))
	defer ts.Close()

	f := newTestFetcher(t, 2)
	rows, _, _, err := f.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after retry, got=%d", len(rows))
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 requests, got=%d", got)
	}
}

func TestFetch_NonRetryableStatusFails(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	f := newTestFetcher(t, 2)
	if _, _, _, err := f.Fetch(context.Background(), ts.URL); err == nil {
		t.Fatal("expected error for status 403")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected no retries for status 403, got %d requests", got)
	}
}

func TestFetch_RejectsNonHTTPURL(t *testing.T) {
	t.Parallel()

	f := newTestFetcher(t, 0)
	_, _, _, err := f.Fetch(context.Background(), "ftp://example.com/data.csv")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestFetch_HalfOpenSharedFlightClosesCircuit(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	var enterOnce sync.Once
	entered := make(chan struct{})
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			enterOnce.Do(func() { close(entered) })
			<-release
			_, _ = w.Write([]byte(fetchSampleCSV))
		}
	}))
	defer ts.Close()

	f := NewFetcher(FetcherConfig{
		Timeout:    5 * time.Second,
		MaxRetries: 0,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      20 * time.Millisecond,
			HalfOpenMaxReq:   2,
		},
	})

	if _, _, _, err := f.Fetch(context.Background(), ts.URL); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected failure to open the circuit, got %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _, _, errs[0] = f.Fetch(context.Background(), ts.URL)
	}()
	<-entered
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _, _, errs[1] = f.Fetch(context.Background(), ts.URL)
	}()

	// Let the second caller join the in-flight download, then finish it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("half-open fetch %d: %v", i, err)
		}
	}
	if got := f.breaker.State(); got != resilience.CircuitStateClosed {
		t.Fatalf("expected circuit closed after half-open successes, got %s", got)
	}
}

func TestFetch_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	f := NewFetcher(FetcherConfig{
		Timeout:    2 * time.Second,
		MaxRetries: 0,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, _, _, err := f.Fetch(context.Background(), ts.URL); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
	if _, _, _, err := f.Fetch(context.Background(), ts.URL+"/other"); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected circuit to reject the call, got %v", err)
	}
}
