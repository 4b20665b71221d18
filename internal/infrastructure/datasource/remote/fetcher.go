package remote

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/cbratkovics/nba-analytics/internal/domain/playergame"
	"github.com/cbratkovics/nba-analytics/internal/infrastructure/datasource/csvfile"
	"github.com/cbratkovics/nba-analytics/internal/platform/logging"
	"github.com/cbratkovics/nba-analytics/internal/platform/resilience"
	"github.com/cbratkovics/nba-analytics/internal/usecase"
)

const maxBodyBytes = 64 << 20

var errFetchTransient = crerr.New("dataset fetch transient failure")

type FetcherConfig struct {
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Fetcher downloads player-game CSVs over HTTP. Remote dataset hosts
// flake, so requests run behind a circuit breaker with bounded
// retries.
type Fetcher struct {
	client         *fasthttp.Client
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewFetcher(cfg FetcherConfig) *Fetcher {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Fetcher{
		client: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxBodyBytes,
		},
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Fetch downloads and parses the CSV at the given URL. Concurrent
// requests for the same URL share one download.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]playergame.PlayerGame, int, int, error) {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, 0, 0, fmt.Errorf("%w: dataset url must be http or https", usecase.ErrInvalidInput)
	}

	if f.circuitEnabled {
		if err := f.breaker.Allow(); err != nil {
			f.logger.WarnContext(ctx, "dataset fetch rejected by circuit breaker", "state", f.breaker.State())
			return nil, 0, 0, fmt.Errorf("%w: dataset host is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	out, err, _ := f.flight.Do(url, func() (any, error) {
		return f.download(ctx, url)
	})
	// Every caller that passed Allow records an outcome, including the
	// ones that joined an in-flight download, so the half-open request
	// accounting stays balanced.
	if f.circuitEnabled {
		if err != nil && crerr.Is(err, errFetchTransient) {
			f.breaker.RecordFailure()
		} else {
			f.breaker.RecordSuccess()
		}
	}
	if err != nil {
		if crerr.Is(err, errFetchTransient) {
			return nil, 0, 0, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
		}
		return nil, 0, 0, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, 0, 0, fmt.Errorf("unexpected download payload type %T", out)
	}

	result, err := csvfile.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return result.Rows, result.SkippedRows, result.ColumnCount, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		req.SetRequestURI(url)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.Set("Accept", "text/csv")

		err := f.client.DoTimeout(req, resp, f.timeout)
		if err != nil {
			lastErr = crerr.Wrapf(errFetchTransient, "send request: %v", err)
		} else {
			status := resp.StatusCode()
			body := append([]byte(nil), resp.Body()...)
			switch {
			case status >= 200 && status < 300:
				fasthttp.ReleaseRequest(req)
				fasthttp.ReleaseResponse(resp)
				return body, nil
			case isRetryableStatus(status):
				lastErr = crerr.Wrapf(errFetchTransient, "dataset host status=%d", status)
			default:
				fasthttp.ReleaseRequest(req)
				fasthttp.ReleaseResponse(resp)
				return nil, crerr.Newf("dataset host status=%d", status)
			}
		}
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)

		if attempt == f.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case fasthttp.StatusTooManyRequests,
		fasthttp.StatusInternalServerError,
		fasthttp.StatusBadGateway,
		fasthttp.StatusServiceUnavailable,
		fasthttp.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
