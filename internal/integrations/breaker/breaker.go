// Package breaker puts a gobreaker circuit around an http.RoundTripper so every
// provider client trips independently when its upstream keeps failing.
package breaker

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/BearBump/VesselBrief/internal/metrics"
	"github.com/pkg/errors"
	gobreaker "github.com/sony/gobreaker/v2"
)

var errUpstreamStatus = errors.New("upstream 5xx")

type Settings struct {
	// MinRequests in the current interval before the failure ratio is considered.
	MinRequests uint32
	// FailureRatio at or above which the circuit opens.
	FailureRatio float64
	Interval     time.Duration
	OpenTimeout  time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		MinRequests:  5,
		FailureRatio: 0.6,
		Interval:     time.Minute,
		OpenTimeout:  30 * time.Second,
	}
}

type Transport struct {
	next http.RoundTripper
	cb   *gobreaker.CircuitBreaker[*http.Response]
}

func NewTransport(name string, next http.RoundTripper, s Settings) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	def := DefaultSettings()
	if s.MinRequests == 0 {
		s.MinRequests = def.MinRequests
	}
	if s.FailureRatio <= 0 {
		s.FailureRatio = def.FailureRatio
	}
	if s.Interval <= 0 {
		s.Interval = def.Interval
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = def.OpenTimeout
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    s.Interval,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			if c.Requests < s.MinRequests {
				return false
			}
			return float64(c.TotalFailures)/float64(c.Requests) >= s.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Transport{next: next, cb: cb}
}

// NewClient is a convenience for an *http.Client with a per-call timeout and
// the breaker in front of the default transport.
func NewClient(name string, timeout time.Duration, s Settings) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(name, http.DefaultTransport, s),
	}
}

// RoundTrip counts transport errors and 5xx answers as failures. A 5xx response
// is still handed back to the caller; an open circuit is returned as an error.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.cb.Execute(func() (*http.Response, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return resp, errUpstreamStatus
		}
		return resp, nil
	})
	if errors.Is(err, errUpstreamStatus) {
		return resp, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "circuit breaker")
	}
	return resp, nil
}

func (t *Transport) State() gobreaker.State {
	return t.cb.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
