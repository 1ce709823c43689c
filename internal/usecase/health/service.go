// Package health reports service liveness: store connectivity plus the
// indexed document count.
package health

import (
	"context"

	"github.com/quaero-io/quaero/internal/version"
)

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Counter counts stored documents.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Status is a health snapshot.
type Status struct {
	Healthy   bool
	Version   string
	Documents int
	Err       error
}

// Service aggregates health checks.
type Service struct {
	pinger  Pinger
	counter Counter
}

// New creates a health service.
func New(pinger Pinger, counter Counter) *Service {
	return &Service{pinger: pinger, counter: counter}
}

// Check pings the store and counts documents. A failing store yields an
// unhealthy status carrying the error, not a call failure.
func (s *Service) Check(ctx context.Context) Status {
	st := Status{Version: version.Version}

	if err := s.pinger.Ping(ctx); err != nil {
		st.Err = err
		return st
	}

	n, err := s.counter.Count(ctx)
	if err != nil {
		st.Err = err
		return st
	}

	st.Healthy = true
	st.Documents = n
	return st
}
