// Package errtrack reports conversion failures to an error tracker.
package errtrack

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter receives failures worth a human's attention.
type Reporter interface {
	CaptureError(ctx context.Context, err error, tags map[string]string)
	Flush(timeout time.Duration)
}

// Noop discards everything.
type Noop struct{}

func (Noop) CaptureError(context.Context, error, map[string]string) {}
func (Noop) Flush(time.Duration)                                    {}

// Sentry reports to Sentry.
type Sentry struct {
	hub *sentry.Hub
}

// NewSentry initialises the Sentry SDK.
func NewSentry(dsn, environment, release string) (*Sentry, error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	})
	if err != nil {
		return nil, err
	}
	return &Sentry{hub: sentry.CurrentHub()}, nil
}

// CaptureError sends err with tags on a cloned hub.
func (s *Sentry) CaptureError(_ context.Context, err error, tags map[string]string) {
	if err == nil {
		return
	}
	hub := s.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
	})
	hub.CaptureException(err)
}

// Flush waits for buffered events to be sent.
func (s *Sentry) Flush(timeout time.Duration) {
	s.hub.Flush(timeout)
}
