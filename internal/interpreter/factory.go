package interpreter

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nadzzz/devicely/internal/provider"
)

// ErrNoBuilder is returned when no backend is registered for a protocol.
var ErrNoBuilder = errors.New("no backend for protocol")

// Builder constructs a backend for a provider descriptor.
type Builder func(d provider.Descriptor, cfg Config) (Interpreter, error)

// Factory builds backends on first use and caches them per provider.
type Factory struct {
	creds    provider.Credentials
	timeout  time.Duration
	limits   map[provider.ID]RateLimit
	baseURLs map[provider.ID]string

	mu       sync.Mutex
	builders map[provider.Protocol]Builder
	built    map[provider.ID]Interpreter
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithTimeout sets the per-request timeout passed to builders.
func WithTimeout(d time.Duration) FactoryOption {
	return func(f *Factory) { f.timeout = d }
}

// WithRateLimits sets per-provider request limits.
func WithRateLimits(limits map[provider.ID]RateLimit) FactoryOption {
	return func(f *Factory) { f.limits = limits }
}

// WithBaseURLs overrides provider endpoints, e.g. to point at a proxy.
func WithBaseURLs(urls map[provider.ID]string) FactoryOption {
	return func(f *Factory) { f.baseURLs = urls }
}

// NewFactory creates a Factory that hands each builder the provider's
// credential from creds.
func NewFactory(creds provider.Credentials, opts ...FactoryOption) *Factory {
	f := &Factory{
		creds:    creds,
		timeout:  30 * time.Second,
		builders: make(map[provider.Protocol]Builder),
		built:    make(map[provider.ID]Interpreter),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Register installs the builder for a protocol, replacing any previous one.
func (f *Factory) Register(p provider.Protocol, b Builder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[p] = b
}

// Get returns the backend for d, building it on first use.
func (f *Factory) Get(d provider.Descriptor) (Interpreter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if in, ok := f.built[d.ID]; ok {
		return in, nil
	}

	build, ok := f.builders[d.Protocol]
	if !ok {
		return nil, fmt.Errorf("%w %q (provider %s)", ErrNoBuilder, d.Protocol, d.ID)
	}

	in, err := build(d, Config{
		Credential: f.creds[d.ID],
		BaseURL:    f.baseURLs[d.ID],
		Timeout:    f.timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("building %s backend: %w", d.ID, err)
	}
	in = WithRateLimit(in, f.limits[d.ID])

	slog.Debug("backend ready", "provider", d.ID, "protocol", d.Protocol)
	f.built[d.ID] = in
	return in, nil
}

// Close closes every backend built so far.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for id, in := range f.built {
		if err := in.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", id, err))
		}
		delete(f.built, id)
	}
	return errors.Join(errs...)
}
