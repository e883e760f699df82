// Package dispatch implements the conversion pipeline.
//
// The converter receives a natural-language request from a transport,
// selects a provider from the registry, assembles the prompt, calls the
// provider's backend and sanitizes the reply into a command script. The
// registry is read once at the start of each call; a concurrent SetActive
// affects only later calls.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nadzzz/devicely/internal/apps"
	"github.com/nadzzz/devicely/internal/cache"
	"github.com/nadzzz/devicely/internal/errtrack"
	"github.com/nadzzz/devicely/internal/interpreter"
	"github.com/nadzzz/devicely/internal/message"
	"github.com/nadzzz/devicely/internal/metrics"
	"github.com/nadzzz/devicely/internal/prompt"
	"github.com/nadzzz/devicely/internal/provider"
	"github.com/nadzzz/devicely/internal/sanitize"
)

var (
	// ErrProviderUnavailable means neither the requested nor the active
	// provider has a credential or a backend.
	ErrProviderUnavailable = provider.ErrUnavailable

	// ErrPromptConstruction means the prompt could not be built.
	ErrPromptConstruction = prompt.ErrPromptConstruction

	// ErrProviderCallFailed matches any *ProviderCallError.
	ErrProviderCallFailed = errors.New("provider call failed")

	// ErrEmptyText is returned for a request with no instruction text.
	ErrEmptyText = errors.New("request has no text")
)

// ProviderCallError wraps a backend failure with the provider and model
// that produced it.
type ProviderCallError struct {
	Provider provider.ID
	Model    string
	Err      error
}

func (e *ProviderCallError) Error() string {
	return fmt.Sprintf("%s (%s/%s): %v", ErrProviderCallFailed, e.Provider, e.Model, e.Err)
}

// Is makes errors.Is(err, ErrProviderCallFailed) true.
func (e *ProviderCallError) Is(target error) bool { return target == ErrProviderCallFailed }

func (e *ProviderCallError) Unwrap() error { return e.Err }

// Backends resolves the backend for a provider.
type Backends interface {
	Get(d provider.Descriptor) (interpreter.Interpreter, error)
}

// Converter compiles natural-language requests into command scripts.
type Converter struct {
	registry *provider.Registry
	backends Backends
	table    apps.Table

	temperature float64
	maxTokens   int

	cache    cache.Cache
	cacheTTL time.Duration
	reporter errtrack.Reporter
}

// Option configures a Converter.
type Option func(*Converter)

// WithGeneration overrides the sampling temperature and output token cap.
func WithGeneration(temperature float64, maxOutputTokens int) Option {
	return func(c *Converter) {
		c.temperature = temperature
		if maxOutputTokens > 0 {
			c.maxTokens = maxOutputTokens
		}
	}
}

// WithCache enables the response cache.
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Converter) {
		c.cache = cc
		c.cacheTTL = ttl
	}
}

// WithReporter sends provider call failures to r.
func WithReporter(r errtrack.Reporter) Option {
	return func(c *Converter) { c.reporter = r }
}

// New creates a Converter.
func New(registry *provider.Registry, backends Backends, table apps.Table, opts ...Option) *Converter {
	c := &Converter{
		registry:    registry,
		backends:    backends,
		table:       table,
		temperature: interpreter.DefaultTemperature,
		maxTokens:   interpreter.DefaultMaxOutputTokens,
		cache:       cache.Noop{},
		reporter:    errtrack.Noop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the provider registry the converter reads from.
func (c *Converter) Registry() *provider.Registry { return c.registry }

// Convert runs one request through the pipeline.
func (c *Converter) Convert(ctx context.Context, req *message.ConvertRequest) (*message.ConvertResult, error) {
	start := time.Now()
	requestID := req.ID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	logger := slog.With("request_id", requestID, "source", req.Source)

	result := &message.ConvertResult{RequestID: requestID}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return result, ErrEmptyText
	}

	platform, err := prompt.ParsePlatform(req.Platform)
	if err != nil {
		metrics.RecordConversion("", "prompt_error", time.Since(start), 0)
		return result, err
	}

	sel, err := c.registry.Select(provider.NormalizeID(req.Provider))
	if err != nil {
		logger.Warn("no usable provider", "requested", req.Provider, "error", err)
		metrics.RecordConversion(c.providerLabel(req.Provider), "unavailable", time.Since(start), 0)
		return result, err
	}
	pid := sel.Descriptor.ID
	result.Provider = string(pid)
	result.Model = sel.Model
	logger = logger.With("provider", pid, "model", sel.Model)

	backend, err := c.backends.Get(sel.Descriptor)
	if err != nil {
		logger.Error("backend unavailable", "error", err)
		metrics.RecordConversion(string(pid), "unavailable", time.Since(start), 0)
		return result, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	systemPrompt, err := prompt.Assemble(text, platform, c.table)
	if err != nil {
		logger.Error("prompt construction failed", "error", err)
		metrics.RecordConversion(string(pid), "prompt_error", time.Since(start), 0)
		return result, err
	}

	logger.Info("convert started", "platform", platform, "text_length", len(text))

	key := cache.Key(string(pid), sel.Model, systemPrompt, text)
	if hit, ok := c.lookup(ctx, logger, key); ok {
		result.Script, result.Commands = sanitize.Parse(hit.Script)
		result.Model = hit.Model
		result.FellBack = hit.FellBack
		result.Cached = true
		result.Duration = time.Since(start)
		metrics.RecordConversion(string(pid), "success", result.Duration, len(result.Commands))
		logger.Info("convert complete", "cached", true, "lines", len(result.Commands))
		return result, nil
	}

	raw, model, fellBack, err := c.complete(ctx, logger, backend, sel, systemPrompt, text)
	result.Duration = time.Since(start)
	if err != nil {
		metrics.RecordConversion(string(pid), "call_failed", result.Duration, 0)
		c.reporter.CaptureError(ctx, err, map[string]string{
			"provider":   string(pid),
			"model":      model,
			"request_id": requestID,
		})
		return result, err
	}

	result.Model = model
	result.FellBack = fellBack
	result.Script, result.Commands = sanitize.Parse(raw)

	if result.Script != "" {
		c.store(ctx, logger, key, cachedScript{Script: result.Script, Model: model, FellBack: fellBack})
	}

	metrics.RecordConversion(string(pid), "success", result.Duration, len(result.Commands))
	logger.Info("convert complete",
		"duration", result.Duration,
		"lines", len(result.Commands),
		"fell_back", fellBack)
	return result, nil
}

// complete calls the backend with the resolved model and, when the
// descriptor names a different fallback model, retries exactly once.
func (c *Converter) complete(ctx context.Context, logger *slog.Logger, backend interpreter.Interpreter,
	sel provider.Selection, systemPrompt, text string) (raw, model string, fellBack bool, err error) {

	opts := interpreter.Options{
		Model:           sel.Model,
		Temperature:     c.temperature,
		MaxOutputTokens: c.maxTokens,
	}

	raw, err = backend.Complete(ctx, systemPrompt, text, opts)
	metrics.RecordBackendCall(string(sel.Descriptor.ID), opts.Model, err)
	if err == nil {
		return raw, opts.Model, false, nil
	}

	fallback := sel.Descriptor.FallbackModel
	if fallback == "" || fallback == sel.Model || ctx.Err() != nil {
		logger.Error("provider call failed", "error", err)
		return "", opts.Model, false, &ProviderCallError{Provider: sel.Descriptor.ID, Model: opts.Model, Err: err}
	}

	logger.Warn("primary model failed, retrying with fallback", "fallback_model", fallback, "error", err)
	metrics.Fallbacks.WithLabelValues(string(sel.Descriptor.ID)).Inc()

	opts.Model = fallback
	raw, err = backend.Complete(ctx, systemPrompt, text, opts)
	metrics.RecordBackendCall(string(sel.Descriptor.ID), opts.Model, err)
	if err != nil {
		logger.Error("fallback model failed", "error", err)
		return "", opts.Model, true, &ProviderCallError{Provider: sel.Descriptor.ID, Model: opts.Model, Err: err}
	}
	return raw, opts.Model, true, nil
}

// cachedScript is the cache value: the script plus the model that produced
// it, which differs from the key's model after a fallback.
type cachedScript struct {
	Script   string `json:"script"`
	Model    string `json:"model"`
	FellBack bool   `json:"fell_back,omitempty"`
}

func (c *Converter) lookup(ctx context.Context, logger *slog.Logger, key string) (cachedScript, bool) {
	var hit cachedScript
	value, ok, err := c.cache.Get(ctx, key)
	if err == nil && ok {
		err = json.Unmarshal([]byte(value), &hit)
	}
	switch {
	case err != nil:
		logger.Warn("cache lookup failed", "error", err)
		metrics.CacheLookups.WithLabelValues("error").Inc()
		return cachedScript{}, false
	case ok:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return hit, true
	default:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return cachedScript{}, false
	}
}

func (c *Converter) store(ctx context.Context, logger *slog.Logger, key string, entry cachedScript) {
	value, err := json.Marshal(entry)
	if err != nil {
		logger.Warn("cache encode failed", "error", err)
		return
	}
	if err := c.cache.Set(ctx, key, string(value), c.cacheTTL); err != nil {
		logger.Warn("cache store failed", "error", err)
	}
}

// providerLabel bounds the provider metric label to catalog IDs.
func (c *Converter) providerLabel(requested string) string {
	if strings.TrimSpace(requested) == "" {
		return string(c.registry.Current().ID)
	}
	if d, ok := c.registry.Descriptor(provider.NormalizeID(requested)); ok {
		return string(d.ID)
	}
	return "unknown"
}
