// Package transport defines the interface for pluggable request transports.
//
// Each transport (gRPC, HTTP/WebSocket, MQTT) implements this interface and
// hands incoming requests to the converter. The converter doesn't care how
// requests arrive; it only works with the Handler contract.
package transport

import (
	"context"
	"errors"

	"github.com/nadzzz/devicely/internal/dispatch"
	"github.com/nadzzz/devicely/internal/message"
	"github.com/nadzzz/devicely/internal/provider"
)

// Handler processes an incoming conversion request and returns the result.
// The daemon provides this handler to each transport.
type Handler func(ctx context.Context, req *message.ConvertRequest) (*message.ConvertResult, error)

// Providers is the part of the provider registry that transports expose.
type Providers interface {
	Current() provider.Snapshot
	All() []provider.Descriptor
	IsAvailable(id provider.ID) bool
	SetActive(id provider.ID, model string) bool
}

// Transport is the interface that every transport adapter must implement.
type Transport interface {
	// Name returns the transport identifier (e.g., "grpc", "http", "mqtt").
	Name() string

	// Listen starts accepting requests and passes them to the handler.
	// It blocks until the context is cancelled.
	Listen(ctx context.Context, handler Handler) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}

// Failure groups conversion errors by who has to act on them.
type Failure int

const (
	// FailureInternal is anything not listed below.
	FailureInternal Failure = iota
	// FailureInvalid is a bad request: empty text, unknown platform, oversize prompt.
	FailureInvalid
	// FailureUnavailable means no provider has a credential or backend.
	FailureUnavailable
	// FailureUpstream means the provider was called and failed.
	FailureUpstream
)

// String returns the wire code for f.
func (f Failure) String() string {
	switch f {
	case FailureInvalid:
		return "invalid_request"
	case FailureUnavailable:
		return "provider_unavailable"
	case FailureUpstream:
		return "provider_call_failed"
	default:
		return "internal"
	}
}

// Classify maps a converter error to a Failure.
func Classify(err error) Failure {
	switch {
	case errors.Is(err, dispatch.ErrProviderCallFailed):
		return FailureUpstream
	case errors.Is(err, dispatch.ErrProviderUnavailable):
		return FailureUnavailable
	case errors.Is(err, dispatch.ErrPromptConstruction), errors.Is(err, dispatch.ErrEmptyText):
		return FailureInvalid
	default:
		return FailureInternal
	}
}
