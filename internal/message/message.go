// Package message defines the request and result types that flow between
// transports and the converter.
package message

import (
	"time"

	"github.com/nadzzz/devicely/internal/grammar"
)

// ConvertRequest asks for a natural-language instruction to be compiled
// into a command script.
type ConvertRequest struct {
	// ID is a caller-supplied identifier. One is generated when empty.
	ID string `json:"id,omitempty"`

	// Source identifies the sender (e.g., "cli", "dashboard", "mqtt:lab-01").
	Source string `json:"source,omitempty"`

	// Text is the natural-language instruction, e.g. "open chrome and scroll down".
	Text string `json:"text"`

	// Platform is "ios", "android", "both" or empty.
	Platform string `json:"platform,omitempty"`

	// Provider overrides the active provider for this request only. It is
	// ignored when that provider has no credential.
	Provider string `json:"provider,omitempty"`
}

// ConvertResult is the outcome of one conversion.
type ConvertResult struct {
	// RequestID echoes or assigns the request identifier.
	RequestID string `json:"request_id"`

	// Provider and Model are the backend that produced Script. When a
	// fallback model answered, Model is the fallback.
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`

	// Script is the sanitized, newline-separated command script.
	Script string `json:"script"`

	// Commands is Script classified line by line.
	Commands []grammar.Command `json:"commands"`

	// FellBack is set when the primary model failed and the fallback answered.
	FellBack bool `json:"fell_back,omitempty"`

	// Cached is set when the script came from the response cache.
	Cached bool `json:"cached,omitempty"`

	Duration time.Duration `json:"duration_ns"`

	// Error is set by transports that report failures in-band.
	Error string `json:"error,omitempty"`
}

// SetActiveRequest selects the active provider and, optionally, its model.
type SetActiveRequest struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}
