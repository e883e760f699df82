package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/devicely/internal/interpreter"
	"github.com/nadzzz/devicely/internal/provider"
)

func TestCompleteSendsSinglePrompt(t *testing.T) {
	var path string
	var body struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
		GenerationConfig struct {
			Temperature     float64 `json:"temperature"`
			MaxOutputTokens int     `json:"maxOutputTokens"`
		} `json:"generationConfig"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"role": "model",
			"parts": [{"text": "launch chrome\nWAIT 3000\nswipe down\n"}]}}]}`))
	}))
	defer srv.Close()

	d := provider.Descriptor{ID: provider.Gemini, BaseURL: srv.URL}
	in, err := New(context.Background(), d, interpreter.Config{Credential: "AIza-test"})
	require.NoError(t, err)

	out, err := in.Complete(context.Background(), "FULL PROMPT with open chrome", "open chrome", interpreter.Options{
		Model:           "gemini-2.5-flash",
		Temperature:     0.3,
		MaxOutputTokens: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, "launch chrome\nWAIT 3000\nswipe down", out)

	assert.True(t, strings.HasSuffix(path, "models/gemini-2.5-flash:generateContent"), path)
	require.Len(t, body.Contents, 1)
	require.Len(t, body.Contents[0].Parts, 1)
	assert.Equal(t, "FULL PROMPT with open chrome", body.Contents[0].Parts[0].Text)
	assert.InDelta(t, 0.3, body.GenerationConfig.Temperature, 1e-6)
	assert.Equal(t, 500, body.GenerationConfig.MaxOutputTokens)
}

func TestCompleteModelError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": {"code": 404, "message": "model not found", "status": "NOT_FOUND"}}`))
	}))
	defer srv.Close()

	in, err := New(context.Background(), provider.Descriptor{ID: provider.Gemini, BaseURL: srv.URL},
		interpreter.Config{Credential: "k"})
	require.NoError(t, err)

	_, err = in.Complete(context.Background(), "p", "u", interpreter.Options{Model: "gemini-3-flash-preview"})
	assert.Error(t, err)
}
