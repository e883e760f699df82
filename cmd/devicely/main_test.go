package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/devicely/internal/apps"
	"github.com/nadzzz/devicely/internal/config"
	"github.com/nadzzz/devicely/internal/grammar"
	"github.com/nadzzz/devicely/internal/message"
	"github.com/nadzzz/devicely/internal/provider"
)

func groqServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "llama-3.3-70b-versatile",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "` + "```" + `\nok\n` + "```" + `\nlaunch chrome\nWAIT 3000\nswipe down"}}]
		}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		AI: config.AIConfig{
			Provider:        "groq",
			Temperature:     0.3,
			MaxOutputTokens: 500,
			Timeout:         5 * time.Second,
			BaseURLs:        map[string]string{"groq": baseURL},
		},
		Cache: config.CacheConfig{Enabled: true, Backend: "memory", TTL: time.Minute},
	}
}

func TestAppConvertsThroughConfiguredBackend(t *testing.T) {
	var calls atomic.Int32
	srv := groqServer(t, &calls)

	a, err := newApp(context.Background(), testConfig(srv.URL), provider.Credentials{provider.Groq: "gsk_test"})
	require.NoError(t, err)
	defer a.close()

	assert.Equal(t, provider.Groq, a.registry.Current().ID)

	req := func() *message.ConvertRequest {
		return &message.ConvertRequest{Text: "open chrome and scroll down", Platform: "both"}
	}
	res, err := a.converter.Convert(context.Background(), req())
	require.NoError(t, err)
	assert.Equal(t, "launch chrome\nWAIT 3000\nswipe down", res.Script)
	assert.Equal(t, "groq", res.Provider)

	res, err = a.converter.Convert(context.Background(), req())
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.Equal(t, int32(1), calls.Load(), "second call served from cache")
}

func TestAppWithoutCredentials(t *testing.T) {
	a, err := newApp(context.Background(), testConfig("http://127.0.0.1:1"), nil)
	require.NoError(t, err)
	defer a.close()

	_, err = a.converter.Convert(context.Background(), &message.ConvertRequest{Text: "home"})
	assert.Error(t, err)
	assert.False(t, a.registry.Current().Usable)
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, &message.ConvertResult{
		Provider: "gemini",
		Model:    "gemini-2.5-flash",
		FellBack: true,
		Commands: []grammar.Command{
			grammar.Classify("launch chrome"),
			grammar.Classify("WAIT 3000"),
		},
	})

	out := buf.String()
	assert.Contains(t, out, "launch chrome")
	assert.Contains(t, out, "WAIT 3000")
	assert.Contains(t, out, "gemini-2.5-flash")
	assert.Contains(t, out, "fallback model")
}

func TestResolveLaunches(t *testing.T) {
	res := &message.ConvertResult{}
	res.Script = "launch settings\nWAIT 1000\nlaunch safari\nlaunch unknownapp"
	res.Commands = grammar.ClassifyAll(res.Script)

	resolveLaunches(apps.Default(), res, "android")

	assert.Equal(t, "launch com.android.settings\nWAIT 1000\nlaunch safari\nlaunch unknownapp", res.Script)
	require.Len(t, res.Commands, 4)
	assert.Equal(t, "com.android.settings", res.Commands[0].Arg)
	assert.Equal(t, grammar.Keyword, res.Commands[0].Category)
}

func TestConvertRejectsBadResolvePlatform(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"convert", "open settings", "--resolve", "windows"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--resolve")
}

func TestPrintProviders(t *testing.T) {
	reg := provider.NewRegistry(provider.Catalog(), provider.Gemini, "")
	reg.Initialize(provider.Credentials{provider.Gemini: "k"})

	var buf bytes.Buffer
	printProviders(&buf, reg)
	out := buf.String()
	for _, d := range provider.Catalog() {
		assert.Contains(t, out, d.CredentialEnv)
	}
	assert.Contains(t, out, "(active)")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "devicely "+version+"\n", buf.String())
}
