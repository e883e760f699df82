package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/devicely/internal/dispatch"
	"github.com/nadzzz/devicely/internal/message"
	"github.com/nadzzz/devicely/internal/provider"
	"github.com/nadzzz/devicely/internal/sanitize"
)

func newRegistry() *provider.Registry {
	r := provider.NewRegistry(provider.Catalog(), provider.Gemini, "")
	r.Initialize(provider.Credentials{provider.Gemini: "k", provider.Groq: "k"})
	return r
}

// echoHandler turns "fail:<kind>" texts into the matching error and
// otherwise returns the text as the script.
func echoHandler(_ context.Context, req *message.ConvertRequest) (*message.ConvertResult, error) {
	if req.ID == "" {
		req.ID = "req-1"
	}
	res := &message.ConvertResult{RequestID: req.ID, Provider: "gemini", Model: "m"}
	switch req.Text {
	case "fail:unavailable":
		return res, fmt.Errorf("%w: no key", dispatch.ErrProviderUnavailable)
	case "fail:upstream":
		return res, &dispatch.ProviderCallError{Provider: provider.Gemini, Model: "m", Err: errors.New("quota")}
	case "fail:platform":
		return res, fmt.Errorf("%w: unknown platform", dispatch.ErrPromptConstruction)
	}
	res.Script, res.Commands = sanitize.Parse(req.Text + "\n" + req.Platform + "|" + req.Provider + "|" + req.Source)
	return res, nil
}

func newServer(t *testing.T) (*httptest.Server, *provider.Registry) {
	t.Helper()
	reg := newRegistry()
	srv := httptest.NewServer(New(0, reg).routes(echoHandler))
	t.Cleanup(srv.Close)
	return srv, reg
}

func TestConvertJSON(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/convert", "application/json",
		strings.NewReader(`{"text":"home","platform":"ios","provider":"groq"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res message.ConvertResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "home\nios|groq|http", res.Script)
	assert.Len(t, res.Commands, 2)
}

func TestConvertPlainText(t *testing.T) {
	srv, _ := newServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/convert?platform=android", strings.NewReader("back"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Devicely-Source", "dashboard")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res message.ConvertResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "back\nandroid||dashboard", res.Script)
}

func TestConvertErrorStatus(t *testing.T) {
	srv, _ := newServer(t)

	tests := []struct {
		text   string
		status int
		code   string
	}{
		{"fail:unavailable", http.StatusServiceUnavailable, "provider_unavailable"},
		{"fail:upstream", http.StatusBadGateway, "provider_call_failed"},
		{"fail:platform", http.StatusBadRequest, "invalid_request"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/convert", "application/json",
				strings.NewReader(fmt.Sprintf(`{"text":%q}`, tt.text)))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			var body errorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "req-1", body.RequestID)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestConvertBadJSON(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Post(srv.URL+"/convert", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProviders(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/providers")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Active    provider.Snapshot `json:"active"`
		Providers []struct {
			ID        provider.ID `json:"id"`
			Available bool        `json:"available"`
		} `json:"providers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, provider.Gemini, body.Active.ID)
	assert.Equal(t, []provider.ID{provider.Gemini, provider.Groq}, body.Active.Available)
	require.Len(t, body.Providers, len(provider.Catalog()))
	for _, p := range body.Providers {
		assert.Equal(t, p.ID == provider.Gemini || p.ID == provider.Groq, p.Available, p.ID)
	}
}

func TestSetActive(t *testing.T) {
	srv, reg := newServer(t)

	put := func(body string) *http.Response {
		req, err := http.NewRequest(http.MethodPut, srv.URL+"/providers/active", strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := put(`{"provider":"Groq","model":"llama-3.1-8b-instant"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snap provider.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, provider.Groq, snap.ID)
	assert.Equal(t, "llama-3.1-8b-instant", snap.Model)

	resp = put(`{"provider":"openai"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, provider.Groq, reg.Current().ID, "rejected switch keeps the previous provider")

	resp = put(`not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebSocket(t *testing.T) {
	srv, _ := newServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"id":"a","text":"home"}`)))
	var res message.ConvertResult
	require.NoError(t, conn.ReadJSON(&res))
	assert.Equal(t, "a", res.RequestID)
	assert.Equal(t, "home\n||ws", res.Script)
	assert.Empty(t, res.Error)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"id":"b","text":"fail:upstream"}`)))
	res = message.ConvertResult{}
	require.NoError(t, conn.ReadJSON(&res))
	assert.Equal(t, "b", res.RequestID)
	assert.Contains(t, res.Error, "quota")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{`)))
	res = message.ConvertResult{}
	require.NoError(t, conn.ReadJSON(&res))
	assert.Contains(t, res.Error, "invalid json")
}

func TestSwaggerDoc(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Contains(t, doc["paths"], "/convert")
}
