// Package http implements the HTTP/WebSocket transport for devicely.
//
// This transport exposes a REST API for conversions and provider selection,
// and a WebSocket endpoint for dashboards that send many requests over one
// connection.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/nadzzz/devicely/docs" // registers the OpenAPI document
	"github.com/nadzzz/devicely/internal/message"
	"github.com/nadzzz/devicely/internal/provider"
	"github.com/nadzzz/devicely/internal/transport"
)

const maxBodyBytes = 1 << 20

// Transport implements transport.Transport over HTTP and WebSocket.
type Transport struct {
	port      int
	providers transport.Providers
	server    *http.Server
	upgrader  websocket.Upgrader
}

// New creates a new HTTP transport on the given port.
func New(port int, providers transport.Providers) *Transport {
	return &Transport{
		port:      port,
		providers: providers,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Listen starts the HTTP server and routes incoming requests to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           t.routes(handler),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

func (t *Transport) routes(handler transport.Handler) http.Handler {
	mux := http.NewServeMux()

	// POST /convert: accepts JSON or plain text, returns the command script.
	mux.HandleFunc("POST /convert", func(w http.ResponseWriter, r *http.Request) {
		t.handleConvert(w, r, handler)
	})

	mux.HandleFunc("GET /providers", t.handleProviders)
	mux.HandleFunc("PUT /providers/active", t.handleSetActive)

	// GET /ws: one JSON ConvertRequest per text frame, one ConvertResult back.
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		t.handleWebSocket(w, r, handler)
	})

	// Swagger UI: serves the registered OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// providersBody is the response of GET /providers.
type providersBody struct {
	Active    provider.Snapshot `json:"active"`
	Providers []providerEntry   `json:"providers"`
}

type providerEntry struct {
	provider.Descriptor
	Available bool `json:"available"`
}

// handleConvert processes a POST /convert request.
//
// @Summary     Convert an instruction into a command script
// @Description Accepts a JSON ConvertRequest, or the instruction as a text/plain body with
// @Description platform and provider passed as query parameters. The instruction is sent to the
// @Description selected language model and its reply is sanitized into one command per line.
// @Tags        convert
// @Accept      json
// @Accept      plain
// @Produce     json
// @Param       request   body      message.ConvertRequest  true   "Conversion request"
// @Param       platform  query     string                  false  "ios, android or both (text/plain bodies)"
// @Param       provider  query     string                  false  "Provider override (text/plain bodies)"
// @Param       X-Devicely-Source  header  string  false  "Sender identifier"
// @Success     200  {object}  message.ConvertResult  "Command script"
// @Failure     400  {object}  errorBody  "Invalid request"
// @Failure     502  {object}  errorBody  "Provider call failed"
// @Failure     503  {object}  errorBody  "No usable provider"
// @Router      /convert [post]
func (t *Transport) handleConvert(w http.ResponseWriter, r *http.Request, handler transport.Handler) {
	var req message.ConvertRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "application/json"):
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid json: "+err.Error(), "")
			return
		}
	default:
		// Treat body as the instruction text; options come from the query.
		text, err := io.ReadAll(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "reading body: "+err.Error(), "")
			return
		}
		req.Text = string(text)
		req.Platform = r.URL.Query().Get("platform")
		req.Provider = r.URL.Query().Get("provider")
	}
	if src := r.Header.Get("X-Devicely-Source"); src != "" {
		req.Source = src
	}
	if req.Source == "" {
		req.Source = "http"
	}

	result, err := handler(r.Context(), &req)
	if err != nil {
		failure := transport.Classify(err)
		slog.Error("convert failed", "error", err, "code", failure.String())
		writeError(w, statusFor(failure), failure.String(), err.Error(), req.ID)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleProviders returns the active provider and the catalog.
//
// @Summary     List providers
// @Description Returns the active provider with its resolved model and every known provider with its availability.
// @Tags        providers
// @Produce     json
// @Success     200  {object}  providersBody
// @Router      /providers [get]
func (t *Transport) handleProviders(w http.ResponseWriter, _ *http.Request) {
	all := t.providers.All()
	out := providersBody{
		Active:    t.providers.Current(),
		Providers: make([]providerEntry, 0, len(all)),
	}
	for _, d := range all {
		out.Providers = append(out.Providers, providerEntry{Descriptor: d, Available: t.providers.IsAvailable(d.ID)})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSetActive switches the active provider.
//
// @Summary     Select the active provider
// @Description Makes the provider active for subsequent requests. A provider without a credential is rejected
// @Description and the previous selection is kept.
// @Tags        providers
// @Accept      json
// @Produce     json
// @Param       request  body      message.SetActiveRequest  true  "Provider and optional model"
// @Success     200  {object}  provider.Snapshot
// @Failure     400  {object}  errorBody  "Invalid request body"
// @Failure     409  {object}  errorBody  "Provider has no credential"
// @Router      /providers/active [put]
func (t *Transport) handleSetActive(w http.ResponseWriter, r *http.Request) {
	var req message.SetActiveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json: "+err.Error(), "")
		return
	}

	id := provider.NormalizeID(req.Provider)
	if !t.providers.SetActive(id, req.Model) {
		writeError(w, http.StatusConflict, "provider_unavailable",
			fmt.Sprintf("provider %q is not available", req.Provider), "")
		return
	}

	slog.Info("active provider changed", "provider", id, "model", req.Model)
	writeJSON(w, http.StatusOK, t.providers.Current())
}

// handleWebSocket serves GET /ws.
//
// @Summary     Stream conversions over WebSocket
// @Description Each text frame is a JSON ConvertRequest and is answered with a JSON ConvertResult.
// @Description Failures are reported in the result's error field and the connection stays open.
// @Tags        convert
// @Router      /ws [get]
func (t *Transport) handleWebSocket(w http.ResponseWriter, r *http.Request, handler transport.Handler) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	ctx := r.Context()
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	logger := slog.With("remote", r.RemoteAddr)
	logger.Debug("websocket connected")

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		result := t.convertFrame(ctx, data, handler)
		if err := conn.WriteJSON(result); err != nil {
			logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}

func (t *Transport) convertFrame(ctx context.Context, data []byte, handler transport.Handler) *message.ConvertResult {
	var req message.ConvertRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return &message.ConvertResult{Error: "invalid json: " + err.Error()}
	}
	if req.Source == "" {
		req.Source = "ws"
	}

	result, err := handler(ctx, &req)
	if err != nil {
		if result == nil {
			result = &message.ConvertResult{RequestID: req.ID}
		}
		result.Error = err.Error()
	}
	return result
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return t.server.Shutdown(ctx)
	}
	return nil
}

func statusFor(f transport.Failure) int {
	switch f {
	case transport.FailureInvalid:
		return http.StatusBadRequest
	case transport.FailureUnavailable:
		return http.StatusServiceUnavailable
	case transport.FailureUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg, requestID string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code, RequestID: requestID})
}
