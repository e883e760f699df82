package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nadzzz/devicely/internal/dispatch"
	"github.com/nadzzz/devicely/internal/message"
	"github.com/nadzzz/devicely/internal/provider"
	"github.com/nadzzz/devicely/internal/sanitize"
)

func handler(_ context.Context, req *message.ConvertRequest) (*message.ConvertResult, error) {
	switch req.Text {
	case "fail:upstream":
		return nil, &dispatch.ProviderCallError{Provider: provider.Gemini, Model: "m", Err: errors.New("quota")}
	case "fail:unavailable":
		return nil, dispatch.ErrProviderUnavailable
	case "":
		return nil, dispatch.ErrEmptyText
	}
	res := &message.ConvertResult{RequestID: "r1", Provider: "gemini", Model: "m"}
	res.Script, res.Commands = sanitize.Parse(req.Text + "\n" + req.Platform + "|" + req.Source)
	return res, nil
}

func dial(t *testing.T) (*grpc.ClientConn, *provider.Registry) {
	t.Helper()

	reg := provider.NewRegistry(provider.Catalog(), provider.Gemini, "")
	reg.Initialize(provider.Credentials{provider.Gemini: "k", provider.Claude: "k"})

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	tr := New(0, reg)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = tr.Serve(ctx, lis, handler)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("grpc server did not stop")
		}
	})
	return conn, reg
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestConvert(t *testing.T) {
	conn, _ := dial(t)

	out := new(structpb.Struct)
	err := conn.Invoke(context.Background(), ConvertMethod,
		mustStruct(t, map[string]any{"text": "home", "platform": "ios"}), out)
	require.NoError(t, err)

	m := out.AsMap()
	assert.Equal(t, "home\nios|grpc", m["script"])
	assert.Equal(t, "gemini", m["provider"])
	cmds, ok := m["commands"].([]any)
	require.True(t, ok)
	assert.Len(t, cmds, 2)
}

func TestConvertErrorCodes(t *testing.T) {
	conn, _ := dial(t)

	tests := []struct {
		text string
		code codes.Code
	}{
		{"fail:upstream", codes.Unavailable},
		{"fail:unavailable", codes.FailedPrecondition},
		{"", codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := conn.Invoke(context.Background(), ConvertMethod,
				mustStruct(t, map[string]any{"text": tt.text}), new(structpb.Struct))
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestProviderMethods(t *testing.T) {
	conn, reg := dial(t)

	out := new(structpb.Struct)
	require.NoError(t, conn.Invoke(context.Background(), ListProvidersMethod, &structpb.Struct{}, out))
	assert.Equal(t, "gemini", out.AsMap()["provider"])

	out = new(structpb.Struct)
	require.NoError(t, conn.Invoke(context.Background(), SetActiveMethod,
		mustStruct(t, map[string]any{"provider": "anthropic"}), out))
	assert.Equal(t, "claude", out.AsMap()["provider"])
	assert.Equal(t, provider.Claude, reg.Current().ID)

	err := conn.Invoke(context.Background(), SetActiveMethod,
		mustStruct(t, map[string]any{"provider": "openai"}), new(structpb.Struct))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	assert.Equal(t, provider.Claude, reg.Current().ID)
}

func TestHealth(t *testing.T) {
	conn, _ := dial(t)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
