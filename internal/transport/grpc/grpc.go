// Package grpc implements the gRPC transport for devicely.
//
// The service is devicely.v1.Converter. Requests and responses are
// google.protobuf.Struct values carrying the same fields as the JSON API, so
// clients need no generated stubs. The standard grpc.health.v1 service is
// registered alongside it.
package grpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nadzzz/devicely/internal/message"
	"github.com/nadzzz/devicely/internal/provider"
	"github.com/nadzzz/devicely/internal/transport"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "devicely.v1.Converter"

// Full method names, usable with grpc.ClientConn.Invoke.
const (
	ConvertMethod       = "/" + ServiceName + "/Convert"
	ListProvidersMethod = "/" + ServiceName + "/ListProviders"
	SetActiveMethod     = "/" + ServiceName + "/SetActiveProvider"
)

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port      int
	providers transport.Providers
	server    *grpc.Server
	health    *health.Server
}

// New creates a new gRPC transport on the given port.
func New(port int, providers transport.Providers) *Transport {
	return &Transport{port: port, providers: providers}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

// Listen starts the gRPC server and routes incoming requests to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	slog.Info("grpc transport listening", "port", t.port)
	return t.Serve(ctx, lis, handler)
}

// Serve runs the server on lis until ctx is cancelled.
func (t *Transport) Serve(ctx context.Context, lis net.Listener, handler transport.Handler) error {
	t.server = grpc.NewServer()
	t.server.RegisterService(&serviceDesc, &converterService{handler: handler, providers: t.providers})

	t.health = health.NewServer()
	t.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	t.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(t.server, t.health)

	go func() {
		<-ctx.Done()
		slog.Info("grpc transport shutting down")
		t.health.Shutdown()
		t.server.GracefulStop()
	}()

	return t.server.Serve(lis)
}

// Close gracefully stops the gRPC server.
func (t *Transport) Close() error {
	if t.health != nil {
		t.health.Shutdown()
	}
	if t.server != nil {
		t.server.GracefulStop()
	}
	return nil
}

// converterServer is the handler type of serviceDesc.
type converterServer interface {
	Convert(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	ListProviders(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	SetActiveProvider(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type converterService struct {
	handler   transport.Handler
	providers transport.Providers
}

func (s *converterService) Convert(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req message.ConvertRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decoding request: %v", err)
	}
	if req.Source == "" {
		req.Source = "grpc"
	}

	result, err := s.handler(ctx, &req)
	if err != nil {
		failure := transport.Classify(err)
		slog.Error("convert failed", "error", err, "code", failure.String())
		return nil, status.Error(codeFor(failure), err.Error())
	}
	return toStruct(result)
}

func (s *converterService) ListProviders(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return toStruct(s.providers.Current())
}

func (s *converterService) SetActiveProvider(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req message.SetActiveRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decoding request: %v", err)
	}
	if !s.providers.SetActive(provider.NormalizeID(req.Provider), req.Model) {
		return nil, status.Errorf(codes.FailedPrecondition, "provider %q is not available", req.Provider)
	}
	return toStruct(s.providers.Current())
}

func codeFor(f transport.Failure) codes.Code {
	switch f {
	case transport.FailureInvalid:
		return codes.InvalidArgument
	case transport.FailureUnavailable:
		return codes.FailedPrecondition
	case transport.FailureUpstream:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// fromStruct decodes a Struct into v through its JSON field names.
func fromStruct(in *structpb.Struct, v any) error {
	data, err := json.Marshal(in.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// toStruct encodes v into a Struct through its JSON field names.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return out, nil
}

func unaryHandler(method string, call func(converterServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(converterServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(converterServer), ctx, req.(*structpb.Struct))
		})
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*converterServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Convert", Handler: unaryHandler(ConvertMethod, converterServer.Convert)},
		{MethodName: "ListProviders", Handler: unaryHandler(ListProvidersMethod, converterServer.ListProviders)},
		{MethodName: "SetActiveProvider", Handler: unaryHandler(SetActiveMethod, converterServer.SetActiveProvider)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "devicely/v1/converter.proto",
}
