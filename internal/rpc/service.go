package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// SelectRequest carries the candidate identifier list for either RPC.
type SelectRequest struct {
	Candidates []string `json:"candidates"`
}

// SelectResponse carries the winning identifier, or Found=false when the
// pipeline returned "none" (§4.5, §7 — an ordinary outcome, not an error).
type SelectResponse struct {
	Identifier string `json:"identifier"`
	Found      bool   `json:"found"`
}

// SelectorServer is the handler interface the generated-by-hand
// ServiceDesc below dispatches into; OrchestratorServer in server.go
// satisfies it by adapting a *selector.Orchestrator.
type SelectorServer interface {
	AutoSelectBestProxy(ctx context.Context, req *SelectRequest) (*SelectResponse, error)
	GetBestAvailableProxy(ctx context.Context, req *SelectRequest) (*SelectResponse, error)
}

const serviceName = "autoselect.v1.Selector"

// ServiceDesc is the grpc.ServiceDesc a protoc-gen-go-grpc pass would
// normally emit; written by hand here because the wire messages are
// JSON-codec structs, not protobuf types (see package doc).
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SelectorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AutoSelectBestProxy",
			Handler:    autoSelectBestProxyHandler,
		},
		{
			MethodName: "GetBestAvailableProxy",
			Handler:    getBestAvailableProxyHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "autoselect/rpc/service.go",
}

func autoSelectBestProxyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SelectRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SelectorServer).AutoSelectBestProxy(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/AutoSelectBestProxy"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SelectorServer).AutoSelectBestProxy(ctx, req.(*SelectRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getBestAvailableProxyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SelectRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SelectorServer).GetBestAvailableProxy(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/GetBestAvailableProxy"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SelectorServer).GetBestAvailableProxy(ctx, req.(*SelectRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Invoke calls method on cc using the JSON codec, for clients that do not
// want to hand-write a typed stub.
func Invoke(ctx context.Context, cc *grpc.ClientConn, method string, req *SelectRequest) (*SelectResponse, error) {
	resp := new(SelectResponse)
	err := cc.Invoke(ctx, "/"+serviceName+"/"+method, req, resp, grpc.CallContentSubtype(CodecName))
	if err != nil {
		return nil, err
	}
	return resp, nil
}
