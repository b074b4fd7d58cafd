package rpc

import (
	"context"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"

	"github.com/veilrelay/autoselect/selector"
)

// OrchestratorServer adapts a *selector.Orchestrator (optionally wrapped
// in a *selector.SingleFlight) to SelectorServer.
type OrchestratorServer struct {
	Full   func(ctx context.Context, candidates []string) (string, bool)
	Cached func(ctx context.Context, candidates []string) (string, bool)
}

var _ SelectorServer = OrchestratorServer{}

// NewOrchestratorServer wires sf (or o directly, if sf is nil) into the
// RPC facade. Passing a SingleFlight is the recommended production
// wiring per §5/§9.
func NewOrchestratorServer(o *selector.Orchestrator, sf *selector.SingleFlight) OrchestratorServer {
	full := o.AutoSelectBestProxy
	if sf != nil {
		full = sf.AutoSelectBestProxy
	}
	return OrchestratorServer{Full: full, Cached: o.GetBestAvailableProxy}
}

func (s OrchestratorServer) AutoSelectBestProxy(ctx context.Context, req *SelectRequest) (*SelectResponse, error) {
	id, ok := s.Full(ctx, req.Candidates)
	return &SelectResponse{Identifier: id, Found: ok}, nil
}

func (s OrchestratorServer) GetBestAvailableProxy(ctx context.Context, req *SelectRequest) (*SelectResponse, error) {
	id, ok := s.Cached(ctx, req.Candidates)
	return &SelectResponse{Identifier: id, Found: ok}, nil
}

// NewServer builds a *grpc.Server with the selector service registered
// and otelgrpc stats instrumentation attached, sharing whatever tracer
// provider the process has configured globally.
func NewServer(srv SelectorServer) *grpc.Server {
	s := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	s.RegisterService(&ServiceDesc, srv)
	return s
}
