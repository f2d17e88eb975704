package probe

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCProber checks the store's standard gRPC health service. An empty
// service name asks about the server as a whole.
type GRPCProber struct {
	conn    *grpc.ClientConn
	health  healthpb.HealthClient
	service string
	timeout time.Duration
}

// NewGRPCProber prepares a lazy connection to addr; nothing is dialled until
// the first probe. Each probe asks about service.
func NewGRPCProber(addr, service string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCProber, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GRPCProber{conn: conn, health: healthpb.NewHealthClient(conn), service: service, timeout: timeout}, nil
}

func (p *GRPCProber) CheckConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.health.Check(ctx, &healthpb.HealthCheckRequest{Service: p.service})
	if err != nil {
		return false
	}
	return resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
}

func (p *GRPCProber) Close() error {
	return p.conn.Close()
}
