package probe

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func startHealthServer(t *testing.T) (*bufconn.Listener, *health.Server) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	return lis, hs
}

func newBufProber(t *testing.T, lis *bufconn.Listener) *GRPCProber {
	return newBufServiceProber(t, lis, "")
}

func newBufServiceProber(t *testing.T, lis *bufconn.Listener, service string) *GRPCProber {
	t.Helper()
	p, err := NewGRPCProber("passthrough:///bufnet", service, 500*time.Millisecond,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestGRPCProber_Serving(t *testing.T) {
	lis, hs := startHealthServer(t)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	assert.True(t, newBufProber(t, lis).CheckConnection(context.Background()))
}

func TestGRPCProber_NotServing(t *testing.T) {
	lis, hs := startHealthServer(t)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	assert.False(t, newBufProber(t, lis).CheckConnection(context.Background()))
}

func TestGRPCProber_ServerGone(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	require.NoError(t, lis.Close())

	p := newBufProber(t, lis)

	start := time.Now()
	assert.False(t, p.CheckConnection(context.Background()))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGRPCProber_ChecksNamedService(t *testing.T) {
	lis, hs := startHealthServer(t)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus("geojournal.Store", healthpb.HealthCheckResponse_NOT_SERVING)

	p := newBufServiceProber(t, lis, "geojournal.Store")
	assert.False(t, p.CheckConnection(context.Background()))

	hs.SetServingStatus("geojournal.Store", healthpb.HealthCheckResponse_SERVING)
	assert.True(t, p.CheckConnection(context.Background()))
}

func TestGRPCProber_UnknownServiceIsOffline(t *testing.T) {
	lis, hs := startHealthServer(t)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	assert.False(t, newBufServiceProber(t, lis, "nobody.Home").CheckConnection(context.Background()))
}
