package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func checkHealth(t *testing.T, tokenConfigured bool) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()

	srv, err := NewServer(&Config{Addr: "127.0.0.1:0", TokenConfigured: tokenConfigured, Logger: zap.NewNop()})
	require.NoError(t, err)
	go func() { _ = srv.Start() }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	conn, err := grpc.NewClient(srv.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	return resp.Status
}

func TestServer_Health(t *testing.T) {
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, checkHealth(t, true))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, checkHealth(t, false))
}
