package grpc

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/alfagnish/userbook/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func dialHealth(t *testing.T, storePath string) grpc_health_v1.HealthClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := NewServer(users.NewService(users.NewFileStore(storePath)), zap.NewNop())
	go srv.Serve(lis)
	t.Cleanup(func() { srv.Stop(context.Background()) })

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return grpc_health_v1.NewHealthClient(conn)
}

func TestHealth_Serving(t *testing.T) {
	client := dialHealth(t, filepath.Join(t.TempDir(), "users.json"))

	for _, name := range []string{"", ServiceName} {
		resp, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: name})
		require.NoError(t, err)
		assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
	}
}

func TestHealth_NotServingOnCorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))
	client := dialHealth(t, path)

	resp, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestHealth_UnknownService(t *testing.T) {
	client := dialHealth(t, filepath.Join(t.TempDir(), "users.json"))

	_, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "other"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
