package healthx

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type flakyPinger struct {
	fail atomic.Bool
}

func (p *flakyPinger) Ping(context.Context) error {
	if p.fail.Load() {
		return errors.New("dial tcp 10.0.0.63:8000: connection refused")
	}
	return nil
}

func statusOf(t *testing.T, s *health.Server) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.Check(context.Background(), &healthpb.HealthCheckRequest{Service: RemoteService})
	if err != nil {
		// not registered until the first check
		return healthpb.HealthCheckResponse_SERVICE_UNKNOWN
	}
	return resp.GetStatus()
}

func TestMonitor_Run(t *testing.T) {
	srv := health.NewServer()
	p := &flakyPinger{}
	m := NewMonitor(p, srv, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return statusOf(t, srv) == healthpb.HealthCheckResponse_SERVING
	}, time.Second, 5*time.Millisecond)

	p.fail.Store(true)
	assert.Eventually(t, func() bool {
		return statusOf(t, srv) == healthpb.HealthCheckResponse_NOT_SERVING
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
