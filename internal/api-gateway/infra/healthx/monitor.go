// Package healthx publishes the remote server's reachability on the standard
// gRPC health service.
package healthx

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// RemoteService is the health service name that tracks the remote server.
const RemoteService = "workorders.remote"

// Pinger is satisfied by the remote client and the in-memory backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor pings the remote server on an interval and records the result.
type Monitor struct {
	pinger   Pinger
	server   *health.Server
	interval time.Duration
	timeout  time.Duration
}

func NewMonitor(p Pinger, server *health.Server, interval time.Duration) *Monitor {
	return &Monitor{pinger: p, server: server, interval: interval, timeout: interval / 2}
}

// Run checks once immediately, then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	m.check(ctx)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := m.pinger.Ping(ctx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		slog.WarnContext(ctx, "remote work order server unreachable", "error", err)
	}
	m.server.SetServingStatus(RemoteService, status)
}
