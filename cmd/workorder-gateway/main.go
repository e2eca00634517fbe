package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	// Embedded zone database so the calendar location resolves in distroless images.
	_ "time/tzdata"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/ports"
	"github.com/allstar-electrical/workorders/internal/api-gateway/core/service"
	"github.com/allstar-electrical/workorders/internal/api-gateway/infra/adapters/catalog"
	"github.com/allstar-electrical/workorders/internal/api-gateway/infra/adapters/remote"
	memory "github.com/allstar-electrical/workorders/internal/api-gateway/infra/adapters/service"
	"github.com/allstar-electrical/workorders/internal/api-gateway/infra/healthx"
	"github.com/allstar-electrical/workorders/internal/api-gateway/infra/httpx"
	"github.com/allstar-electrical/workorders/internal/config"
	"github.com/allstar-electrical/workorders/internal/coordinator"
	"github.com/allstar-electrical/workorders/internal/coordinator/sagalog"
	"github.com/allstar-electrical/workorders/internal/coordinator/sagalog/sqlite"
	"github.com/allstar-electrical/workorders/internal/pkg/cache"
	"github.com/allstar-electrical/workorders/internal/pkg/interceptors"
	"github.com/allstar-electrical/workorders/internal/pkg/telemetry"
	"github.com/allstar-electrical/workorders/internal/workorder/calendar"
)

type backend interface {
	ports.Backend
	healthx.Pinger
}

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	level, _ := config.ParseLevel(cfg.Log.Level)
	telemetry.InitLogger(os.Stdout, level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Enabled)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	// --- Remote server ---
	var remoteBackend backend
	if cfg.UsesMemoryStore() {
		slog.Warn("using in-memory work order store; nothing is persisted")
		remoteBackend = memory.NewMemoryBackend()
	} else {
		remoteBackend = remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout)
	}

	// --- Catalog cache ---
	var catalogCache cache.Cache
	if cfg.Cache.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Tracing.ServiceName)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, catalog lookups will fall through", "addr", cfg.Cache.RedisAddr, "error", err)
		}
		catalogCache = redisCache
	} else {
		catalogCache = cache.NewMemoryCache(cfg.Tracing.ServiceName)
	}

	// --- Saga log ---
	var sagaRepo sagalog.Repository
	if cfg.SagaLog.Path != "" {
		repo, err := sqlite.Open(cfg.SagaLog.Path)
		if err != nil {
			slog.Error("failed to open saga log", "path", cfg.SagaLog.Path, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		sagaRepo = repo
	} else {
		sagaRepo = sagalog.NewMemoryRepository()
	}

	loc, _ := cfg.Location()
	handler := httpx.NewHandler(httpx.Dependencies{
		Store:       remoteBackend,
		Media:       remoteBackend,
		Catalog:     catalog.New(remoteBackend, catalogCache, cfg.Cache.CatalogTTL),
		Submitter:   coordinator.NewSubmitter(remoteBackend, remoteBackend, sagaRepo),
		Weekly:      service.NewWeeklyView(remoteBackend, cfg.Remote.WeeklyConcurrency),
		Weeks:       calendar.NewResolver(loc),
		Technicians: cfg.Technicians,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(handler, cfg.Tracing.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- gRPC health ---
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		slog.Error("failed to listen", "addr", cfg.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.RequestMetadataInterceptor()),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	go healthx.NewMonitor(remoteBackend, healthServer, cfg.Remote.HealthInterval).Run(ctx)

	go func() {
		slog.Info("gRPC health server running", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			slog.Error("failed to serve gRPC", "error", err)
			stop()
		}
	}()
	go func() {
		slog.Info("work order gateway running", "addr", cfg.HTTPAddr, "remote", cfg.Remote.BaseURL, "timezone", loc.String())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown error", "error", err)
	}
	grpcServer.GracefulStop()
}
