package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"liyu1981.xyz/home-controller-schema/pkg/admin"
	"liyu1981.xyz/home-controller-schema/pkg/common"
)

// SchemaService is the health service name that tracks the controller tables.
const SchemaService = "hcschema.Schema"

// HealthServer serves grpc.health.v1. Both the overall ("") and the
// SchemaService status are SERVING only while every controller table exists.
type HealthServer struct {
	Admin            *admin.Admin
	RateLimiterStore *admin.RateLimiterStore
	health           *health.Server
}

func NewHealthServer(a *admin.Admin, store *admin.RateLimiterStore) *HealthServer {
	hs := &HealthServer{Admin: a, RateLimiterStore: store, health: health.NewServer()}
	hs.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return hs
}

func (hs *HealthServer) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, hs.health)
}

func (hs *HealthServer) set(status healthpb.HealthCheckResponse_ServingStatus) {
	hs.health.SetServingStatus("", status)
	hs.health.SetServingStatus(SchemaService, status)
}

// Refresh inspects the database and publishes the result.
func (hs *HealthServer) Refresh(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	status, err := hs.Admin.Schema.Status(ctx)
	if err != nil {
		hs.set(healthpb.HealthCheckResponse_NOT_SERVING)
		return healthpb.HealthCheckResponse_NOT_SERVING, err
	}

	serving := healthpb.HealthCheckResponse_NOT_SERVING
	if status.Complete {
		serving = healthpb.HealthCheckResponse_SERVING
	}
	hs.set(serving)
	return serving, nil
}

// RefreshEvery calls Refresh on every tick until ctx is done.
func (hs *HealthServer) RefreshEvery(ctx context.Context, interval time.Duration) {
	logger := common.GetLoggerWith(common.LoggerNameGrpcServer)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := hs.Refresh(ctx); err != nil {
			logger.Warn("Schema health refresh failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			hs.health.Shutdown()
			return
		case <-ticker.C:
		}
	}
}
