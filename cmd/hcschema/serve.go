package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"liyu1981.xyz/home-controller-schema/pkg/admin"
	"liyu1981.xyz/home-controller-schema/pkg/common"
	hcGrpc "liyu1981.xyz/home-controller-schema/pkg/grpc"
	hcHttp "liyu1981.xyz/home-controller-schema/pkg/http"
)

const (
	limiterSweepInterval = time.Minute
	limiterIdle          = 10 * time.Minute
)

func newServeCmd(a *app) *cobra.Command {
	var refresh time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin HTTP API and the gRPC health service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, refresh)
		},
	}

	cmd.Flags().DurationVar(&refresh, "health-refresh", 30*time.Second, "how often the gRPC health status re-inspects the schema")
	return cmd
}

func (a *app) serve(ctx context.Context, refresh time.Duration) error {
	logger := common.GetLoggerWith(common.LoggerNameCli)
	errCh := make(chan error, 2)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.cfg.GrpcHostPort != "" {
		grpcLimiter := admin.NewRateLimiterStore(rate.Limit(a.cfg.AdminRate), a.cfg.AdminBurst)
		hs := hcGrpc.NewHealthServer(a.admin, grpcLimiter)
		s := grpc.NewServer(grpc.UnaryInterceptor(hs.CreateRateLimitInterceptor()))
		hs.Register(s)

		listener, err := net.Listen("tcp", a.cfg.GrpcHostPort)
		if err != nil {
			return err
		}

		go hs.RefreshEvery(ctx, refresh)
		go grpcLimiter.SweepEvery(ctx, limiterSweepInterval, limiterIdle)
		go func() {
			logger.Info("Starting gRPC server on " + a.cfg.GrpcHostPort)
			errCh <- s.Serve(listener)
		}()
		defer s.GracefulStop()
	}

	if common.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	httpLimiter := admin.NewRateLimiterStore(rate.Limit(a.cfg.AdminRate), a.cfg.AdminBurst)
	rs := &hcHttp.RestfulServer{
		Server:           gin.Default(),
		Admin:            a.admin,
		RateLimiterStore: httpLimiter,
	}
	rs.Setup()
	go httpLimiter.SweepEvery(ctx, limiterSweepInterval, limiterIdle)

	srv := &http.Server{Addr: a.cfg.HttpHostPort, Handler: rs.Server}
	go func() {
		logger.Info("Starting HTTP server on "+a.cfg.HttpHostPort,
			zap.Float64("admin_rate", a.cfg.AdminRate), zap.Int("admin_burst", a.cfg.AdminBurst))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case serveErr = <-errCh:
		logger.Error("Server stopped", zap.Error(serveErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return errors.Join(serveErr, srv.Shutdown(shutdownCtx))
}
