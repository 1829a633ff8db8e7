package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"liyu1981.xyz/vigilant/pkg/common"
	"liyu1981.xyz/vigilant/pkg/config"
	"liyu1981.xyz/vigilant/pkg/db"
	"liyu1981.xyz/vigilant/pkg/fleet"
	vigilantGrpc "liyu1981.xyz/vigilant/pkg/grpc"
	vigilantHttp "liyu1981.xyz/vigilant/pkg/http"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional, real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if common.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := common.GetLogger()
	defer func() { _ = logger.Sync() }()

	var dialector = db.UseSqliteDialector(cfg.DBPath)
	if cfg.DBType == config.DBTypeMemory {
		dialector = db.UseMemorySqliteDialector("vigilant")
	}

	dbInstance, err := db.Open(dialector)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, dbInstance); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// run serves until ctx is done or a listener fails. It owns dbInstance and
// closes it before returning.
func run(ctx context.Context, cfg *config.Config, dbInstance *db.DB) error {
	logger := common.GetLogger()

	defer func() {
		if err := dbInstance.Close(); err != nil {
			logger.Error("Failed to close database", zap.Error(err))
		}
		logger.Info("Database closed")
	}()

	fleetCore := &fleet.Fleet{
		Db:         *dbInstance,
		StaleAfter: cfg.StaleAfter,
	}
	fleetCore.WithDefaultServices()

	authorizer := fleet.Authorizer{APIKey: cfg.APIKey}

	var limiterStore *fleet.RateLimiterStore
	if cfg.RateLimitEnabled() {
		limiterStore = fleet.NewRateLimiterStore(rate.Limit(cfg.DefaultRate), cfg.DefaultBurst)
	}
	logger.Info("Servers created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", cfg.DefaultRate, cfg.DefaultBurst)),
		zap.Duration("stale_after", cfg.StaleAfter),
	)

	var grpcListener net.Listener
	if cfg.GRPCHostPort != "" {
		listener, err := net.Listen("tcp", cfg.GRPCHostPort)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.GRPCHostPort, err)
		}
		grpcListener = listener
	}

	g, gctx := errgroup.WithContext(ctx)

	rs := &vigilantHttp.RestfulServer{
		Server:           gin.Default(),
		Fleet:            fleetCore,
		Authorizer:       authorizer,
		RateLimiterStore: limiterStore,
	}
	rs.Setup()

	httpServer := &http.Server{
		Addr:              cfg.HTTPHostPort,
		Handler:           rs.Server,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server on: " + cfg.HTTPHostPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed to serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down HTTP server")
		return httpServer.Shutdown(shutdownCtx)
	})

	if grpcListener != nil {
		grpcServer, healthServer := vigilantGrpc.NewServer(&vigilantGrpc.HeartbeatServer{
			Fleet:            fleetCore,
			Authorizer:       authorizer,
			RateLimiterStore: limiterStore,
		})

		g.Go(func() error {
			logger.Info("Starting gRPC server on: " + cfg.GRPCHostPort)
			if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc server failed to serve: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			logger.Info("Shutting down gRPC server")
			healthServer.Shutdown()

			done := make(chan struct{})
			go func() {
				grpcServer.GracefulStop()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(shutdownTimeout):
				grpcServer.Stop()
			}
			return nil
		})
	}

	err := g.Wait()
	logger.Info("Servers stopped")
	return err
}
