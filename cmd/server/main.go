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
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"liyu1981.xyz/water-intake-service/pkg/cache"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/config"
	"liyu1981.xyz/water-intake-service/pkg/db"
	hydrationGrpc "liyu1981.xyz/water-intake-service/pkg/grpc"
	pb "liyu1981.xyz/water-intake-service/pkg/grpc/hydration_service"
	hydrationHttp "liyu1981.xyz/water-intake-service/pkg/http"
	"liyu1981.xyz/water-intake-service/pkg/hydration"
	"liyu1981.xyz/water-intake-service/pkg/ingest"
)

func openCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, func(), error) {
	switch cfg.Type {
	case "memory":
		c := cache.NewMemoryCache(time.Minute)
		return c, func() { _ = c.Close() }, nil
	case "redis":
		c, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddress(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Close() }, nil
	default:
		return cache.NopCache{}, func() {}, nil
	}
}

// connectLedPublisher opens the command connection used for led animations.
// It is separate from the ingestion connection so a slow publish never holds
// up message delivery.
func connectLedPublisher(ctx context.Context, cfg config.MQTTConfig) (*ingest.LedPublisher, func(), error) {
	transport := ingest.NewMQTTTransport(cfg, cfg.ClientID+"-cmd")
	if err := transport.Connect(ctx); err != nil {
		return nil, nil, err
	}
	led := &ingest.LedPublisher{
		Publisher:   transport,
		TopicFormat: cfg.LedTopicFormat,
		QoS:         cfg.QoS,
	}
	return led, func() { _ = transport.Close() }, nil
}

func main() {
	if err := run(); err != nil {
		common.Sync()
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := common.GetLogger()
	defer common.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialector, err := db.DialectorFor(cfg.DB)
	if err != nil {
		return err
	}
	dbInstance, err := db.Open(dialector)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = dbInstance.Close() }()

	registryCache, closeCache, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer closeCache()

	hydrationCore := &hydration.Hydration{
		Db:       dbInstance,
		Cache:    registryCache,
		CacheTTL: cfg.Cache.TTL,
	}
	hydrationCore.WithDefaultServices()

	logger.Info("Hydration core created with:",
		zap.String("db_type", cfg.DB.Type),
		zap.String("cache_type", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
	)

	var led *ingest.LedPublisher
	var notifier ingest.Notifier
	if p, closeLed, err := connectLedPublisher(ctx, cfg.MQTT); err != nil {
		logger.Warn("Led commands disabled, failed to connect command client", zap.Error(err))
	} else {
		defer closeLed()
		led = p
		notifier = &ingest.GoalNotifier{Goal: hydrationCore.Goal, Led: led}
	}

	loop := ingest.NewLoop(hydrationCore, ingest.NewMQTTTransport(cfg.MQTT, cfg.MQTT.ClientID), ingest.LoopOpts{
		Topic:     cfg.MQTT.Topic,
		QoS:       cfg.MQTT.QoS,
		Workers:   cfg.Ingest.Workers,
		QueueSize: cfg.Ingest.QueueSize,
		Reporter:  ingest.NewLogReporter(),
		Notifier:  notifier,
	})

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop.Run(ctx)
	}()

	stopJanitor := make(chan struct{})
	defer close(stopJanitor)
	newLimiterStore := func() *hydration.RateLimiterStore {
		store := hydration.NewRateLimiterStore(rate.Limit(cfg.Limiter.DefaultRate), cfg.Limiter.DefaultBurst)
		go store.RunJanitor(cfg.Limiter.JanitorInterval, cfg.Limiter.MaxIdle, stopJanitor)
		return store
	}
	defaultLimiter := zap.String("default_limiter",
		fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", cfg.Limiter.DefaultRate, cfg.Limiter.DefaultBurst))

	var grpcServer *grpc.Server
	if cfg.Server.GrpcHostPort != "" {
		hydrationGrpcServer := hydrationGrpc.HydrationServer{
			Hydration:        hydrationCore,
			RateLimiterStore: newLimiterStore(),
		}
		interceptor := hydrationGrpcServer.CreateRateLimitInterceptor([]any{
			&pb.UserRequest{},
			&pb.GetIntakeRequest{},
			&pb.UpdateProfileRequest{},
		})
		grpcServer = grpc.NewServer(grpc.UnaryInterceptor(interceptor))
		pb.RegisterHydrationServiceServer(grpcServer, &hydrationGrpcServer)
		logger.Info("gRPC server created with:", defaultLimiter)

		listener, err := net.Listen("tcp", cfg.Server.GrpcHostPort)
		if err != nil {
			return fmt.Errorf("failed to listen: %w", err)
		}

		go func() {
			logger.Info("start gRPC server on " + cfg.Server.GrpcHostPort)
			if err := grpcServer.Serve(listener); err != nil {
				logger.Error("grpc server failed to serve", zap.Error(err))
			}
		}()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	rs := &hydrationHttp.RestfulServer{
		Server:           gin.New(),
		Hydration:        hydrationCore,
		RateLimiterStore: newLimiterStore(),
		Ingest:           loop,
	}
	if led != nil {
		rs.Led = led
	}
	rs.Server.Use(gin.Recovery())
	rs.Setup()

	logger.Info("http server created with:", defaultLimiter)

	httpServer := &http.Server{
		Addr:    cfg.Server.HttpHostPort,
		Handler: rs.Server,
	}
	go func() {
		logger.Info("Starting HTTP server on: " + cfg.Server.HttpHostPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed to serve", zap.Error(err))
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
		// the loop drains its queues once ctx is done
		if err := <-loopErr; err != nil {
			logger.Error("Ingestion loop stopped with error", zap.Error(err))
		}
	case err := <-loopErr:
		// without a broker connection nothing new is recorded, let the
		// supervisor restart us
		logger.Error("Ingestion loop stopped", zap.Error(err), zap.String("state", loop.State().String()))
		runErr = err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	return runErr
}
