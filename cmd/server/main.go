package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yourorg/worldpay-gateway/internal/adapter"
	"github.com/yourorg/worldpay-gateway/internal/adapter/worldpay"
	"github.com/yourorg/worldpay-gateway/internal/circuitbreaker"
	"github.com/yourorg/worldpay-gateway/internal/config"
	"github.com/yourorg/worldpay-gateway/internal/dedup"
	"github.com/yourorg/worldpay-gateway/internal/events"
	"github.com/yourorg/worldpay-gateway/internal/monitor"
	"github.com/yourorg/worldpay-gateway/internal/policy"
	"github.com/yourorg/worldpay-gateway/internal/processor"
	"github.com/yourorg/worldpay-gateway/internal/refdata"
	"github.com/yourorg/worldpay-gateway/internal/telemetry"
)

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file (empty reads the environment only)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "worldpay gateway: %v\n", err)
		os.Exit(1)
	}
}

// run starts the service and blocks until SIGINT/SIGTERM. Errors are returned
// rather than exiting so deferred tracing flushes and connection closes run.
func run(configPath string) error {
	cfg, err := config.GetConfig(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := telemetry.NewLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	tp, err := telemetry.InitTracing(cfg.ServiceName, cfg.Tracing.Enabled)
	if err != nil {
		logger.Error("Failed to initialize tracing", zap.Error(err))
		return err
	}
	defer func() { _ = telemetry.Shutdown(context.Background(), tp, logger) }()

	srv, closeFn, err := buildServer(cfg, logger)
	if err != nil {
		logger.Error("Failed to build server", zap.Error(err))
		return err
	}
	defer closeFn()

	gin.SetMode(gin.ReleaseMode)
	httpServer := &http.Server{
		Addr:    cfg.Address(),
		Handler: setupRouter(srv),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Worldpay gateway starting", zap.String("addr", cfg.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		logger.Error("Failed to start server", zap.Error(err))
		return err
	case <-quit:
	}

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	logger.Info("Server exited")
	return nil
}

// buildServer wires the adapter registry and host collaborators from config.
// The returned func releases external connections.
func buildServer(cfg *config.Config, logger *zap.Logger) (*server, func(), error) {
	iso := refdata.ISO{}
	store := refdata.NewStore(cfg.Countries, cfg.Currencies)
	if err := store.Validate(iso); err != nil {
		return nil, nil, fmt.Errorf("reference data: %w", err)
	}

	provider := worldpay.NewProvider(cfg.ProviderAlias, cfg.Worldpay,
		worldpay.Lookups{Countries: store, Currencies: store, Reference: iso}, logger)
	proc := processor.NewProcessor(map[string]adapter.ProviderAdapter{provider.GetName(): provider})

	var contract *monitor.ContractMonitor
	var err error
	if cfg.FormSchemaPath != "" {
		contract, err = monitor.NewContractMonitor(cfg.FormSchemaPath)
	} else {
		contract, err = monitor.NewFormRequestMonitor()
	}
	if err != nil {
		return nil, nil, err
	}

	review, err := policy.NewPaymentPolicyEnforcer(cfg.ReviewRules)
	if err != nil {
		return nil, nil, err
	}

	var closers []func() error

	var guard dedup.Guard = dedup.NewMemoryGuard(cfg.Redis.TTL)
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		closers = append(closers, client.Close)
		guard = dedup.NewRedisGuard(client, cfg.Redis.TTL)
	}

	var publisher events.Publisher = events.NewLogPublisher(logger)
	if cfg.Kafka.Enabled {
		breaker := circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
			FailureThreshold: cfg.Kafka.Breaker.FailureThreshold,
			ResetTimeout:     cfg.Kafka.Breaker.ResetTimeout,
		})
		publisher = events.NewGuardedPublisher(
			events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic),
			breaker, "kafka:"+cfg.Kafka.Topic, logger)
	}
	closers = append(closers, publisher.Close)

	closeFn := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("Close failed", zap.Error(err))
			}
		}
	}

	return &server{
		serviceName: cfg.ServiceName,
		proc:        proc,
		contract:    contract,
		guard:       guard,
		review:      review,
		publisher:   publisher,
		logger:      logger,
	}, closeFn, nil
}
