package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/worklane/escrow-engine/internal/adapters/cache"
	eventadapter "github.com/worklane/escrow-engine/internal/adapters/events"
	grpcadapter "github.com/worklane/escrow-engine/internal/adapters/grpc"
	httpadapter "github.com/worklane/escrow-engine/internal/adapters/http"
	ledgeradapter "github.com/worklane/escrow-engine/internal/adapters/ledger"
	"github.com/worklane/escrow-engine/internal/adapters/memory"
	"github.com/worklane/escrow-engine/internal/adapters/postgres"
	"github.com/worklane/escrow-engine/internal/application"
	"github.com/worklane/escrow-engine/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	worker     *eventadapter.OutboxWorker
	closers    []func() error
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	rt := &Runtime{cfg: cfg, logger: logger}

	var (
		projects    ports.ProjectRepository
		disputes    ports.DisputeRepository
		escrows     ports.EscrowRepository
		ratings     ports.RatingRepository
		idempotency ports.IdempotencyRepository
		outbox      ports.OutboxRepository
	)
	if cfg.DatabaseURL != "" {
		db, dbErr := postgres.Connect(ctx, cfg.DatabaseURL, int32(cfg.DatabaseMaxConns))
		if dbErr != nil {
			return nil, fmt.Errorf("connect postgres: %w", dbErr)
		}
		if migErr := postgres.RunMigrations(ctx, db); migErr != nil {
			return nil, fmt.Errorf("run migrations: %w", migErr)
		}
		repos := postgres.NewRepositories(db)
		projects, disputes, escrows = repos.Projects, repos.Disputes, repos.Escrows
		ratings, idempotency, outbox = repos.Ratings, repos.Idempotency, repos.Outbox
	} else {
		repos := memory.NewRepositories()
		projects, disputes, escrows = repos.Projects, repos.Disputes, repos.Escrows
		ratings, idempotency, outbox = repos.Ratings, repos.Idempotency, repos.Outbox
	}

	if cfg.RedisURL != "" {
		client, redisErr := cache.Connect(ctx, cfg.RedisURL)
		if redisErr != nil {
			return nil, fmt.Errorf("connect redis: %w", redisErr)
		}
		rt.closers = append(rt.closers, client.Close)
		idempotency = cache.NewRedisIdempotencyStore(client)
	}

	var domainEvents ports.DomainPublisher
	var analytics ports.AnalyticsPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, kafkaErr := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, nil)
		if kafkaErr != nil {
			return nil, fmt.Errorf("kafka publisher: %w", kafkaErr)
		}
		rt.closers = append(rt.closers, kafkaPublisher.Close)
		domainEvents, analytics = kafkaPublisher, kafkaPublisher
	} else {
		loggingPublisher := eventadapter.NewLoggingPublisher(logger)
		domainEvents, analytics = loggingPublisher, loggingPublisher
	}

	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:          cfg.ServiceID,
			Arbitrators:          cfg.Arbitrators,
			DefaultRating:        cfg.DefaultRating,
			IdempotencyTTL:       cfg.IdempotencyTTL,
			OutboxFlushBatchSize: cfg.OutboxFlushBatchSize,
		},
		Projects:     projects,
		Disputes:     disputes,
		Escrows:      escrows,
		Ratings:      ratings,
		Idempotency:  idempotency,
		Outbox:       outbox,
		Ledger:       ledgeradapter.New(),
		DomainEvents: domainEvents,
		Analytics:    analytics,
	})

	handler := httpadapter.NewHandler(service)
	router := httpadapter.NewRouter(handler, logger)
	rt.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	rt.grpcServer = grpc.NewServer()
	grpcadapter.Register(rt.grpcServer, grpcadapter.NewEscrowInternalServer(service))
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return nil, err
	}
	rt.grpcLis = lis

	rt.worker = eventadapter.NewOutboxWorker(logger, service, cfg.OutboxFlushInterval)
	return rt, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.close()
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		if err := r.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()
	select {
	case <-ctx.Done():
		r.close()
		return nil
	case err := <-errCh:
		r.close()
		return err
	}
}

func (r *Runtime) close() {
	for _, fn := range r.closers {
		_ = fn()
	}
}
