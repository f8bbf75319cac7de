package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"appointly/backend/internal/cache"
	"appointly/backend/internal/config"
	"appointly/backend/internal/events"
	"appointly/backend/internal/notification"
	"appointly/backend/internal/obs"
	"appointly/backend/internal/service/booking"
	"appointly/backend/internal/store"
	"appointly/backend/internal/store/mongostore"
	"appointly/backend/internal/store/postgres"
	grpcTransport "appointly/backend/internal/transport/grpc"
)

const serviceName = "appointly-server"

func main() {
	log := newLogger("info")
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = newLogger(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info(
		"starting",
		slog.String("grpc_addr", cfg.GRPCAddr()),
		slog.String("log_level", cfg.LogLevel),
		slog.String("time_zone", cfg.Location.String()),
		slog.Int("start_hour", cfg.BookingStartHour),
		slog.Int("limit_hour", cfg.BookingLimitHour),
	)

	shutdownTracer, err := obs.InitTracer(ctx, obs.TracerConfig{
		ServiceName: serviceName,
		Version:     "0.1.0",
		Environment: cfg.Environment,
		Endpoint:    cfg.OTelEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			log.Warn("tracer shutdown failed", slog.Any("err", err))
		}
	}()

	log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		SlowQuery:       250 * time.Millisecond,
		Logger:          log,
	})
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		return err
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	mongoClient, err := mongostore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Error("mongo connection failed", slog.Any("err", err))
		return err
	}
	defer func() {
		if err := mongostore.Disconnect(mongoClient, 5*time.Second); err != nil {
			log.Warn("mongo disconnect failed", slog.Any("err", err))
		}
	}()
	mongoDB := mongoClient.Database(cfg.MongoDatabase)
	if err := mongostore.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Warn("mongo index setup failed", slog.Any("err", err))
	}

	publisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = publisher.Close() }()

	agendaCache, closeCache, err := newAgendaCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	notifications := notification.NewWriter(mongostore.NewNotificationRepo(mongoDB), publisher, log)
	svc := booking.NewService(postgres.NewAppointmentRepo(db), notifications, agendaCache, booking.Options{
		Hours: &booking.BusinessHours{
			StartHour: cfg.BookingStartHour,
			LimitHour: cfg.BookingLimitHour,
		},
		Location: cfg.Location,
		Logger:   log,
	})

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(defaultRequestTimeoutInterceptor(cfg.GRPCRequestTimeout)),
	)
	grpcTransport.RegisterBookingServiceServer(grpcServer, grpcTransport.NewBookingServer(svc, log))

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr()))
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- grpcServer.Serve(lis)
	}()

	log.Info("grpc server started", slog.String("grpc_addr", cfg.GRPCAddr()))

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdown(log, grpcServer, cfg.ShutdownTimeout)
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error("grpc server stopped with error", slog.Any("err", err))
			return err
		}
	}
	return nil
}

type eventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
	Close() error
}

func newPublisher(cfg config.Config, log *slog.Logger) (eventPublisher, error) {
	if cfg.RabbitMQURL == "" {
		log.Info("rabbitmq not configured; notification events disabled")
		return events.Nop{}, nil
	}
	p, err := events.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	if err != nil {
		log.Error("rabbitmq connection failed", slog.Any("err", err))
		return nil, err
	}
	log.Info("rabbitmq connected", slog.String("exchange", cfg.RabbitMQExchange))
	return p, nil
}

// newAgendaCache prefers Redis so invalidations reach every instance and
// falls back to an in-process LRU when no Redis address is configured.
func newAgendaCache(ctx context.Context, cfg config.Config, log *slog.Logger) (store.AgendaCache, func(), error) {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured; using in-process agenda cache", slog.Int("size", cfg.CacheSize))
		return cache.NewLRUCache(cfg.CacheSize, cfg.CacheTTL), func() {}, nil
	}

	client, err := cache.NewRedisClient(ctx, cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Error("redis connection failed", slog.Any("err", err), slog.String("redis_addr", cfg.RedisAddr))
		return nil, nil, err
	}
	log.Info("redis connected", slog.String("redis_addr", cfg.RedisAddr))

	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Warn("redis close failed", slog.Any("err", err))
		}
	}
	return cache.NewRedisCache(client, cfg.CacheTTL), closeFn, nil
}

func defaultRequestTimeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := ctx.Deadline(); ok {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return handler(ctx, req)
	}
}

func shutdown(log *slog.Logger, s *grpc.Server, timeout time.Duration) {
	log.Info("shutting down grpc server", slog.Duration("timeout", timeout))

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-timer.C:
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		s.Stop()
	}
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(level)})).With(
		slog.String("service", serviceName),
	)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
