package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	// SlowQuery is the duration above which a query is logged at warn level.
	// Zero disables slow query logging.
	SlowQuery time.Duration
	Logger    *slog.Logger
}

func Open(ctx context.Context, databaseURL string, pool PoolConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if pool.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	db := bun.NewDB(sqlDB, pgdialect.New())
	if pool.Logger != nil {
		db.AddQueryHook(newQueryLogHook(pool.Logger, pool.SlowQuery))
	}
	return db, nil
}

func Close(db *bun.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

type queryLogHook struct {
	log  *slog.Logger
	slow time.Duration
}

var _ bun.QueryHook = (*queryLogHook)(nil)

func newQueryLogHook(log *slog.Logger, slow time.Duration) *queryLogHook {
	return &queryLogHook{log: log.With(slog.String("component", "store.postgres")), slow: slow}
}

func (h *queryLogHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryLogHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)

	// Misses and slot conflicts are normal outcomes, reported by the callers.
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) && !isProviderSlotViolation(event.Err) {
		h.log.LogAttrs(ctx, slog.LevelWarn, "query failed",
			slog.String("operation", event.Operation()),
			slog.Duration("elapsed", elapsed),
			slog.Any("err", event.Err),
		)
		return
	}
	if h.slow > 0 && elapsed >= h.slow {
		h.log.LogAttrs(ctx, slog.LevelWarn, "slow query",
			slog.String("operation", event.Operation()),
			slog.Duration("elapsed", elapsed),
		)
	}
}
