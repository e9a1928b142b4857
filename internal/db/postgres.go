package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/yigit/edusponsor/internal/config"
	"github.com/yigit/edusponsor/internal/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const defaultTxTimeout = 30 * time.Second

// PostgresDB bundles the pgx pool with the gorm handle layered on top of it
type PostgresDB struct {
	Pool *pgxpool.Pool
	SQL  *sql.DB
	Gorm *gorm.DB
}

// NewPostgresDB creates the pgx pool and opens gorm over it
func NewPostgresDB(cfg *config.Config) (*PostgresDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)

	maxLifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
	}
	poolConfig.MaxConnLifetime = maxLifetime

	poolConfig.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		if err := conn.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("Unhealthy connection detected")
			return false
		}
		return true
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	slow, _ := time.ParseDuration(cfg.Database.SlowQuery)
	sqlDB := stdlib.OpenDBFromPool(pool)

	gormDB, err := OpenGorm(sqlDB, NewGormLogger(slow))
	if err != nil {
		_ = sqlDB.Close()
		pool.Close()
		return nil, err
	}

	return &PostgresDB{Pool: pool, SQL: sqlDB, Gorm: gormDB}, nil
}

// OpenGorm opens gorm on an existing *sql.DB. Tests pass a sqlmock handle here.
func OpenGorm(sqlDB *sql.DB, gormLogger *GormLogger) (*gorm.DB, error) {
	cfg := &gorm.Config{}
	if gormLogger != nil {
		cfg.Logger = gormLogger
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return gormDB, nil
}

// Close releases the sql handle and then the pool
func (db *PostgresDB) Close() {
	if db.SQL != nil {
		_ = db.SQL.Close()
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(tx *gorm.DB) error

// WithTransaction runs fn inside a gorm transaction bound to ctx. A deadline is
// added when ctx has none. gorm rolls back on error or panic.
func WithTransaction(ctx context.Context, gdb *gorm.DB, fn TransactionFn) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTxTimeout)
		defer cancel()
	}

	if err := gdb.WithContext(ctx).Transaction(fn); err != nil {
		return err
	}
	return nil
}
