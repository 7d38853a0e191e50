package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/comercializacion-api/pkg/config"
)

const pingTimeout = 5 * time.Second

// NewPool abre el pool PostgreSQL. Usa DATABASE_URL si está definido; si no, el DSN de DB_HOST, DB_PORT, etc.
// Cada conexión registra el codec NUMERIC <-> decimal.Decimal y fija lock_timeout, de modo que una venta
// bloqueada detrás de otra sobre el mismo producto falla en vez de esperar indefinidamente.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	applyPoolSettings(poolConfig, cfg)

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

func applyPoolSettings(pc *pgxpool.Config, cfg config.DBConfig) {
	if cfg.MaxConns > 0 {
		pc.MaxConns = int32(cfg.MaxConns)
	}
	pc.MinConns = 1
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 15 * time.Minute
	pc.HealthCheckPeriod = time.Minute

	params := pc.ConnConfig.RuntimeParams
	if _, ok := params["application_name"]; !ok {
		params["application_name"] = "comercializacion-api"
	}
	if cfg.LockTimeout > 0 {
		params["lock_timeout"] = strconv.Itoa(cfg.LockTimeout)
	}
	params["timezone"] = "UTC"
}
