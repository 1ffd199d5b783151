package postgres

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Orbita-api/pkg/config"
)

// PoolOptions perfil de un pool. Name se publica como application_name para distinguir
// en pg_stat_activity las conexiones de la API de las privilegiadas.
type PoolOptions struct {
	Name             string
	MaxConns         int32
	MinConns         int32
	StatementTimeout time.Duration
}

// Perfiles de pool de Orbita.
var (
	// APIPool atiende las peticiones HTTP bajo RLS.
	APIPool = PoolOptions{Name: "orbita-api", MaxConns: 25, MinConns: 2, StatementTimeout: 15 * time.Second}
	// ServicePool conexión privilegiada: fallback del principal y procesos batch.
	ServicePool = PoolOptions{Name: "orbita-service", MaxConns: 4, StatementTimeout: time.Minute}
)

// NewPool crea el pool, registra el codec NUMERIC → decimal y verifica la conexión.
func NewPool(ctx context.Context, cfg config.DBConfig, opts PoolOptions) (*pgxpool.Pool, error) {
	poolConfig, err := poolConfigFor(cfg, opts)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool %s: %w", opts.Name, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB (%s): %w", opts.Name, err)
	}
	return pool, nil
}

func poolConfigFor(cfg config.DBConfig, opts PoolOptions) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	params := poolConfig.ConnConfig.RuntimeParams
	if opts.Name != "" {
		params["application_name"] = opts.Name
	}
	if opts.StatementTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(opts.StatementTimeout.Milliseconds(), 10)
	}

	if cfg.ForceIPv4 {
		poolConfig.ConnConfig.DialFunc = dialIPv4
	}

	poolConfig.MaxConns = 10
	if opts.MaxConns > 0 {
		poolConfig.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 && opts.MinConns <= poolConfig.MaxConns {
		poolConfig.MinConns = opts.MinConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return poolConfig, nil
}

// dialIPv4 abre la conexión por tcp4 usando el resolver del sistema.
func dialIPv4(ctx context.Context, _, addr string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "tcp4", addr)
}
