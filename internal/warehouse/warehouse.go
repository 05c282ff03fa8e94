//-------------------------------------------------------------------------
//
// SuperMart ETL
//
// Copyright (c) 2025 - 2026, EAN TechRetail Solutions
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse loads the batch outputs into a PostgreSQL warehouse.
// The sink is optional; when enabled it mirrors the latest batch, replacing
// the rows of any prior run.
package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/eantechretail/supermart-etl/internal/logging"
	"github.com/eantechretail/supermart-etl/internal/pipeline"
)

const createSchemaSQL = `
CREATE TABLE IF NOT EXISTS ventas_enriquecidas (
    order_id        BIGINT,
    producto_id     TEXT,
    cantidad        BIGINT,
    precio_unitario DOUBLE PRECISION,
    cliente_id      TEXT,
    tienda_id       TEXT,
    fecha           DATE,
    monto_total     NUMERIC(12,2),
    categoria_venta TEXT,
    anio            INTEGER,
    mes             INTEGER,
    dia_semana      TEXT,
    categoria       TEXT,
    ciudad          TEXT,
    region          TEXT
);

CREATE TABLE IF NOT EXISTS mart_ventas (
    fecha             DATE,
    anio              INTEGER,
    mes               INTEGER,
    dia_semana        TEXT,
    ciudad            TEXT,
    region            TEXT,
    categoria         TEXT,
    num_transacciones BIGINT NOT NULL,
    unidades          BIGINT NOT NULL,
    ingresos          NUMERIC(14,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS resumen_metricas (
    metrica TEXT PRIMARY KEY,
    valor   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS etl_runs (
    ejecutado_en       TIMESTAMPTZ NOT NULL,
    filas_enriquecidas BIGINT NOT NULL,
    grupos_mart        BIGINT NOT NULL
);
`

// Load connects to the warehouse, ensures the schema, and replaces the
// previous batch with the given run's outputs.
func Load(ctx context.Context, connString string, res *pipeline.Result) error {
	pool, err := connect(ctx, connString)
	if err != nil {
		return err
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("create warehouse schema: %w", err)
	}
	if _, err := pool.Exec(ctx,
		"TRUNCATE ventas_enriquecidas, mart_ventas, resumen_metricas"); err != nil {
		return fmt.Errorf("truncate warehouse tables: %w", err)
	}

	if err := copyEnriched(ctx, pool, res.Enriched); err != nil {
		return err
	}
	if err := copyMart(ctx, pool, res.Mart); err != nil {
		return err
	}
	if res.HasSummary {
		for _, m := range res.Summary.Metrics() {
			if _, err := pool.Exec(ctx,
				"INSERT INTO resumen_metricas (metrica, valor) VALUES ($1, $2)",
				m.Name, m.Value); err != nil {
				return fmt.Errorf("insert metric %s: %w", m.Name, err)
			}
		}
	}

	if _, err := pool.Exec(ctx,
		"INSERT INTO etl_runs (ejecutado_en, filas_enriquecidas, grupos_mart) VALUES ($1, $2, $3)",
		res.GeneratedAt, len(res.Enriched), len(res.Mart)); err != nil {
		return fmt.Errorf("record etl run: %w", err)
	}

	logging.Info().
		Int("enriched_rows", len(res.Enriched)).
		Int("mart_groups", len(res.Mart)).
		Msg("Warehouse load complete")
	return nil
}

func connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	// One batch writer; a large pool buys nothing here.
	config.MaxConns = 2
	config.MaxConnLifetime = 30 * time.Minute

	logging.Debug().
		Str("host", config.ConnConfig.Host).
		Str("database", config.ConnConfig.Database).
		Msg("Connecting to warehouse")

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}
	return pool, nil
}

func copyEnriched(ctx context.Context, pool *pgxpool.Pool, rows []pipeline.Enriched) error {
	columns := []string{
		"order_id", "producto_id", "cantidad", "precio_unitario", "cliente_id",
		"tienda_id", "fecha", "monto_total", "categoria_venta", "anio", "mes",
		"dia_semana", "categoria", "ciudad", "region",
	}
	values := make([][]any, len(rows))
	for i, r := range rows {
		values[i] = []any{
			r.OrderID, r.ProductID, r.Quantity, r.UnitPrice, r.CustomerID,
			r.StoreID, r.Date, decString(r.Total), nullIfEmpty(r.SizeClass),
			r.Year, r.Month, r.Weekday, r.Category, r.City, r.Region,
		}
	}
	if _, err := pool.CopyFrom(ctx,
		pgx.Identifier{"ventas_enriquecidas"}, columns, pgx.CopyFromRows(values)); err != nil {
		return fmt.Errorf("copy enriched rows: %w", err)
	}
	return nil
}

func copyMart(ctx context.Context, pool *pgxpool.Pool, rows []pipeline.MartRow) error {
	columns := []string{
		"fecha", "anio", "mes", "dia_semana", "ciudad", "region", "categoria",
		"num_transacciones", "unidades", "ingresos",
	}
	values := make([][]any, len(rows))
	for i, r := range rows {
		values[i] = []any{
			r.Date, r.Year, r.Month, r.Weekday, r.City, r.Region, r.Category,
			r.Transactions, r.Units, r.Revenue.StringFixed(2),
		}
	}
	if _, err := pool.CopyFrom(ctx,
		pgx.Identifier{"mart_ventas"}, columns, pgx.CopyFromRows(values)); err != nil {
		return fmt.Errorf("copy mart rows: %w", err)
	}
	return nil
}

func decString(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.StringFixed(2)
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
