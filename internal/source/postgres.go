package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/settlements/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx used by the Postgres loader.
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres reads records from a table with region, subregion, authority,
// locality and status text columns.
type Postgres struct {
	db      Querier
	table   string
	orderBy string
}

// NewPostgres creates a loader. orderBy names the column that carries the
// dataset order; when empty the table's physical order is used.
func NewPostgres(db Querier, table, orderBy string) *Postgres {
	return &Postgres{db: db, table: table, orderBy: orderBy}
}

func (p *Postgres) Name() string { return "postgres" }

// selectSQL builds the query with quoted identifiers.
func (p *Postgres) selectSQL() string {
	cols := make([]string, len(core.Fields))
	for i, f := range core.Fields {
		cols[i] = pgx.Identifier{f.Key()}.Sanitize()
	}

	q := "SELECT " + strings.Join(cols, ", ") + " FROM " + tableIdentifier(p.table).Sanitize()
	if p.orderBy != "" {
		q += " ORDER BY " + pgx.Identifier{p.orderBy}.Sanitize()
	}
	return q
}

// tableIdentifier splits an optional schema prefix ("geo.settlements").
func tableIdentifier(table string) pgx.Identifier {
	if schema, name, ok := strings.Cut(table, "."); ok {
		return pgx.Identifier{schema, name}
	}
	return pgx.Identifier{table}
}

// Load reads every row. NULL columns become "".
func (p *Postgres) Load(ctx context.Context) ([]core.Record, error) {
	rows, err := p.db.Query(ctx, p.selectSQL())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", p.table, err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var region, subregion, authority, locality, status pgtype.Text
		if err := rows.Scan(&region, &subregion, &authority, &locality, &status); err != nil {
			return nil, fmt.Errorf("scan %s: %w", p.table, err)
		}
		records = append(records, core.Record{
			Region:    region.String,
			Subregion: subregion.String,
			Authority: authority.String,
			Locality:  locality.String,
			Status:    status.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", p.table, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("table %s: %w", p.table, ErrEmptyDataset)
	}
	return records, nil
}

// PoolConfig holds connection pool settings for OpenPool.
type PoolConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// OpenPool parses the URL, applies pool limits, connects and pings.
func OpenPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
