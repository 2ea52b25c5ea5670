package marketdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/meenmo/swapval/swap/market"
)

// PostgresStore implements QuoteStore and FixingStore on PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE curve_nodes (
//	    curve_id   text        NOT NULL,
//	    curve_date date        NOT NULL,
//	    node_date  date        NOT NULL,
//	    df         numeric(20,15) NOT NULL,
//	    PRIMARY KEY (curve_id, curve_date, node_date)
//	);
//
//	CREATE TABLE fixings (
//	    index_name  text        NOT NULL,
//	    fixing_date date        NOT NULL,
//	    rate        numeric(12,10) NOT NULL,
//	    PRIMARY KEY (index_name, fixing_date)
//	);
type PostgresStore struct {
	db *sql.DB
}

var (
	_ QuoteStore  = (*PostgresStore)(nil)
	_ FixingStore = (*PostgresStore)(nil)
)

// NewPostgresStore opens a connection pool and verifies connectivity.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// CurveNodes loads a curve snapshot ordered by node date.
func (s *PostgresStore) CurveNodes(ctx context.Context, curveID string, curveDate time.Time) ([]CurveNode, error) {
	const query = `
		SELECT node_date, df
		FROM curve_nodes
		WHERE curve_id = $1 AND curve_date = $2
		ORDER BY node_date
	`
	rows, err := s.db.QueryContext(ctx, query, curveID, curveDate)
	if err != nil {
		return nil, fmt.Errorf("query curve nodes: %w", err)
	}
	defer rows.Close()

	var nodes []CurveNode
	for rows.Next() {
		var (
			nodeDate time.Time
			dfRaw    string
		)
		if err := rows.Scan(&nodeDate, &dfRaw); err != nil {
			return nil, fmt.Errorf("scan curve node: %w", err)
		}
		df, err := decimal.NewFromString(dfRaw)
		if err != nil {
			return nil, fmt.Errorf("parse df %q: %w", dfRaw, err)
		}
		nodes = append(nodes, CurveNode{Date: nodeDate, DF: df})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate curve nodes: %w", err)
	}
	if len(nodes) == 0 {
		return nil, ErrNotFound
	}
	return nodes, nil
}

// Fixing loads one published fixing.
func (s *PostgresStore) Fixing(ctx context.Context, index market.ReferenceIndex, date time.Time) (Fixing, error) {
	const query = `
		SELECT rate
		FROM fixings
		WHERE index_name = $1 AND fixing_date = $2
	`
	var rateRaw string
	err := s.db.QueryRowContext(ctx, query, string(index), date).Scan(&rateRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return Fixing{}, ErrNotFound
	}
	if err != nil {
		return Fixing{}, fmt.Errorf("query fixing: %w", err)
	}
	rate, err := decimal.NewFromString(rateRaw)
	if err != nil {
		return Fixing{}, fmt.Errorf("parse rate %q: %w", rateRaw, err)
	}
	return Fixing{Index: index, Date: date, Rate: rate}, nil
}

// SaveFixing upserts one fixing.
func (s *PostgresStore) SaveFixing(ctx context.Context, fixing Fixing) error {
	const query = `
		INSERT INTO fixings (index_name, fixing_date, rate)
		VALUES ($1, $2, $3)
		ON CONFLICT (index_name, fixing_date) DO UPDATE SET rate = EXCLUDED.rate
	`
	_, err := s.db.ExecContext(ctx, query, string(fixing.Index), fixing.Date, fixing.Rate.String())
	if err != nil {
		return fmt.Errorf("save fixing: %w", err)
	}
	return nil
}
