package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"Firebox/internal/calc/heater"

	"github.com/ansel1/merry"
	_ "github.com/lib/pq"
)

var ErrNotFound = merry.New("run not found").WithHTTPCode(404)

// Run is one stored calculation.
type Run struct {
	ID        int           `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Net       float64       `json:"net_efficiency"`
	Gross     float64       `json:"gross_efficiency"`
	Fuel      float64       `json:"fuel_efficiency"`
	Result    heater.Result `json:"result"`
}

// RunRepository stores calculation runs.
type RunRepository interface {
	Record(ctx context.Context, res heater.Result) (int, error)
	List(ctx context.Context, limit, offset int) ([]Run, error)
	Get(ctx context.Context, id int) (Run, error)
}

const Schema = `CREATE TABLE IF NOT EXISTS runs (
	id               SERIAL PRIMARY KEY,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	parameters       JSONB NOT NULL,
	result           JSONB NOT NULL,
	net_efficiency   DOUBLE PRECISION NOT NULL,
	gross_efficiency DOUBLE PRECISION NOT NULL,
	fuel_efficiency  DOUBLE PRECISION NOT NULL
)`

type PostgresRunRepository struct {
	db *sql.DB
}

func NewPostgresRunDB(db *sql.DB) *PostgresRunRepository {
	return &PostgresRunRepository{db: db}
}

// Migrate creates the runs table when it is missing.
func (r *PostgresRunRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return merry.Prepend(err, "migrate runs")
}

func (r *PostgresRunRepository) Record(ctx context.Context, res heater.Result) (int, error) {
	params, err := json.Marshal(res.Parameters)
	if err != nil {
		return 0, merry.Wrap(err)
	}
	body, err := json.Marshal(res)
	if err != nil {
		return 0, merry.Wrap(err)
	}
	var id int
	query := `INSERT INTO runs (parameters, result, net_efficiency, gross_efficiency, fuel_efficiency)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err = r.db.QueryRowContext(ctx, query, params, body,
		res.NetEfficiency, res.GrossEfficiency, res.FuelEfficiency).Scan(&id)
	return id, merry.Prepend(err, "insert run")
}

func (r *PostgresRunRepository) List(ctx context.Context, limit, offset int) ([]Run, error) {
	query := `SELECT id, created_at, net_efficiency, gross_efficiency, fuel_efficiency, result
		FROM runs ORDER BY id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, merry.Prepend(err, "list runs")
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, merry.Prepend(rows.Err(), "list runs")
}

func (r *PostgresRunRepository) Get(ctx context.Context, id int) (Run, error) {
	query := `SELECT id, created_at, net_efficiency, gross_efficiency, fuel_efficiency, result
		FROM runs WHERE id=$1`
	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if merry.Is(err, sql.ErrNoRows) {
		return Run{}, merry.Appendf(ErrNotFound, "id %d", id)
	}
	return run, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (Run, error) {
	var run Run
	var body []byte
	if err := s.Scan(&run.ID, &run.CreatedAt, &run.Net, &run.Gross, &run.Fuel, &body); err != nil {
		return Run{}, merry.Wrap(err)
	}
	if err := json.Unmarshal(body, &run.Result); err != nil {
		return Run{}, merry.Prependf(err, "run %d", run.ID)
	}
	return run, nil
}

// InitDB opens and pings the database at connStr.
func InitDB(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", withSSLMode(connStr))
	if err != nil {
		return nil, merry.Prepend(err, "database config")
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, merry.Prepend(err, "database ping")
	}
	return db, nil
}

// withSSLMode makes connection strings without sslmode require TLS.
func withSSLMode(connStr string) string {
	if strings.Contains(connStr, "sslmode=") {
		return connStr
	}
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if strings.Contains(connStr, "?") {
			return connStr + "&sslmode=require"
		}
		return connStr + "?sslmode=require"
	}
	return connStr + " sslmode=require"
}
