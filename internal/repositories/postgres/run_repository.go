package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/chrisdamba/shelfsim/internal/models"
)

var ErrRunNotFound = errors.New("run not found")

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type RunRepository struct {
	db DB
}

func NewRunRepository(db DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) Migrate(ctx context.Context) error {
	query := `
        CREATE TABLE IF NOT EXISTS simulation_runs (
            run_id      TEXT PRIMARY KEY,
            seed        BIGINT NOT NULL,
            orders      INTEGER NOT NULL,
            ticks       INTEGER NOT NULL,
            delivered   INTEGER NOT NULL,
            discarded   INTEGER NOT NULL,
            wasted      INTEGER NOT NULL,
            started_at  TIMESTAMPTZ NOT NULL,
            finished_at TIMESTAMPTZ NOT NULL
        )`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create simulation_runs: %w", err)
	}
	return nil
}

func (r *RunRepository) Create(ctx context.Context, run models.RunSummary) error {
	query := `
        INSERT INTO simulation_runs (
            run_id, seed, orders, ticks, delivered, discarded, wasted,
            started_at, finished_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		run.RunID,
		run.Seed,
		run.Orders,
		run.Ticks,
		run.Totals.Delivered,
		run.Totals.Discarded,
		run.Totals.Wasted,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.RunID, err)
	}
	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, runID string) (*models.RunSummary, error) {
	query := `
        SELECT run_id, seed, orders, ticks, delivered, discarded, wasted,
               started_at, finished_at
        FROM simulation_runs
        WHERE run_id = $1`

	var run models.RunSummary
	err := r.db.QueryRow(ctx, query, runID).Scan(
		&run.RunID,
		&run.Seed,
		&run.Orders,
		&run.Ticks,
		&run.Totals.Delivered,
		&run.Totals.Discarded,
		&run.Totals.Wasted,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	return &run, nil
}

func (r *RunRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM simulation_runs").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
