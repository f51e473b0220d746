package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"magnetic-field-service/internal/domain"
	"magnetic-field-service/internal/platform/obs"
	"time"
)

// SQLite-backed implementation of the RunRepository port.
type SqliteRunRepository struct{ DB *sql.DB }

func NewSqliteRunRepository(db *sql.DB) *SqliteRunRepository {
	return &SqliteRunRepository{DB: db}
}

// Store a completed run and return its id.
func (s *SqliteRunRepository) SaveRun(ctx context.Context, run *domain.FieldRun) (_ int64, err error) {
	defer obs.Time(ctx, "runs.sqlite.SaveRun")(&err)

	if s.DB == nil {
		return 0, errors.New("sqlite run repository: DB is nil")
	}
	locations, vectors, err := encodeRun(run)
	if err != nil {
		return 0, fmt.Errorf("save run: %w", err)
	}

	query := `
	INSERT INTO field_runs (
		current_amps,
		segments,
		targets,
		strict,
		wire_hash,
		created_at_ms,
		locations,
		vectors
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`
	res, err := s.DB.ExecContext(ctx, query,
		run.Current,
		run.Segments,
		run.Targets,
		run.Strict,
		run.WireHash,
		run.CreatedAt.UnixMilli(),
		locations,
		vectors,
	)
	if err != nil {
		return 0, fmt.Errorf("save run: insert field_runs: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save run: last insert id: %w", err)
	}
	return id, nil
}

// Return one run with its locations and vectors.
func (s *SqliteRunRepository) GetRun(ctx context.Context, id int64) (_ *domain.FieldRun, err error) {
	defer obs.Time(ctx, "runs.sqlite.GetRun")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite run repository: DB is nil")
	}

	query := `
	SELECT
		run_id,
		current_amps,
		segments,
		targets,
		strict,
		wire_hash,
		created_at_ms,
		locations,
		vectors
	FROM field_runs
	WHERE run_id = ?;
	`

	var (
		run         domain.FieldRun
		createdAtMs int64
		locs, vecs  []byte
	)
	err = s.DB.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.Current,
		&run.Segments,
		&run.Targets,
		&run.Strict,
		&run.WireHash,
		&createdAtMs,
		&locs,
		&vecs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %d: %w", id, domain.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %d: scan row: %w", id, err)
	}
	run.CreatedAt = time.UnixMilli(createdAtMs).UTC()

	if err := decodeRun(&run, locs, vecs); err != nil {
		return nil, fmt.Errorf("get run %d: %w", id, err)
	}
	return &run, nil
}

// Return run summaries, newest first.
func (s *SqliteRunRepository) ListRuns(ctx context.Context, limit int) (_ []*domain.FieldRun, err error) {
	defer obs.Time(ctx, "runs.sqlite.ListRuns")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite run repository: DB is nil")
	}

	query := `
	SELECT
		run_id,
		current_amps,
		segments,
		targets,
		strict,
		wire_hash,
		created_at_ms
	FROM field_runs
	ORDER BY run_id DESC
	LIMIT ?;
	`
	rows, err := s.DB.QueryContext(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list runs: query field_runs table: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.FieldRun, 0, 16)
	for rows.Next() {
		var run domain.FieldRun
		var createdAtMs int64
		if err := rows.Scan(
			&run.ID,
			&run.Current,
			&run.Segments,
			&run.Targets,
			&run.Strict,
			&run.WireHash,
			&createdAtMs,
		); err != nil {
			return nil, fmt.Errorf("list runs: scan row: %w", err)
		}
		run.CreatedAt = time.UnixMilli(createdAtMs).UTC()
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return runs, nil
}
