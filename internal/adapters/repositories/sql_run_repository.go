package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"magnetic-field-service/internal/domain"
	"magnetic-field-service/internal/platform/codec"
	"magnetic-field-service/internal/platform/obs"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// SQLRunRepository is the Postgres-backed RunRepository.
type SQLRunRepository struct {
	DB *sql.DB
}

func NewSQLRunRepository(db *sql.DB) *SQLRunRepository {
	return &SQLRunRepository{DB: db}
}

// Store a completed run and return its id.
func (s *SQLRunRepository) SaveRun(ctx context.Context, run *domain.FieldRun) (_ int64, err error) {
	defer obs.Time(ctx, "runs.sql.SaveRun")(&err)

	if s.DB == nil {
		return 0, errors.New("run repository: db is nil")
	}
	locations, vectors, err := encodeRun(run)
	if err != nil {
		return 0, fmt.Errorf("save run: %w", err)
	}

	q := `
	INSERT INTO field_runs (current_amps, segments, targets, strict, wire_hash, created_at, locations, vectors)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING run_id;
	`

	var id int64
	err = s.DB.QueryRowContext(ctx, q,
		run.Current, run.Segments, run.Targets, run.Strict,
		run.WireHash, run.CreatedAt, locations, vectors,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save run: insert field_runs: %w", err)
	}
	return id, nil
}

// Return one run with its locations and vectors.
func (s *SQLRunRepository) GetRun(ctx context.Context, id int64) (_ *domain.FieldRun, err error) {
	defer obs.Time(ctx, "runs.sql.GetRun")(&err)

	if s.DB == nil {
		return nil, errors.New("run repository: db is nil")
	}

	q := `
	SELECT run_id, current_amps, segments, targets, strict, wire_hash, created_at, locations, vectors
	FROM field_runs
	WHERE run_id = $1;
	`

	var run domain.FieldRun
	var locs, vecs []byte
	err = s.DB.QueryRowContext(ctx, q, id).Scan(
		&run.ID, &run.Current, &run.Segments, &run.Targets, &run.Strict,
		&run.WireHash, &run.CreatedAt, &locs, &vecs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %d: %w", id, domain.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %d: scan row: %w", id, err)
	}

	if err := decodeRun(&run, locs, vecs); err != nil {
		return nil, fmt.Errorf("get run %d: %w", id, err)
	}
	return &run, nil
}

// Return run summaries, newest first.
func (s *SQLRunRepository) ListRuns(ctx context.Context, limit int) (_ []*domain.FieldRun, err error) {
	defer obs.Time(ctx, "runs.sql.ListRuns")(&err)

	if s.DB == nil {
		return nil, errors.New("run repository: db is nil")
	}

	q := `
	SELECT run_id, current_amps, segments, targets, strict, wire_hash, created_at
	FROM field_runs
	ORDER BY run_id DESC
	LIMIT $1;
	`

	rows, err := s.DB.QueryContext(ctx, q, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list runs: query field_runs table: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.FieldRun, 0, 16)
	for rows.Next() {
		var run domain.FieldRun
		if err := rows.Scan(
			&run.ID, &run.Current, &run.Segments, &run.Targets, &run.Strict,
			&run.WireHash, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("list runs: scan rows: %w", err)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return runs, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func encodeRun(run *domain.FieldRun) (locations, vectors []byte, err error) {
	if run == nil {
		return nil, nil, errors.New("run must be non-nil")
	}
	if len(run.Locations) != len(run.Vectors) {
		return nil, nil, fmt.Errorf(
			"%w: run has %d locations but %d vectors",
			domain.ErrInvalidGeometry, len(run.Locations), len(run.Vectors),
		)
	}

	if locations, err = codec.EncodePoints(run.Locations); err != nil {
		return nil, nil, err
	}
	if vectors, err = codec.EncodePoints(run.Vectors); err != nil {
		return nil, nil, err
	}
	return locations, vectors, nil
}

func decodeRun(run *domain.FieldRun, locations, vectors []byte) error {
	var err error
	if run.Locations, err = codec.DecodePoints(locations); err != nil {
		return fmt.Errorf("locations: %w", err)
	}
	if run.Vectors, err = codec.DecodePoints(vectors); err != nil {
		return fmt.Errorf("vectors: %w", err)
	}
	return nil
}
