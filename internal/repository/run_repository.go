package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"

	"github.com/jengzang/travel-segments-go/internal/models"
)

const runsTable = "segmentation_runs"

// ErrRunNotFound is returned when a run id does not exist
var ErrRunNotFound = eris.New("segmentation run not found")

var runStruct = sqlbuilder.NewStruct(new(models.SegmentationRun)).For(sqlbuilder.SQLite)

// RunRepository handles database operations for segmentation runs
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run
func (r *RunRepository) Create(ctx context.Context, run *models.SegmentationRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	ib := runStruct.InsertInto(runsTable, run)
	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return eris.Wrapf(err, "failed to create run %s", run.ID)
	}
	return nil
}

// GetByID retrieves a run by id
func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.SegmentationRun, error) {
	sb := runStruct.SelectFrom(runsTable)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var run models.SegmentationRun
	err := r.db.GetContext(ctx, &run, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrRunNotFound, "run %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "failed to get run %s", id)
	}
	return &run, nil
}

// List returns the most recent runs first
func (r *RunRepository) List(ctx context.Context, filter models.RunFilter) ([]models.SegmentationRun, error) {
	sb := runStruct.SelectFrom(runsTable)
	if filter.Status != "" {
		sb.Where(sb.Equal("status", filter.Status))
	}
	sb.OrderBy("created_at").Desc()

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	sb.Limit(limit)

	query, args := sb.Build()
	runs := []models.SegmentationRun{}
	if err := r.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, eris.Wrap(err, "failed to list runs")
	}
	return runs, nil
}

// MarkAsRunning marks a run as running
func (r *RunRepository) MarkAsRunning(ctx context.Context, id string) error {
	ub := sqlbuilder.SQLite.NewUpdateBuilder()
	ub.Update(runsTable).
		Set(
			ub.Assign("status", models.RunStatusRunning),
			ub.Assign("started_at", time.Now().UTC()),
		).
		Where(ub.Equal("id", id))

	return r.exec(ctx, ub, id)
}

// MarkAsCompleted records the result counts of a finished run
func (r *RunRepository) MarkAsCompleted(ctx context.Context, id string, sessions, activeUsers, segments int) error {
	ub := sqlbuilder.SQLite.NewUpdateBuilder()
	ub.Update(runsTable).
		Set(
			ub.Assign("status", models.RunStatusCompleted),
			ub.Assign("sessions_considered", sessions),
			ub.Assign("active_users", activeUsers),
			ub.Assign("segment_count", segments),
			ub.Assign("completed_at", time.Now().UTC()),
		).
		Where(ub.Equal("id", id))

	return r.exec(ctx, ub, id)
}

// MarkAsFailed marks a run as failed with an error message
func (r *RunRepository) MarkAsFailed(ctx context.Context, id string, errorMsg string) error {
	ub := sqlbuilder.SQLite.NewUpdateBuilder()
	ub.Update(runsTable).
		Set(
			ub.Assign("status", models.RunStatusFailed),
			ub.Assign("error_message", errorMsg),
			ub.Assign("completed_at", time.Now().UTC()),
		).
		Where(ub.Equal("id", id))

	return r.exec(ctx, ub, id)
}

func (r *RunRepository) exec(ctx context.Context, b sqlbuilder.Builder, id string) error {
	query, args := b.Build()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return eris.Wrapf(err, "failed to update run %s", id)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return eris.Wrapf(ErrRunNotFound, "run %s", id)
	}
	return nil
}
