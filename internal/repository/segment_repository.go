package repository

import (
	"context"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"

	"github.com/jengzang/travel-segments-go/internal/database"
	"github.com/jengzang/travel-segments-go/internal/models"
)

const (
	summaryTable      = "segment_summary"
	userSegmentsTable = "user_segments"

	// Rows per INSERT, well under SQLite's bound variable limit
	insertBatchSize = 500
)

var (
	summaryStruct     = sqlbuilder.NewStruct(new(models.SegmentSummary)).For(sqlbuilder.SQLite)
	userSegmentStruct = sqlbuilder.NewStruct(new(models.UserSegment)).For(sqlbuilder.SQLite)
)

// SegmentRepository stores the output of segmentation runs
type SegmentRepository struct {
	db *sqlx.DB
}

// NewSegmentRepository creates a new segment repository
func NewSegmentRepository(db *sqlx.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// ReplaceResults swaps the stored summary and user assignments for those of
// runID in one transaction. Readers see either the old run or the new one.
func (r *SegmentRepository) ReplaceResults(ctx context.Context, runID string, summaries []models.SegmentSummary, users []models.UserSegment) error {
	return database.Transaction(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, table := range []string{summaryTable, userSegmentsTable} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return eris.Wrapf(err, "failed to clear %s", table)
			}
		}

		rows := make([]any, len(summaries))
		for i := range summaries {
			summaries[i].RunID = runID
			rows[i] = &summaries[i]
		}
		if err := insertBatches(ctx, tx, summaryStruct, summaryTable, rows); err != nil {
			return err
		}

		rows = make([]any, len(users))
		for i := range users {
			users[i].RunID = runID
			rows[i] = &users[i]
		}
		return insertBatches(ctx, tx, userSegmentStruct, userSegmentsTable, rows)
	})
}

func insertBatches(ctx context.Context, tx *sqlx.Tx, s *sqlbuilder.Struct, table string, rows []any) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))

		query, args := s.InsertInto(table, rows[start:end]...).Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return eris.Wrapf(err, "failed to insert into %s", table)
		}
	}
	return nil
}

// ListSummary returns the stored summary ordered by user count descending
func (r *SegmentRepository) ListSummary(ctx context.Context) ([]models.SegmentSummary, error) {
	sb := summaryStruct.SelectFrom(summaryTable)
	sb.OrderBy("user_count DESC", "segment ASC")

	query, args := sb.Build()
	summaries := []models.SegmentSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, eris.Wrap(err, "failed to list segment summary")
	}
	return summaries, nil
}

// ListUsers returns a page of user assignments and the total match count
func (r *SegmentRepository) ListUsers(ctx context.Context, filter models.UserSegmentFilter) ([]models.UserSegment, int64, error) {
	where := func(sb *sqlbuilder.SelectBuilder) {
		if filter.Segment != "" {
			sb.Where(sb.Equal("segment", filter.Segment))
		}
		if filter.RunID != "" {
			sb.Where(sb.Equal("run_id", filter.RunID))
		}
	}

	cb := sqlbuilder.SQLite.NewSelectBuilder()
	cb.Select("COUNT(*)").From(userSegmentsTable)
	where(cb)

	query, args := cb.Build()
	var total int64
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return nil, 0, eris.Wrap(err, "failed to count user segments")
	}

	sb := userSegmentStruct.SelectFrom(userSegmentsTable)
	where(sb)
	sb.OrderBy("user_id").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize)

	query, args = sb.Build()
	users := []models.UserSegment{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, eris.Wrap(err, "failed to list user segments")
	}
	return users, total, nil
}
