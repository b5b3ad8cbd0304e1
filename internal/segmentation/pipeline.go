package segmentation

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jengzang/travel-segments-go/internal/models"
)

// Result is the output of a segmentation run
type Result struct {
	SessionsConsidered int
	ActiveUsers        int
	Stats              models.PopulationStats
	Assignments        []models.SegmentAssignment
	Summary            []models.SegmentSummary
}

// Run executes every stage over an in-memory dataset
func Run(ctx context.Context, ds *models.Dataset, opts Options) (*Result, error) {
	if ds == nil {
		return nil, eris.New("segmentation: nil dataset")
	}
	log := zap.L().With(zap.String("component", "segmentation"))
	start := time.Now()

	sessions := FilterSessions(ds.Sessions, opts.CutoffDate)
	active := ActiveUsers(sessions, opts.ActivityThreshold)
	log.Debug("sessions filtered",
		zap.Int("sessions", len(sessions)),
		zap.Int("active_users", len(active)),
	)
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "segmentation: filter")
	}

	engineered := EngineerSessions(ds, sessions, active, opts)
	profiles := AggregateUsers(engineered)
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "segmentation: aggregate")
	}

	features := DeriveFeatures(profiles, opts)
	popStats := ComputePopulationStats(features)
	features = MarkFrequentFlyers(features, popStats)
	normalized := Normalize(features, popStats)
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "segmentation: normalize")
	}

	assignments := AssignSegments(normalized)
	summary, err := Summarize(assignments)
	if err != nil {
		return nil, eris.Wrap(err, "segmentation: summarize")
	}

	log.Info("segmentation finished",
		zap.Int("engineered_sessions", len(engineered)),
		zap.Int("users", len(assignments)),
		zap.Int("segments", len(summary)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Result{
		SessionsConsidered: len(engineered),
		ActiveUsers:        len(active),
		Stats:              popStats,
		Assignments:        assignments,
		Summary:            summary,
	}, nil
}
