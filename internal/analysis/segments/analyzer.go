// Package segments registers the persona segmentation skill.
package segments

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jengzang/travel-segments-go/internal/analysis"
	"github.com/jengzang/travel-segments-go/internal/metrics"
	"github.com/jengzang/travel-segments-go/internal/models"
	"github.com/jengzang/travel-segments-go/internal/repository"
	"github.com/jengzang/travel-segments-go/internal/segmentation"
)

// SkillName is the registry key of the segmentation analyzer
const SkillName = "persona_segmentation"

// SegmentationAnalyzer runs the persona pipeline over the source tables and
// stores the summary and per-user assignments
type SegmentationAnalyzer struct {
	*analysis.BaseAnalyzer
	sources  *repository.SourceRepository
	segments *repository.SegmentRepository
}

// NewSegmentationAnalyzer creates a new segmentation analyzer
func NewSegmentationAnalyzer(db *sqlx.DB) analysis.Analyzer {
	return &SegmentationAnalyzer{
		BaseAnalyzer: analysis.NewBaseAnalyzer(db, SkillName),
		sources:      repository.NewSourceRepository(db),
		segments:     repository.NewSegmentRepository(db),
	}
}

// Analyze executes one run end to end
func (a *SegmentationAnalyzer) Analyze(ctx context.Context, runID string) error {
	log := zap.L().With(zap.String("analyzer", SkillName), zap.String("run_id", runID))
	start := time.Now()

	run, err := a.GetRunInfo(ctx, runID)
	if err != nil {
		return err
	}
	if err := a.MarkRunAsRunning(ctx, runID); err != nil {
		return eris.Wrap(err, "failed to mark run as running")
	}

	metrics.RunsInFlight.Inc()
	defer metrics.RunsInFlight.Dec()

	if err := a.analyze(ctx, run, start); err != nil {
		// Record the failure even when the run context was cancelled
		failCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if markErr := a.MarkRunAsFailed(failCtx, runID, err.Error()); markErr != nil {
			log.Error("failed to mark run as failed", zap.Error(markErr))
		}
		return err
	}
	return nil
}

func (a *SegmentationAnalyzer) analyze(ctx context.Context, run *models.SegmentationRun, start time.Time) error {
	runID := run.ID
	log := zap.L().With(zap.String("analyzer", SkillName), zap.String("run_id", runID))

	if err := a.sources.CheckSchema(ctx); err != nil {
		return err
	}
	ds, err := a.sources.LoadDataset(ctx)
	if err != nil {
		return err
	}

	res, err := segmentation.Run(ctx, ds, optionsOf(run))
	if err != nil {
		return err
	}

	users := UserSegments(res.Assignments, time.Now().UTC())
	if err := a.segments.ReplaceResults(ctx, runID, res.Summary, users); err != nil {
		return eris.Wrap(err, "failed to store results")
	}

	if err := a.MarkRunAsCompleted(ctx, runID, res.SessionsConsidered, res.ActiveUsers, len(res.Summary)); err != nil {
		return eris.Wrap(err, "failed to mark run as completed")
	}

	counts := make(map[string]int, len(res.Summary))
	for _, s := range res.Summary {
		counts[s.Segment] = s.UserCount
	}
	metrics.RecordSegments(res.ActiveUsers, counts)
	metrics.RunDuration.Observe(time.Since(start).Seconds())

	log.Info("run completed",
		zap.Int("sessions", res.SessionsConsidered),
		zap.Int("active_users", res.ActiveUsers),
		zap.Int("segments", len(res.Summary)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func optionsOf(run *models.SegmentationRun) segmentation.Options {
	return segmentation.Options{
		CutoffDate:        run.CutoffDate,
		ActivityThreshold: run.ActivityThreshold,
		ReferenceDate:     run.ReferenceDate,
		NewCustomerDays:   run.NewCustomerDays,
	}
}

// UserSegments flattens assignments into storable rows
func UserSegments(assignments []models.SegmentAssignment, createdAt time.Time) []models.UserSegment {
	users := make([]models.UserSegment, 0, len(assignments))
	for _, a := range assignments {
		u := models.UserSegment{
			UserID:             a.UserID,
			Segment:            a.Segment,
			BusinessScore:      a.Score.Business,
			FamilyScore:        a.Score.Family,
			LuxuryScore:        a.Score.Luxury,
			DealHunterScore:    a.Score.DealHunter,
			YoungExplorerScore: a.Score.YoungExplorer,
			CreatedAt:          createdAt,
		}
		if f := a.Features; f != nil {
			u.TotalSessions = f.TotalSessions
			u.BookingRate = f.BookingRate
			u.DiscountUsageRate = f.DiscountUsageRate
			u.AvgFlightCostPerTrip = f.AvgFlightCostPerTrip
			u.AvgHotelCostPerTrip = f.AvgHotelCostPerTrip
		}
		users = append(users, u)
	}
	return users
}

func init() {
	analysis.RegisterAnalyzer(SkillName, NewSegmentationAnalyzer)
}
