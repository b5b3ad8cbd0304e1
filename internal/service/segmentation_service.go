package service

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jengzang/travel-segments-go/internal/analysis"
	"github.com/jengzang/travel-segments-go/internal/analysis/segments"
	"github.com/jengzang/travel-segments-go/internal/metrics"
	"github.com/jengzang/travel-segments-go/internal/models"
	"github.com/jengzang/travel-segments-go/internal/repository"
	"github.com/jengzang/travel-segments-go/internal/segmentation"
)

// ErrInvalidParams marks run parameters that cannot be used
var ErrInvalidParams = eris.New("invalid run parameters")

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// SegmentationService handles segmentation run business logic
type SegmentationService struct {
	db       *sqlx.DB
	runs     *repository.RunRepository
	segments *repository.SegmentRepository
	defaults segmentation.Options

	wg sync.WaitGroup
}

// NewSegmentationService creates a new segmentation service
func NewSegmentationService(db *sqlx.DB, defaults segmentation.Options) *SegmentationService {
	return &SegmentationService{
		db:       db,
		runs:     repository.NewRunRepository(db),
		segments: repository.NewSegmentRepository(db),
		defaults: defaults,
	}
}

// CreateRun records a pending run and executes it in the background
func (s *SegmentationService) CreateRun(ctx context.Context, params models.RunParams, createdBy string) (*models.SegmentationRun, error) {
	run, err := s.newRun(ctx, params, createdBy)
	if err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// The request context ends with the response
		s.execute(context.Background(), run.ID)
	}()

	return run, nil
}

// RunNow records a run, executes it and returns its final state
func (s *SegmentationService) RunNow(ctx context.Context, params models.RunParams, createdBy string) (*models.SegmentationRun, error) {
	run, err := s.newRun(ctx, params, createdBy)
	if err != nil {
		return nil, err
	}

	runErr := s.execute(ctx, run.ID)

	final, err := s.runs.GetByID(context.WithoutCancel(ctx), run.ID)
	if err != nil {
		return nil, err
	}
	if runErr != nil {
		return final, runErr
	}
	return final, nil
}

// Wait blocks until every background run has finished
func (s *SegmentationService) Wait() {
	s.wg.Wait()
}

func (s *SegmentationService) newRun(ctx context.Context, params models.RunParams, createdBy string) (*models.SegmentationRun, error) {
	opts, err := s.resolveOptions(params)
	if err != nil {
		return nil, err
	}

	run := &models.SegmentationRun{
		ID:                uuid.NewString(),
		SkillName:         segments.SkillName,
		Status:            models.RunStatusPending,
		CutoffDate:        opts.CutoffDate,
		ActivityThreshold: opts.ActivityThreshold,
		ReferenceDate:     opts.ReferenceDate,
		NewCustomerDays:   opts.NewCustomerDays,
		CreatedBy:         createdBy,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}

	zap.L().Info("run created",
		zap.String("run_id", run.ID),
		zap.String("created_by", createdBy),
		zap.Time("cutoff_date", run.CutoffDate),
		zap.Int("activity_threshold", run.ActivityThreshold),
	)
	return run, nil
}

// resolveOptions overlays explicit params on the configured defaults
func (s *SegmentationService) resolveOptions(params models.RunParams) (segmentation.Options, error) {
	opts := s.defaults

	if params.CutoffDate != "" {
		d, err := time.Parse(segmentation.DateLayout, params.CutoffDate)
		if err != nil {
			return opts, eris.Wrapf(ErrInvalidParams, "cutoff_date %q", params.CutoffDate)
		}
		opts.CutoffDate = d
	}
	if params.ReferenceDate != "" {
		d, err := time.Parse(segmentation.DateLayout, params.ReferenceDate)
		if err != nil {
			return opts, eris.Wrapf(ErrInvalidParams, "reference_date %q", params.ReferenceDate)
		}
		opts.ReferenceDate = d
	}
	if params.ActivityThreshold != nil {
		if *params.ActivityThreshold < 0 {
			return opts, eris.Wrap(ErrInvalidParams, "activity_threshold must not be negative")
		}
		opts.ActivityThreshold = *params.ActivityThreshold
	}
	if params.NewCustomerDays != nil {
		if *params.NewCustomerDays < 0 {
			return opts, eris.Wrap(ErrInvalidParams, "new_customer_days must not be negative")
		}
		opts.NewCustomerDays = *params.NewCustomerDays
	}
	return opts, nil
}

// execute runs the registered analyzer and records failures on the run
func (s *SegmentationService) execute(ctx context.Context, runID string) error {
	log := zap.L().With(zap.String("run_id", runID))

	analyzer := analysis.GetAnalyzer(segments.SkillName, s.db)
	if analyzer == nil {
		err := eris.Errorf("no analyzer registered for %s", segments.SkillName)
		s.fail(runID, err)
		return err
	}

	// The analyzer records its own failures on the run
	if err := analyzer.Analyze(ctx, runID); err != nil {
		log.Error("run failed", zap.Error(err))
		metrics.RunsTotal.WithLabelValues(models.RunStatusFailed).Inc()
		return err
	}

	metrics.RunsTotal.WithLabelValues(models.RunStatusCompleted).Inc()
	return nil
}

func (s *SegmentationService) fail(runID string, cause error) {
	metrics.RunsTotal.WithLabelValues(models.RunStatusFailed).Inc()

	// Record the failure even when the run context was cancelled
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.runs.MarkAsFailed(ctx, runID, cause.Error()); err != nil {
		zap.L().Error("failed to mark run as failed", zap.String("run_id", runID), zap.Error(err))
	}
}

// GetRun retrieves a run by id
func (s *SegmentationService) GetRun(ctx context.Context, id string) (*models.SegmentationRun, error) {
	return s.runs.GetByID(ctx, id)
}

// ListRuns retrieves recent runs
func (s *SegmentationService) ListRuns(ctx context.Context, filter models.RunFilter) ([]models.SegmentationRun, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.runs.List(ctx, filter)
}

// GetSummary returns the summary of the last completed run
func (s *SegmentationService) GetSummary(ctx context.Context) ([]models.SegmentSummary, error) {
	return s.segments.ListSummary(ctx)
}

// ListUsers returns a page of user assignments
func (s *SegmentationService) ListUsers(ctx context.Context, filter models.UserSegmentFilter) (*models.UserSegmentsResponse, error) {
	if filter.Segment != "" {
		if _, ok := segmentation.RecommendedActions[filter.Segment]; !ok {
			return nil, eris.Wrapf(segmentation.ErrUnknownSegment, "segment %q", filter.Segment)
		}
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	users, total, err := s.segments.ListUsers(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &models.UserSegmentsResponse{
		Data:       users,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}, nil
}
