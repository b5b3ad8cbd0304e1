package analysis

import (
	"context"
	"sort"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/jengzang/travel-segments-go/internal/models"
	"github.com/jengzang/travel-segments-go/internal/repository"
)

// Analyzer is the interface every registered skill implements
type Analyzer interface {
	// Analyze executes the run with the given id. The run row must already
	// exist; the analyzer moves it to running and then completed.
	Analyze(ctx context.Context, runID string) error

	// GetName returns the name of the analyzer
	GetName() string
}

// BaseAnalyzer provides run bookkeeping shared by all analyzers
type BaseAnalyzer struct {
	DB   *sqlx.DB
	Name string
	Runs *repository.RunRepository
}

// NewBaseAnalyzer creates a new base analyzer
func NewBaseAnalyzer(db *sqlx.DB, name string) *BaseAnalyzer {
	return &BaseAnalyzer{
		DB:   db,
		Name: name,
		Runs: repository.NewRunRepository(db),
	}
}

// GetName returns the analyzer name
func (a *BaseAnalyzer) GetName() string {
	return a.Name
}

// GetRunInfo retrieves the run and its parameters
func (a *BaseAnalyzer) GetRunInfo(ctx context.Context, runID string) (*models.SegmentationRun, error) {
	return a.Runs.GetByID(ctx, runID)
}

// MarkRunAsRunning marks a run as running
func (a *BaseAnalyzer) MarkRunAsRunning(ctx context.Context, runID string) error {
	return a.Runs.MarkAsRunning(ctx, runID)
}

// MarkRunAsCompleted marks a run as completed with its result counts
func (a *BaseAnalyzer) MarkRunAsCompleted(ctx context.Context, runID string, sessions, activeUsers, segments int) error {
	return a.Runs.MarkAsCompleted(ctx, runID, sessions, activeUsers, segments)
}

// MarkRunAsFailed marks a run as failed with an error message
func (a *BaseAnalyzer) MarkRunAsFailed(ctx context.Context, runID string, errorMsg string) error {
	return a.Runs.MarkAsFailed(ctx, runID, errorMsg)
}

// AnalyzerFactory is a function that creates an analyzer instance
type AnalyzerFactory func(db *sqlx.DB) Analyzer

var (
	registryMu sync.RWMutex
	registry   = make(map[string]AnalyzerFactory)
)

// RegisterAnalyzer registers an analyzer factory for a skill name
func RegisterAnalyzer(skillName string, factory AnalyzerFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[skillName] = factory
}

// GetAnalyzer creates an analyzer for a skill name, or nil when none is registered
func GetAnalyzer(skillName string, db *sqlx.DB) Analyzer {
	registryMu.RLock()
	factory, ok := registry[skillName]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return factory(db)
}

// IsRegistered checks if a skill has an analyzer
func IsRegistered(skillName string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[skillName]
	return ok
}

// RegisteredSkills lists the registered skill names in order
func RegisteredSkills() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
