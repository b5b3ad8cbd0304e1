package segments

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/travel-segments-go/internal/analysis"
	"github.com/jengzang/travel-segments-go/internal/database/databasetest"
	"github.com/jengzang/travel-segments-go/internal/models"
	"github.com/jengzang/travel-segments-go/internal/repository"
	"github.com/jengzang/travel-segments-go/internal/segmentation"
)

func ptr[T any](v T) *T { return &v }

// smallDataset has one browser and three single-flight bookers, each with
// eight sessions after the default cutoff
func smallDataset() *models.Dataset {
	ds := &models.Dataset{}
	start := time.Date(2023, time.March, 1, 8, 0, 0, 0, time.UTC)
	n := 0
	session := func(userID int64, tripID *string, booked bool) {
		n++
		begin := start.Add(time.Duration(n) * time.Hour)
		ds.Sessions = append(ds.Sessions, models.Session{
			SessionID:    fmt.Sprintf("s%d", n),
			UserID:       userID,
			TripID:       tripID,
			SessionStart: begin,
			SessionEnd:   begin.Add(time.Duration(n%5+1) * time.Minute),
			FlightBooked: booked,
			PageClicks:   n % 11,
		})
	}

	for id := int64(1); id <= 4; id++ {
		ds.Users = append(ds.Users, models.User{
			UserID:     id,
			Birthdate:  ptr(time.Date(1980+int(id)*3, time.May, 1, 0, 0, 0, 0, time.UTC)),
			SignUpDate: ptr(time.Date(2022, time.January, 10, 0, 0, 0, 0, time.UTC)),
		})

		browse := 8
		if id > 1 {
			trip := fmt.Sprintf("t%d", id)
			ds.Flights = append(ds.Flights, models.Flight{
				TripID:        trip,
				Seats:         ptr(int(id)),
				CheckedBags:   ptr(int(id % 2)),
				BaseFareUSD:   ptr(100 * float64(id)),
				DepartureTime: ptr(start.AddDate(0, 1, 0)),
				ReturnTime:    ptr(start.AddDate(0, 1, int(id))),
			})
			session(id, &trip, true)
			browse = 7
		}
		for i := 0; i < browse; i++ {
			session(id, nil, false)
		}
	}
	return ds
}

func newRun(t *testing.T, conn *sqlx.DB, id string) {
	t.Helper()
	opts := segmentation.DefaultOptions()
	require.NoError(t, repository.NewRunRepository(conn).Create(context.Background(), &models.SegmentationRun{
		ID:                id,
		SkillName:         SkillName,
		Status:            models.RunStatusPending,
		CutoffDate:        opts.CutoffDate,
		ActivityThreshold: opts.ActivityThreshold,
		ReferenceDate:     opts.ReferenceDate,
		NewCustomerDays:   opts.NewCustomerDays,
	}))
}

func TestAnalyzerIsRegistered(t *testing.T) {
	assert.True(t, analysis.IsRegistered(SkillName))
	assert.Contains(t, analysis.RegisteredSkills(), SkillName)
}

func TestAnalyzeStoresResults(t *testing.T) {
	conn := databasetest.Open(t)
	databasetest.Seed(t, conn, smallDataset())
	newRun(t, conn, "run-1")
	ctx := context.Background()

	analyzer := analysis.GetAnalyzer(SkillName, conn)
	require.NotNil(t, analyzer)
	require.NoError(t, analyzer.Analyze(ctx, "run-1"))

	run, err := repository.NewRunRepository(conn).GetByID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, run.Status)
	assert.Equal(t, 4, run.ActiveUsers)
	assert.Equal(t, 32, run.SessionsConsidered)

	segments := repository.NewSegmentRepository(conn)
	summary, err := segments.ListSummary(ctx)
	require.NoError(t, err)
	assert.Len(t, summary, run.SegmentCount)

	total := 0
	for _, s := range summary {
		total += s.UserCount
		assert.Equal(t, "run-1", s.RunID)
		assert.Equal(t, segmentation.RecommendedActions[s.Segment], s.RecommendedAction)
	}
	assert.Equal(t, 4, total)

	users, count, err := segments.ListUsers(ctx, models.UserSegmentFilter{Segment: models.SegmentWindowShopper, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, int64(1), users[0].UserID)
	assert.Equal(t, 8, users[0].TotalSessions)
}

func TestAnalyzeUnknownRun(t *testing.T) {
	conn := databasetest.Open(t)

	err := NewSegmentationAnalyzer(conn).Analyze(context.Background(), "missing")
	assert.True(t, eris.Is(err, repository.ErrRunNotFound))
}

func TestAnalyzeMissingColumns(t *testing.T) {
	conn := databasetest.Open(t)
	newRun(t, conn, "run-1")
	_, err := conn.Exec("ALTER TABLE sessions DROP COLUMN page_clicks")
	require.NoError(t, err)

	err = NewSegmentationAnalyzer(conn).Analyze(context.Background(), "run-1")
	assert.True(t, eris.Is(err, repository.ErrMissingColumns))

	run, err := repository.NewRunRepository(conn).GetByID(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusFailed, run.Status)
	assert.Contains(t, run.ErrorMessage, "page_clicks")
}

func TestUserSegmentsCopiesScoresAndFeatures(t *testing.T) {
	now := time.Now().UTC()
	features := &models.NormalizedFeatures{UserFeatures: models.UserFeatures{
		UserProfile: models.UserProfile{TotalSessions: 9},
		BookingRate: 0.25,
	}}

	rows := UserSegments([]models.SegmentAssignment{
		{UserID: 5, Segment: models.SegmentFamily, Score: models.SegmentScore{Family: 0.7}, Features: features},
	}, now)

	require.Len(t, rows, 1)
	assert.Equal(t, 0.7, rows[0].FamilyScore)
	assert.Equal(t, 9, rows[0].TotalSessions)
	assert.Equal(t, 0.25, rows[0].BookingRate)
	assert.Equal(t, now, rows[0].CreatedAt)
}
