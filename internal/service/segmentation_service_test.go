package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/travel-segments-go/internal/database/databasetest"
	"github.com/jengzang/travel-segments-go/internal/models"
	"github.com/jengzang/travel-segments-go/internal/repository"
	"github.com/jengzang/travel-segments-go/internal/segmentation"
)

func ptr[T any](v T) *T { return &v }

// seedBrowsers inserts users that each browse the given number of times
func seedBrowsers(t *testing.T, conn *sqlx.DB, users, sessions int) {
	t.Helper()
	ds := &models.Dataset{}
	start := time.Date(2023, time.April, 2, 10, 0, 0, 0, time.UTC)
	for u := 1; u <= users; u++ {
		ds.Users = append(ds.Users, models.User{UserID: int64(u)})
		for s := 0; s < sessions; s++ {
			begin := start.Add(time.Duration(u*100+s) * time.Minute)
			ds.Sessions = append(ds.Sessions, models.Session{
				SessionID:    fmt.Sprintf("u%d-s%d", u, s),
				UserID:       int64(u),
				SessionStart: begin,
				SessionEnd:   begin.Add(2 * time.Minute),
				PageClicks:   s,
			})
		}
	}
	databasetest.Seed(t, conn, ds)
}

func newService(t *testing.T) (*SegmentationService, *sqlx.DB) {
	conn := databasetest.Open(t)
	return NewSegmentationService(conn, segmentation.DefaultOptions()), conn
}

func TestRunNowCompletes(t *testing.T) {
	svc, conn := newService(t)
	seedBrowsers(t, conn, 3, 8)
	ctx := context.Background()

	run, err := svc.RunNow(ctx, models.RunParams{}, "cli")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, run.Status)
	assert.Equal(t, 3, run.ActiveUsers)
	assert.Equal(t, 1, run.SegmentCount)
	assert.Equal(t, "cli", run.CreatedBy)

	summary, err := svc.GetSummary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, models.SegmentWindowShopper, summary[0].Segment)
	assert.Equal(t, 3, summary[0].UserCount)
}

func TestRunNowAppliesParams(t *testing.T) {
	svc, conn := newService(t)
	seedBrowsers(t, conn, 2, 5)

	run, err := svc.RunNow(context.Background(), models.RunParams{
		ActivityThreshold: ptr(4),
		CutoffDate:        "2023-04-01",
	}, "api")
	require.NoError(t, err)

	assert.Equal(t, 4, run.ActivityThreshold)
	assert.True(t, run.CutoffDate.Equal(time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, run.ActiveUsers)
}

func TestCreateRunExecutesInBackground(t *testing.T) {
	svc, conn := newService(t)
	seedBrowsers(t, conn, 2, 9)
	ctx := context.Background()

	run, err := svc.CreateRun(ctx, models.RunParams{}, "api")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusPending, run.Status)

	svc.Wait()

	got, err := svc.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, got.Status)

	runs, err := svc.ListRuns(ctx, models.RunFilter{Status: models.RunStatusCompleted})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRunFailureIsRecorded(t *testing.T) {
	svc, conn := newService(t)
	_, err := conn.Exec("ALTER TABLE users DROP COLUMN gender")
	require.NoError(t, err)

	run, err := svc.RunNow(context.Background(), models.RunParams{}, "cli")
	require.Error(t, err)
	assert.True(t, eris.Is(err, repository.ErrMissingColumns))
	require.NotNil(t, run)
	assert.Equal(t, models.RunStatusFailed, run.Status)
	assert.Contains(t, run.ErrorMessage, "gender")
}

func TestInvalidParams(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateRun(ctx, models.RunParams{CutoffDate: "yesterday"}, "api")
	assert.True(t, eris.Is(err, ErrInvalidParams))

	_, err = svc.CreateRun(ctx, models.RunParams{NewCustomerDays: ptr(-3)}, "api")
	assert.True(t, eris.Is(err, ErrInvalidParams))

	runs, err := svc.ListRuns(ctx, models.RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestListUsersPagination(t *testing.T) {
	svc, conn := newService(t)
	seedBrowsers(t, conn, 5, 8)
	ctx := context.Background()

	_, err := svc.RunNow(ctx, models.RunParams{}, "cli")
	require.NoError(t, err)

	page, err := svc.ListUsers(ctx, models.UserSegmentFilter{Segment: models.SegmentWindowShopper, Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Data, 2)
	assert.Equal(t, int64(3), page.Data[0].UserID)

	defaults, err := svc.ListUsers(ctx, models.UserSegmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, defaults.Page)
	assert.Equal(t, defaultPageSize, defaults.PageSize)

	_, err = svc.ListUsers(ctx, models.UserSegmentFilter{Segment: "Astronaut"})
	assert.True(t, eris.Is(err, segmentation.ErrUnknownSegment))
}
