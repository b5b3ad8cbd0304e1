package segmentation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/travel-segments-go/internal/models"
)

func TestFilterSessionsKeepsCutoffDay(t *testing.T) {
	cutoff := DefaultOptions().CutoffDate
	sessions := []models.Session{
		{SessionID: "before", SessionStart: cutoff.Add(-time.Second)},
		{SessionID: "at", SessionStart: cutoff},
		{SessionID: "after", SessionStart: cutoff.Add(36 * time.Hour)},
	}

	filtered := FilterSessions(sessions, cutoff)

	assert.Len(t, filtered, 2)
	assert.Equal(t, "at", filtered[0].SessionID)
	assert.Equal(t, "after", filtered[1].SessionID)
}

func TestActiveUsersIsStrictlyAboveThreshold(t *testing.T) {
	var sessions []models.Session
	for i := 0; i < 7; i++ {
		sessions = append(sessions, models.Session{UserID: 1})
	}
	for i := 0; i < 8; i++ {
		sessions = append(sessions, models.Session{UserID: 2})
	}

	active := ActiveUsers(sessions, 7)

	assert.NotContains(t, active, int64(1))
	assert.Equal(t, 8, active[2])
}
