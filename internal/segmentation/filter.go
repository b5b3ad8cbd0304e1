package segmentation

import (
	"time"

	"github.com/jengzang/travel-segments-go/internal/models"
)

// FilterSessions keeps sessions that start on or after the cutoff
func FilterSessions(sessions []models.Session, cutoff time.Time) []models.Session {
	filtered := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if !s.SessionStart.Before(cutoff) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// ActiveUsers returns the session count of every user with strictly more
// than threshold sessions
func ActiveUsers(sessions []models.Session, threshold int) map[int64]int {
	counts := make(map[int64]int)
	for _, s := range sessions {
		counts[s.UserID]++
	}

	for userID, n := range counts {
		if n <= threshold {
			delete(counts, userID)
		}
	}
	return counts
}
