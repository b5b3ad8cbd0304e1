package segmentation

import (
	"github.com/jengzang/travel-segments-go/internal/models"
	"github.com/jengzang/travel-segments-go/internal/stats"
)

// Normalize applies the population statistics to every user
func Normalize(features []models.UserFeatures, ps models.PopulationStats) []models.NormalizedFeatures {
	normalized := make([]models.NormalizedFeatures, len(features))
	for i, f := range features {
		nights := float64(f.TotalNights)
		normalized[i] = models.NormalizedFeatures{
			UserFeatures:     f,
			BagsNorm:         scale(f.AvgBagsPerFlight, ps.BagsPerFlight),
			SeatsNorm:        scale(f.AvgSeatsPerFlight, ps.SeatsPerFlight),
			FlightCostNorm:   scale(f.AvgFlightCostPerTrip, ps.FlightCostPerTrip),
			HotelCostNorm:    scale(f.AvgHotelCostPerTrip, ps.HotelCostPerTrip),
			IsHighEngagement: f.AvgClicksPerSession > ps.ClicksPerSessionP90,
			IsLongSession:    f.AvgSessionMinutes > ps.SessionMinutesP90,
			IsShortSession:   f.AvgSessionMinutes < ps.SessionMinutesP10,
			IsLongStay:       nights > ps.TotalNightsP90,
			IsShortStay:      nights < ps.TotalNightsP10,
			IsNonBooker:      f.BookingRate == 0,
		}
	}
	return normalized
}

// scale returns nil for a degenerate range
func scale(v float64, r models.Range) *float64 {
	scaled, ok := stats.MinMaxScale(v, r.Min, r.Max)
	if !ok {
		return nil
	}
	return &scaled
}
