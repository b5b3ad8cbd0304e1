package segmentation

import "github.com/jengzang/travel-segments-go/internal/models"

// safeDiv returns 0 for a zero denominator
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// DeriveFeatures converts profiles to per-user ratios and lifecycle flags.
// The frequent-flyer flag needs population statistics and is set by
// MarkFrequentFlyers.
func DeriveFeatures(profiles []models.UserProfile, opts Options) []models.UserFeatures {
	features := make([]models.UserFeatures, len(profiles))
	for i, p := range profiles {
		sessions := float64(p.TotalSessions)
		successful := float64(p.SuccessfulBookings)
		flights := float64(p.FlightBookings)

		f := models.UserFeatures{
			UserProfile:          p,
			AvgClicksPerSession:  safeDiv(float64(p.TotalPageClicks), sessions),
			AvgSessionMinutes:    safeDiv(p.TotalSessionMinutes, sessions),
			BookingRate:          safeDiv(successful, sessions),
			AvgSeatsPerFlight:    safeDiv(float64(p.TotalSeats), flights),
			AvgBagsPerFlight:     safeDiv(float64(p.TotalBags), flights),
			WeekdayRate:          safeDiv(float64(p.WeekdayTrips), successful),
			BookingSuccessRate:   safeDiv(successful, float64(p.DistinctTrips)),
			DiscountUsageRate:    safeDiv(float64(p.DiscountedTrips), successful),
			AvgHotelCostPerTrip:  safeDiv(p.TotalHotelCost, float64(p.HotelBookings)),
			AvgFlightCostPerTrip: safeDiv(p.TotalFlightCost, flights),
		}

		if p.Age != nil {
			f.IsWorkingAge = *p.Age >= WorkingAgeMin && *p.Age <= WorkingAgeMax
		}
		// Users without a successful booking have no gap and are never new
		if p.DaysSinceSignupToLastBooking != nil {
			f.IsNewCustomer = *p.DaysSinceSignupToLastBooking <= opts.NewCustomerDays
		}

		features[i] = f
	}
	return features
}

// MarkFrequentFlyers flags users whose flight bookings exceed the population's
// discrete 90th percentile
func MarkFrequentFlyers(features []models.UserFeatures, stats models.PopulationStats) []models.UserFeatures {
	marked := make([]models.UserFeatures, len(features))
	for i, f := range features {
		f.IsFrequentFlyer = float64(f.FlightBookings) > stats.FlightBookingsP90
		marked[i] = f
	}
	return marked
}
