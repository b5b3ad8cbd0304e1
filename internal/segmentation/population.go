package segmentation

import (
	"github.com/jengzang/travel-segments-go/internal/models"
	"github.com/jengzang/travel-segments-go/internal/stats"
)

// ComputePopulationStats computes every global statistic needed to classify
// users. It must see the whole active population.
func ComputePopulationStats(features []models.UserFeatures) models.PopulationStats {
	n := len(features)
	flightBookings := make([]float64, n)
	clicks := make([]float64, n)
	minutes := make([]float64, n)
	nights := make([]float64, n)
	bags := make([]float64, n)
	seats := make([]float64, n)
	flightCost := make([]float64, n)
	hotelCost := make([]float64, n)

	for i, f := range features {
		flightBookings[i] = float64(f.FlightBookings)
		clicks[i] = f.AvgClicksPerSession
		minutes[i] = f.AvgSessionMinutes
		nights[i] = float64(f.TotalNights)
		bags[i] = f.AvgBagsPerFlight
		seats[i] = f.AvgSeatsPerFlight
		flightCost[i] = f.AvgFlightCostPerTrip
		hotelCost[i] = f.AvgHotelCostPerTrip
	}

	minutesPct := stats.Percentiles(minutes, []float64{UpperPercentile, LowerPercentile})
	nightsPct := stats.Percentiles(nights, []float64{UpperPercentile, LowerPercentile})

	return models.PopulationStats{
		Users:               n,
		FlightBookingsP90:   stats.DiscretePercentile(flightBookings, UpperPercentile),
		ClicksPerSessionP90: stats.Percentile(clicks, UpperPercentile),
		SessionMinutesP90:   minutesPct[0],
		SessionMinutesP10:   minutesPct[1],
		TotalNightsP90:      nightsPct[0],
		TotalNightsP10:      nightsPct[1],
		BagsPerFlight:       rangeOf(bags),
		SeatsPerFlight:      rangeOf(seats),
		FlightCostPerTrip:   rangeOf(flightCost),
		HotelCostPerTrip:    rangeOf(hotelCost),
	}
}

func rangeOf(values []float64) models.Range {
	return models.Range{Min: stats.Min(values), Max: stats.Max(values)}
}
