package segmentation

import "github.com/jengzang/travel-segments-go/internal/models"

// Score computes the five weighted persona scores of a user
func Score(n *models.NormalizedFeatures) models.SegmentScore {
	bags := valueOr(n.BagsNorm, 0)
	seats := valueOr(n.SeatsNorm, 0)
	flightCost := valueOr(n.FlightCostNorm, 0)
	hotelCost := valueOr(n.HotelCostNorm, 0)

	young := false
	if n.Age != nil {
		young = *n.Age < YoungAgeLimit
	}

	return models.SegmentScore{
		Business: 0.15*flag(n.IsShortSession) +
			0.2*(1-bags) +
			0.2*(1-seats) +
			0.45*n.WeekdayRate,
		Family: 0.25*seats +
			0.45*flag(n.HasChildren) +
			0.25*bags +
			0.05*flag(n.Married),
		Luxury: 0.6*flightCost +
			0.4*hotelCost,
		DealHunter: 0.2*flag(n.IsLongSession) +
			0.1*flag(n.IsHighEngagement) +
			0.7*n.DiscountUsageRate,
		YoungExplorer: 0.3*flag(young) +
			0.3*flag(n.IsShortStay) +
			0.2*(1-hotelCost) +
			0.2*(1-flightCost),
	}
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
