package segmentation

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/jengzang/travel-segments-go/internal/models"
	"github.com/jengzang/travel-segments-go/internal/stats"
)

// ErrUnknownSegment means a label escaped the fixed segment set
var ErrUnknownSegment = eris.New("segment has no recommended action")

// RecommendedActions maps every segment to its retention perk
var RecommendedActions = map[string]string{
	models.SegmentWindowShopper:     "Exclusive discount on the first booking",
	models.SegmentFrequentFlyer:     "Free checked bag on every flight",
	models.SegmentFreshExplorer:     "Welcome voucher for the next trip",
	models.SegmentYoungEscaper:      "One free hotel night with a flight",
	models.SegmentFamily:            "Free hotel meal for the whole family",
	models.SegmentBargainSeeker:     "Exclusive member-only discounts",
	models.SegmentBusinessTraveller: "No cancellation fees",
	models.SegmentLeisureExplorer:   "Free airport transfer",
}

// segmentMetrics gathers the per-user ratios of one segment
type segmentMetrics struct {
	flightCost, hotelCost, discount, success, weekday, booking []float64
}

func (m *segmentMetrics) add(f *models.NormalizedFeatures) {
	m.flightCost = append(m.flightCost, f.AvgFlightCostPerTrip)
	m.hotelCost = append(m.hotelCost, f.AvgHotelCostPerTrip)
	m.discount = append(m.discount, f.DiscountUsageRate)
	m.success = append(m.success, f.BookingSuccessRate)
	m.weekday = append(m.weekday, f.WeekdayRate)
	m.booking = append(m.booking, f.BookingRate)
}

// Summarize groups assignments by segment, ordered by user count descending.
// Only segments with at least one user produce a row.
func Summarize(assignments []models.SegmentAssignment) ([]models.SegmentSummary, error) {
	groups := make(map[string]*segmentMetrics)
	for _, a := range assignments {
		if _, ok := RecommendedActions[a.Segment]; !ok {
			return nil, eris.Wrapf(ErrUnknownSegment, "segment %q (user %d)", a.Segment, a.UserID)
		}
		if a.Features == nil {
			return nil, eris.Errorf("assignment of user %d carries no features", a.UserID)
		}

		m, ok := groups[a.Segment]
		if !ok {
			m = &segmentMetrics{}
			groups[a.Segment] = m
		}
		m.add(a.Features)
	}

	summaries := make([]models.SegmentSummary, 0, len(groups))
	for segment, m := range groups {
		summaries = append(summaries, models.SegmentSummary{
			Segment:           segment,
			UserCount:         len(m.booking),
			AvgFlightCost:     stats.Mean(m.flightCost),
			AvgHotelCost:      stats.Mean(m.hotelCost),
			AvgDiscountRate:   stats.Mean(m.discount),
			AvgSuccessRate:    stats.Mean(m.success),
			AvgWeekdayRate:    stats.Mean(m.weekday),
			AvgBookingRate:    stats.Mean(m.booking),
			RecommendedAction: RecommendedActions[segment],
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].UserCount != summaries[j].UserCount {
			return summaries[i].UserCount > summaries[j].UserCount
		}
		return summaries[i].Segment < summaries[j].Segment
	})
	return summaries, nil
}
