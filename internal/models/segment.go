package models

import "time"

// Segment labels
const (
	SegmentWindowShopper     = "Window Shopper"
	SegmentFrequentFlyer     = "Frequent Flyer"
	SegmentFreshExplorer     = "Fresh Explorer"
	SegmentYoungEscaper      = "Young Escaper"
	SegmentFamily            = "Family"
	SegmentBargainSeeker     = "Bargain Seeker"
	SegmentBusinessTraveller = "Business Traveller"
	SegmentLeisureExplorer   = "Leisure Explorer"
)

// SegmentScore holds the weighted persona scores of a user
type SegmentScore struct {
	Business      float64 `json:"business"`
	Family        float64 `json:"family"`
	Luxury        float64 `json:"luxury"`
	DealHunter    float64 `json:"deal_hunter"`
	YoungExplorer float64 `json:"young_explorer"`
}

// SegmentAssignment is the segment chosen for one user
type SegmentAssignment struct {
	UserID   int64               `json:"user_id"`
	Segment  string              `json:"segment"`
	Score    SegmentScore        `json:"score"`
	Features *NormalizedFeatures `json:"-"`
}

// SegmentSummary is one row of the segment_summary output
type SegmentSummary struct {
	RunID             string  `json:"run_id,omitempty" db:"run_id"`
	Segment           string  `json:"segment" db:"segment"`
	UserCount         int     `json:"user_count" db:"user_count"`
	AvgFlightCost     float64 `json:"avg_flight_cost" db:"avg_flight_cost"`
	AvgHotelCost      float64 `json:"avg_hotel_cost" db:"avg_hotel_cost"`
	AvgDiscountRate   float64 `json:"avg_discount_rate" db:"avg_discount_rate"`
	AvgSuccessRate    float64 `json:"avg_success_rate" db:"avg_success_rate"`
	AvgWeekdayRate    float64 `json:"avg_weekday_rate" db:"avg_weekday_rate"`
	AvgBookingRate    float64 `json:"avg_booking_rate" db:"avg_booking_rate"`
	RecommendedAction string  `json:"recommended_action" db:"recommended_action"`
}

// UserSegment is a persisted per-user assignment
type UserSegment struct {
	RunID   string `json:"run_id" db:"run_id"`
	UserID  int64  `json:"user_id" db:"user_id"`
	Segment string `json:"segment" db:"segment"`

	// Scores
	BusinessScore      float64 `json:"business_score" db:"business_score"`
	FamilyScore        float64 `json:"family_score" db:"family_score"`
	LuxuryScore        float64 `json:"luxury_score" db:"luxury_score"`
	DealHunterScore    float64 `json:"deal_hunter_score" db:"deal_hunter_score"`
	YoungExplorerScore float64 `json:"young_explorer_score" db:"young_explorer_score"`

	// Key features
	TotalSessions        int     `json:"total_sessions" db:"total_sessions"`
	BookingRate          float64 `json:"booking_rate" db:"booking_rate"`
	DiscountUsageRate    float64 `json:"discount_usage_rate" db:"discount_usage_rate"`
	AvgFlightCostPerTrip float64 `json:"avg_flight_cost_per_trip" db:"avg_flight_cost_per_trip"`
	AvgHotelCostPerTrip  float64 `json:"avg_hotel_cost_per_trip" db:"avg_hotel_cost_per_trip"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserSegmentsResponse represents a paginated response of user segments
type UserSegmentsResponse struct {
	Data       []UserSegment `json:"data"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}
