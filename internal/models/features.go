package models

import "time"

// EngineeredSession is a filtered session joined to its user, flight and hotel
// with the derived per-session fields. Flight and Hotel are nil when the trip
// has no such leg.
type EngineeredSession struct {
	Session

	User   *User   `json:"-"`
	Flight *Flight `json:"-"`
	Hotel  *Hotel  `json:"-"`

	NightsCleaned       *int     `json:"nights_cleaned,omitempty"`
	TripWasCancelled    bool     `json:"trip_was_cancelled"`
	MinutesInSession    float64  `json:"minutes_in_session"`
	IsWeekdayTrip       bool     `json:"is_weekday_trip"`
	Age                 *int     `json:"age,omitempty"`
	TravelDistanceKm    *float64 `json:"travel_distance_km,omitempty"`
	FlightCostPerPerson *float64 `json:"flight_cost_per_person,omitempty"`
	HasCombinedBooking  int      `json:"has_combined_booking"`
	HotelCost           *float64 `json:"hotel_cost,omitempty"`
}

// UserProfile is the per-user aggregation of engineered sessions
type UserProfile struct {
	UserID int64 `json:"user_id"`

	// Demographic passthrough
	Gender      string     `json:"gender,omitempty"`
	HomeCountry string     `json:"home_country,omitempty"`
	HomeCity    string     `json:"home_city,omitempty"`
	Age         *int       `json:"age,omitempty"`
	Married     bool       `json:"married"`
	HasChildren bool       `json:"has_children"`
	SignUpDate  *time.Time `json:"sign_up_date,omitempty"`

	// Activity
	TotalSessions       int     `json:"total_sessions"`
	TotalPageClicks     int     `json:"total_page_clicks"`
	TotalSessionMinutes float64 `json:"total_session_minutes"`

	// Bookings
	DistinctTrips      int `json:"distinct_trips"`
	SuccessfulBookings int `json:"successful_bookings"`
	FlightBookings     int `json:"flight_bookings"`
	HotelBookings      int `json:"hotel_bookings"`
	CombinedBookings   int `json:"combined_bookings"`
	WeekdayTrips       int `json:"weekday_trips"`
	DiscountedTrips    int `json:"discounted_trips"`

	// Trip volume
	TotalSeats            int     `json:"total_seats"`
	TotalBags             int     `json:"total_bags"`
	TotalRooms            int     `json:"total_rooms"`
	TotalNights           int     `json:"total_nights"`
	TotalTravelDistanceKm float64 `json:"total_travel_distance_km"`
	TotalHotelCost        float64 `json:"total_hotel_cost"`
	TotalFlightCost       float64 `json:"total_flight_cost"`

	DaysSinceSignupToLastBooking *int `json:"days_since_signup_to_last_booking,omitempty"` // Null without a booking
}

// UserFeatures holds per-user ratios and lifecycle flags
type UserFeatures struct {
	UserProfile

	AvgClicksPerSession  float64 `json:"avg_clicks_per_session"`
	AvgSessionMinutes    float64 `json:"avg_session_minutes"`
	BookingRate          float64 `json:"booking_rate"`
	AvgSeatsPerFlight    float64 `json:"avg_seats_per_flight"`
	AvgBagsPerFlight     float64 `json:"avg_bags_per_flight"`
	WeekdayRate          float64 `json:"weekday_rate"`
	BookingSuccessRate   float64 `json:"booking_success_rate"`
	DiscountUsageRate    float64 `json:"discount_usage_rate"`
	AvgHotelCostPerTrip  float64 `json:"avg_hotel_cost_per_trip"`
	AvgFlightCostPerTrip float64 `json:"avg_flight_cost_per_trip"`

	IsWorkingAge    bool `json:"is_working_age"`
	IsNewCustomer   bool `json:"is_new_customer"`
	IsFrequentFlyer bool `json:"is_frequent_flyer"`
}

// NormalizedFeatures adds population-relative values to UserFeatures.
// Normalized values are nil when the population range is empty.
type NormalizedFeatures struct {
	UserFeatures

	BagsNorm       *float64 `json:"bags_norm,omitempty"`
	SeatsNorm      *float64 `json:"seats_norm,omitempty"`
	FlightCostNorm *float64 `json:"flight_cost_norm,omitempty"`
	HotelCostNorm  *float64 `json:"hotel_cost_norm,omitempty"`

	IsHighEngagement bool `json:"is_high_engagement"`
	IsLongSession    bool `json:"is_long_session"`
	IsShortSession   bool `json:"is_short_session"`
	IsLongStay       bool `json:"is_long_stay"`
	IsShortStay      bool `json:"is_short_stay"`
	IsNonBooker      bool `json:"is_non_booker"`
}

// Range is an observed [Min, Max] interval
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PopulationStats holds the global statistics computed over all active users
type PopulationStats struct {
	Users int `json:"users"`

	// Discrete (nearest-rank) percentile
	FlightBookingsP90 float64 `json:"flight_bookings_p90"`

	// Continuous (interpolated) percentiles
	ClicksPerSessionP90 float64 `json:"clicks_per_session_p90"`
	SessionMinutesP90   float64 `json:"session_minutes_p90"`
	SessionMinutesP10   float64 `json:"session_minutes_p10"`
	TotalNightsP90      float64 `json:"total_nights_p90"`
	TotalNightsP10      float64 `json:"total_nights_p10"`

	// Min-max ranges
	BagsPerFlight     Range `json:"bags_per_flight"`
	SeatsPerFlight    Range `json:"seats_per_flight"`
	FlightCostPerTrip Range `json:"flight_cost_per_trip"`
	HotelCostPerTrip  Range `json:"hotel_cost_per_trip"`
}
