package models

import "time"

// User represents a platform user with demographics
type User struct {
	UserID int64 `json:"user_id" db:"user_id"`

	// Demographics
	Birthdate   *time.Time `json:"birthdate,omitempty" db:"birthdate"`
	Gender      string     `json:"gender,omitempty" db:"gender"`
	Married     bool       `json:"married" db:"married"`
	HasChildren bool       `json:"has_children" db:"has_children"`

	// Home location
	HomeCountry    string   `json:"home_country,omitempty" db:"home_country"`
	HomeCity       string   `json:"home_city,omitempty" db:"home_city"`
	HomeAirport    string   `json:"home_airport,omitempty" db:"home_airport"`
	HomeAirportLat *float64 `json:"home_airport_lat,omitempty" db:"home_airport_lat"`
	HomeAirportLon *float64 `json:"home_airport_lon,omitempty" db:"home_airport_lon"`

	SignUpDate *time.Time `json:"sign_up_date,omitempty" db:"sign_up_date"`
}

// Session represents a single browsing session on the booking platform
type Session struct {
	SessionID string  `json:"session_id" db:"session_id"`
	UserID    int64   `json:"user_id" db:"user_id"`
	TripID    *string `json:"trip_id,omitempty" db:"trip_id"` // Null when nothing was booked

	SessionStart time.Time `json:"session_start" db:"session_start"`
	SessionEnd   time.Time `json:"session_end" db:"session_end"`

	// Discount offers
	FlightDiscount       bool     `json:"flight_discount" db:"flight_discount"`
	HotelDiscount        bool     `json:"hotel_discount" db:"hotel_discount"`
	FlightDiscountAmount *float64 `json:"flight_discount_amount,omitempty" db:"flight_discount_amount"` // Fraction 0-1
	HotelDiscountAmount  *float64 `json:"hotel_discount_amount,omitempty" db:"hotel_discount_amount"`   // Fraction 0-1

	FlightBooked bool `json:"flight_booked" db:"flight_booked"`
	HotelBooked  bool `json:"hotel_booked" db:"hotel_booked"`
	PageClicks   int  `json:"page_clicks" db:"page_clicks"`
	Cancellation bool `json:"cancellation" db:"cancellation"`
}

// Flight represents the flight leg of a trip
type Flight struct {
	TripID string `json:"trip_id" db:"trip_id"`

	OriginAirport      string `json:"origin_airport,omitempty" db:"origin_airport"`
	Destination        string `json:"destination,omitempty" db:"destination"`
	DestinationAirport string `json:"destination_airport,omitempty" db:"destination_airport"`
	TripAirline        string `json:"trip_airline,omitempty" db:"trip_airline"`

	Seats              *int       `json:"seats,omitempty" db:"seats"`
	CheckedBags        *int       `json:"checked_bags,omitempty" db:"checked_bags"`
	ReturnFlightBooked bool       `json:"return_flight_booked" db:"return_flight_booked"`
	DepartureTime      *time.Time `json:"departure_time,omitempty" db:"departure_time"`
	ReturnTime         *time.Time `json:"return_time,omitempty" db:"return_time"`

	DestinationAirportLat *float64 `json:"destination_airport_lat,omitempty" db:"destination_airport_lat"`
	DestinationAirportLon *float64 `json:"destination_airport_lon,omitempty" db:"destination_airport_lon"`
	BaseFareUSD           *float64 `json:"base_fare_usd,omitempty" db:"base_fare_usd"`
}

// Hotel represents the hotel leg of a trip
type Hotel struct {
	TripID    string `json:"trip_id" db:"trip_id"`
	HotelName string `json:"hotel_name,omitempty" db:"hotel_name"`

	Nights          *int       `json:"nights,omitempty" db:"nights"` // Raw value, may be negative
	Rooms           *int       `json:"rooms,omitempty" db:"rooms"`
	CheckInTime     *time.Time `json:"check_in_time,omitempty" db:"check_in_time"`
	CheckOutTime    *time.Time `json:"check_out_time,omitempty" db:"check_out_time"`
	HotelPerRoomUSD *float64   `json:"hotel_per_room_usd,omitempty" db:"hotel_per_room_usd"`
}

// Dataset holds the four source relations of a segmentation run
type Dataset struct {
	Users    []User
	Sessions []Session
	Flights  []Flight
	Hotels   []Hotel
}
