// Package databasetest provides migrated in-memory databases for tests.
package databasetest

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/travel-segments-go/internal/database"
	"github.com/jengzang/travel-segments-go/internal/models"
)

// Open returns a migrated in-memory database closed at the end of the test
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	conn, err := database.Open(database.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, database.Migrate(conn))
	return conn
}

// Seed inserts a dataset into the source tables
func Seed(t testing.TB, conn *sqlx.DB, ds *models.Dataset) {
	t.Helper()

	if len(ds.Users) > 0 {
		_, err := conn.NamedExec(`INSERT INTO users (
			user_id, birthdate, gender, married, has_children, home_country, home_city,
			home_airport, home_airport_lat, home_airport_lon, sign_up_date
		) VALUES (
			:user_id, :birthdate, :gender, :married, :has_children, :home_country, :home_city,
			:home_airport, :home_airport_lat, :home_airport_lon, :sign_up_date
		)`, ds.Users)
		require.NoError(t, err)
	}

	if len(ds.Sessions) > 0 {
		_, err := conn.NamedExec(`INSERT INTO sessions (
			session_id, user_id, trip_id, session_start, session_end, flight_discount,
			hotel_discount, flight_discount_amount, hotel_discount_amount, flight_booked,
			hotel_booked, page_clicks, cancellation
		) VALUES (
			:session_id, :user_id, :trip_id, :session_start, :session_end, :flight_discount,
			:hotel_discount, :flight_discount_amount, :hotel_discount_amount, :flight_booked,
			:hotel_booked, :page_clicks, :cancellation
		)`, ds.Sessions)
		require.NoError(t, err)
	}

	if len(ds.Flights) > 0 {
		_, err := conn.NamedExec(`INSERT INTO flights (
			trip_id, origin_airport, destination, destination_airport, seats,
			return_flight_booked, departure_time, return_time, checked_bags, trip_airline,
			destination_airport_lat, destination_airport_lon, base_fare_usd
		) VALUES (
			:trip_id, :origin_airport, :destination, :destination_airport, :seats,
			:return_flight_booked, :departure_time, :return_time, :checked_bags, :trip_airline,
			:destination_airport_lat, :destination_airport_lon, :base_fare_usd
		)`, ds.Flights)
		require.NoError(t, err)
	}

	if len(ds.Hotels) > 0 {
		_, err := conn.NamedExec(`INSERT INTO hotels (
			trip_id, hotel_name, nights, rooms, check_in_time, check_out_time, hotel_per_room_usd
		) VALUES (
			:trip_id, :hotel_name, :nights, :rooms, :check_in_time, :check_out_time, :hotel_per_room_usd
		)`, ds.Hotels)
		require.NoError(t, err)
	}
}
