package segmentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/travel-segments-go/internal/models"
)

func TestDeriveFeaturesRatios(t *testing.T) {
	profiles := profilesOf(t, population().dataset())
	features := DeriveFeatures([]models.UserProfile{profiles[3]}, DefaultOptions())
	require.Len(t, features, 1)

	f := features[0]
	assert.InDelta(t, 5.0, f.AvgClicksPerSession, 1e-9)
	assert.InDelta(t, 10.0, f.AvgSessionMinutes, 1e-9)
	assert.InDelta(t, 2.0/9.0, f.BookingRate, 1e-9)
	assert.InDelta(t, 1.0, f.AvgSeatsPerFlight, 1e-9)
	assert.InDelta(t, 1.0, f.AvgBagsPerFlight, 1e-9)
	assert.InDelta(t, 1.0, f.BookingSuccessRate, 1e-9)
	assert.InDelta(t, 440.0, f.AvgHotelCostPerTrip, 1e-9)
	assert.InDelta(t, 290.0, f.AvgFlightCostPerTrip, 1e-9)
	assert.Zero(t, f.WeekdayRate)
	assert.Zero(t, f.DiscountUsageRate)
	assert.True(t, f.IsWorkingAge)
	assert.False(t, f.IsNewCustomer)
}

func TestDeriveFeaturesZeroDenominators(t *testing.T) {
	features := DeriveFeatures([]models.UserProfile{{UserID: 1}}, DefaultOptions())
	f := features[0]

	assert.Zero(t, f.AvgClicksPerSession)
	assert.Zero(t, f.BookingRate)
	assert.Zero(t, f.AvgSeatsPerFlight)
	assert.Zero(t, f.WeekdayRate)
	assert.Zero(t, f.BookingSuccessRate)
	assert.Zero(t, f.AvgHotelCostPerTrip)
	assert.False(t, f.IsWorkingAge)
	assert.False(t, f.IsNewCustomer)
}

func TestDeriveFeaturesNewCustomer(t *testing.T) {
	profiles := []models.UserProfile{
		{UserID: 1, DaysSinceSignupToLastBooking: ptr(28)},
		{UserID: 2, DaysSinceSignupToLastBooking: ptr(29)},
		{UserID: 3},
	}

	features := DeriveFeatures(profiles, DefaultOptions())

	assert.True(t, features[0].IsNewCustomer)
	assert.False(t, features[1].IsNewCustomer)
	assert.False(t, features[2].IsNewCustomer)
}

func TestDeriveFeaturesWorkingAgeBounds(t *testing.T) {
	profiles := []models.UserProfile{{Age: ptr(19)}, {Age: ptr(20)}, {Age: ptr(67)}, {Age: ptr(68)}}
	features := DeriveFeatures(profiles, DefaultOptions())

	assert.False(t, features[0].IsWorkingAge)
	assert.True(t, features[1].IsWorkingAge)
	assert.True(t, features[2].IsWorkingAge)
	assert.False(t, features[3].IsWorkingAge)
}

func TestMarkFrequentFlyers(t *testing.T) {
	var features []models.UserFeatures
	for _, n := range []int{0, 1, 1, 1, 1, 1, 1, 1, 1, 5} {
		features = append(features, models.UserFeatures{UserProfile: models.UserProfile{FlightBookings: n}})
	}

	ps := ComputePopulationStats(features)
	marked := MarkFrequentFlyers(features, ps)

	assert.Equal(t, 1.0, ps.FlightBookingsP90)
	for i, f := range marked[:9] {
		assert.False(t, f.IsFrequentFlyer, "user %d", i)
	}
	assert.True(t, marked[9].IsFrequentFlyer)
	assert.False(t, features[9].IsFrequentFlyer, "input is not mutated")
}
