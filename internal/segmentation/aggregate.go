package segmentation

import (
	"sort"
	"time"

	"github.com/jengzang/travel-segments-go/internal/models"
)

// userAccumulator collects one user's sessions before they are collapsed
type userAccumulator struct {
	profile         models.UserProfile
	trips           map[string]struct{}
	successfulTrips map[string]struct{}
	weekdayTrips    map[string]struct{}
	discountedTrips map[string]struct{}
	lastBooking     *time.Time
}

func newUserAccumulator(userID int64) *userAccumulator {
	return &userAccumulator{
		profile:         models.UserProfile{UserID: userID},
		trips:           make(map[string]struct{}),
		successfulTrips: make(map[string]struct{}),
		weekdayTrips:    make(map[string]struct{}),
		discountedTrips: make(map[string]struct{}),
	}
}

func (a *userAccumulator) add(es *models.EngineeredSession) {
	p := &a.profile

	if es.User != nil {
		p.Gender = es.User.Gender
		p.HomeCountry = es.User.HomeCountry
		p.HomeCity = es.User.HomeCity
		p.Married = p.Married || es.User.Married
		p.HasChildren = p.HasChildren || es.User.HasChildren
		p.SignUpDate = es.User.SignUpDate
	}
	if es.Age != nil && (p.Age == nil || *es.Age > *p.Age) {
		age := *es.Age
		p.Age = &age
	}

	p.TotalSessions++
	p.TotalPageClicks += es.PageClicks
	p.TotalSessionMinutes += es.MinutesInSession
	p.CombinedBookings += es.HasCombinedBooking

	booked := !es.Cancellation && (es.FlightBooked || es.HotelBooked)

	if es.TripID != nil {
		trip := *es.TripID
		a.trips[trip] = struct{}{}
		if !es.TripWasCancelled {
			a.successfulTrips[trip] = struct{}{}
			if es.IsWeekdayTrip && booked {
				a.weekdayTrips[trip] = struct{}{}
			}
			if (es.FlightDiscount || es.HotelDiscount) && booked {
				a.discountedTrips[trip] = struct{}{}
			}
		}
	}

	if es.FlightBooked && !es.Cancellation {
		p.FlightBookings++
		if es.Flight != nil {
			p.TotalSeats += valueOr(es.Flight.Seats, 0)
			p.TotalBags += valueOr(es.Flight.CheckedBags, 0)
		}
	}
	if es.HotelBooked && !es.Cancellation {
		p.HotelBookings++
		if es.Hotel != nil {
			p.TotalRooms += valueOr(es.Hotel.Rooms, 0)
			p.TotalNights += valueOr(es.NightsCleaned, 0)
		}
	}

	p.TotalTravelDistanceKm += valueOr(es.TravelDistanceKm, 0)
	p.TotalHotelCost += valueOr(es.HotelCost, 0)
	p.TotalFlightCost += valueOr(es.FlightCostPerPerson, 0)

	if booked {
		day := dateOf(es.SessionStart)
		if a.lastBooking == nil || day.After(*a.lastBooking) {
			a.lastBooking = &day
		}
	}
}

func (a *userAccumulator) finish() models.UserProfile {
	p := a.profile
	p.DistinctTrips = len(a.trips)
	p.SuccessfulBookings = len(a.successfulTrips)
	p.WeekdayTrips = len(a.weekdayTrips)
	p.DiscountedTrips = len(a.discountedTrips)

	if a.lastBooking != nil && p.SignUpDate != nil {
		days := daysBetween(*p.SignUpDate, *a.lastBooking)
		p.DaysSinceSignupToLastBooking = &days
	}
	return p
}

// AggregateUsers collapses engineered sessions into one profile per user,
// ordered by user id
func AggregateUsers(sessions []models.EngineeredSession) []models.UserProfile {
	accs := make(map[int64]*userAccumulator)
	for i := range sessions {
		es := &sessions[i]
		acc, ok := accs[es.UserID]
		if !ok {
			acc = newUserAccumulator(es.UserID)
			accs[es.UserID] = acc
		}
		acc.add(es)
	}

	profiles := make([]models.UserProfile, 0, len(accs))
	for _, acc := range accs {
		profiles = append(profiles, acc.finish())
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].UserID < profiles[j].UserID
	})
	return profiles
}
