package segmentation

import (
	"fmt"
	"time"

	"github.com/jengzang/travel-segments-go/internal/models"
)

func ptr[T any](v T) *T { return &v }

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// fixture builds datasets session by session
type fixture struct {
	ds      models.Dataset
	nextID  int
	nextDay int
}

func newFixture() *fixture {
	return &fixture{}
}

func (f *fixture) addUser(u models.User) {
	if u.SignUpDate == nil {
		u.SignUpDate = ptr(day(2022, time.June, 1))
	}
	if u.Birthdate == nil {
		u.Birthdate = ptr(day(1985, time.March, 10))
	}
	if u.HomeAirportLat == nil {
		u.HomeAirportLat = ptr(40.6413)
		u.HomeAirportLon = ptr(-73.7781)
	}
	f.ds.Users = append(f.ds.Users, u)
}

// session appends a session starting on the next free day after the cutoff
func (f *fixture) session(s models.Session) models.Session {
	f.nextID++
	f.nextDay++
	if s.SessionID == "" {
		s.SessionID = fmt.Sprintf("s-%d", f.nextID)
	}
	if s.SessionStart.IsZero() {
		s.SessionStart = day(2023, time.February, 1).Add(time.Duration(f.nextDay) * time.Hour)
	}
	if s.SessionEnd.IsZero() {
		s.SessionEnd = s.SessionStart.Add(10 * time.Minute)
	}
	if s.PageClicks == 0 {
		s.PageClicks = 5
	}
	f.ds.Sessions = append(f.ds.Sessions, s)
	return s
}

// browse appends n sessions without a trip
func (f *fixture) browse(userID int64, n int) {
	for i := 0; i < n; i++ {
		f.session(models.Session{UserID: userID})
	}
}

// bookFlight appends a flight-only booking session and its flight
func (f *fixture) bookFlight(userID int64, tripID string, seats, bags int, fare float64) {
	f.ds.Flights = append(f.ds.Flights, models.Flight{
		TripID:                tripID,
		Seats:                 ptr(seats),
		CheckedBags:           ptr(bags),
		BaseFareUSD:           ptr(fare),
		DepartureTime:         ptr(time.Date(2023, time.March, 6, 8, 0, 0, 0, time.UTC)),  // Monday
		ReturnTime:            ptr(time.Date(2023, time.March, 12, 18, 0, 0, 0, time.UTC)), // Sunday
		DestinationAirportLat: ptr(51.4700),
		DestinationAirportLon: ptr(-0.4543),
	})
	f.session(models.Session{UserID: userID, TripID: ptr(tripID), FlightBooked: true})
}

// bookHotel appends a hotel-only booking session and its hotel
func (f *fixture) bookHotel(userID int64, tripID string, nights, rooms int, rate float64) {
	checkIn := time.Date(2023, time.April, 3, 15, 0, 0, 0, time.UTC)
	f.ds.Hotels = append(f.ds.Hotels, models.Hotel{
		TripID:          tripID,
		Nights:          ptr(nights),
		Rooms:           ptr(rooms),
		HotelPerRoomUSD: ptr(rate),
		CheckInTime:     ptr(checkIn),
		CheckOutTime:    ptr(checkIn.AddDate(0, 0, nights)),
	})
	f.session(models.Session{UserID: userID, TripID: ptr(tripID), HotelBooked: true})
}

func (f *fixture) dataset() *models.Dataset {
	return &f.ds
}

// population builds ten active users with varied behaviour. User 1 only
// browses; user 2 takes far more weekday flights than anyone else.
func population() *fixture {
	f := newFixture()
	for id := int64(1); id <= 10; id++ {
		f.addUser(models.User{UserID: id, Married: id%3 == 0, HasChildren: id%4 == 0})
	}

	f.browse(1, 8)

	for i := 0; i < 5; i++ {
		f.bookFlight(2, fmt.Sprintf("t2-%d", i), 1, 0, 400)
		// Monday to Wednesday
		f.ds.Flights[len(f.ds.Flights)-1].ReturnTime = ptr(time.Date(2023, time.March, 8, 18, 0, 0, 0, time.UTC))
	}
	f.browse(2, 4)

	for id := int64(3); id <= 10; id++ {
		f.bookFlight(id, fmt.Sprintf("t%d-f", id), int(id%3)+1, int(id%2), 200+float64(id)*30)
		f.bookHotel(id, fmt.Sprintf("t%d-h", id), int(id%5)+1, 1, 80+float64(id)*10)
		f.browse(id, 7)
	}
	return f
}
