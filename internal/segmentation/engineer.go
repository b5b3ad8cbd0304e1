package segmentation

import (
	"time"

	"github.com/jengzang/travel-segments-go/internal/models"
	"github.com/jengzang/travel-segments-go/internal/spatial"
)

// sources indexes the joinable relations by key
type sources struct {
	users   map[int64]*models.User
	flights map[string]*models.Flight
	hotels  map[string]*models.Hotel
}

func indexSources(ds *models.Dataset) *sources {
	src := &sources{
		users:   make(map[int64]*models.User, len(ds.Users)),
		flights: make(map[string]*models.Flight, len(ds.Flights)),
		hotels:  make(map[string]*models.Hotel, len(ds.Hotels)),
	}
	for i := range ds.Users {
		src.users[ds.Users[i].UserID] = &ds.Users[i]
	}
	for i := range ds.Flights {
		src.flights[ds.Flights[i].TripID] = &ds.Flights[i]
	}
	for i := range ds.Hotels {
		src.hotels[ds.Hotels[i].TripID] = &ds.Hotels[i]
	}
	return src
}

// TripCancellations marks every trip that has at least one cancelled session
func TripCancellations(sessions []models.Session) map[string]bool {
	cancelled := make(map[string]bool)
	for _, s := range sessions {
		if s.TripID == nil {
			continue
		}
		cancelled[*s.TripID] = cancelled[*s.TripID] || s.Cancellation
	}
	return cancelled
}

// EngineerSessions joins the filtered sessions of active users to their user,
// flight and hotel rows and derives the per-session fields. Sessions of
// inactive users are dropped; missing join partners leave fields nil.
func EngineerSessions(ds *models.Dataset, sessions []models.Session, active map[int64]int, opts Options) []models.EngineeredSession {
	src := indexSources(ds)
	tripCancelled := TripCancellations(sessions)

	engineered := make([]models.EngineeredSession, 0, len(sessions))
	for _, s := range sessions {
		if _, ok := active[s.UserID]; !ok {
			continue
		}

		es := models.EngineeredSession{
			Session:          s,
			User:             src.users[s.UserID],
			TripWasCancelled: s.Cancellation,
			MinutesInSession: s.SessionEnd.Sub(s.SessionStart).Minutes(),
		}
		if s.TripID != nil {
			es.Flight = src.flights[*s.TripID]
			es.Hotel = src.hotels[*s.TripID]
			es.TripWasCancelled = tripCancelled[*s.TripID]
		}

		es.NightsCleaned = cleanNights(es.Hotel)
		es.IsWeekdayTrip = isWeekdayTrip(es.Flight)
		if es.User != nil && es.User.Birthdate != nil {
			age := ageAt(*es.User.Birthdate, opts.ReferenceDate)
			es.Age = &age
		}

		if !s.Cancellation {
			es.TravelDistanceKm = travelDistance(es.User, es.Flight)
			es.FlightCostPerPerson = flightCostPerPerson(es.Flight, s.FlightDiscountAmount)
			if s.FlightBooked && s.HotelBooked {
				es.HasCombinedBooking = 1
			}
			es.HotelCost = hotelCost(es.Hotel, es.NightsCleaned, s.HotelDiscountAmount)
		}

		engineered = append(engineered, es)
	}

	return engineered
}

// cleanNights flips negative nights and otherwise recomputes the stay length
// from the check-in and check-out dates. Raw nights are kept when either
// date is missing.
func cleanNights(h *models.Hotel) *int {
	if h == nil {
		return nil
	}
	if h.Nights != nil && *h.Nights < 0 {
		n := -*h.Nights
		return &n
	}
	if h.CheckInTime != nil && h.CheckOutTime != nil {
		n := daysBetween(*h.CheckInTime, *h.CheckOutTime)
		return &n
	}
	return h.Nights
}

// isWeekdayTrip reports a Mon-Fri round trip inside one calendar week
func isWeekdayTrip(f *models.Flight) bool {
	if f == nil || f.DepartureTime == nil || f.ReturnTime == nil {
		return false
	}

	dep, ret := dateOf(*f.DepartureTime), dateOf(*f.ReturnTime)
	if !isWeekday(dep) || !isWeekday(ret) {
		return false
	}

	depYear, depWeek := dep.ISOWeek()
	retYear, retWeek := ret.ISOWeek()
	if depYear != retYear || depWeek != retWeek {
		return false
	}

	gap := daysBetween(dep, ret)
	return gap >= 0 && gap <= WeekdayTripMaxGap
}

func isWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// ageAt returns completed years between birth and ref
func ageAt(birth, ref time.Time) int {
	years := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() || (ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		years--
	}
	return years
}

func travelDistance(u *models.User, f *models.Flight) *float64 {
	if u == nil || f == nil ||
		u.HomeAirportLat == nil || u.HomeAirportLon == nil ||
		f.DestinationAirportLat == nil || f.DestinationAirportLon == nil {
		return nil
	}

	d := spatial.GreatCircleKm(*u.HomeAirportLat, *u.HomeAirportLon, *f.DestinationAirportLat, *f.DestinationAirportLon)
	return &d
}

func flightCostPerPerson(f *models.Flight, discount *float64) *float64 {
	if f == nil || f.BaseFareUSD == nil || f.Seats == nil || *f.Seats <= 0 {
		return nil
	}

	cost := *f.BaseFareUSD * (1 - valueOr(discount, 0)) / float64(*f.Seats)
	return &cost
}

func hotelCost(h *models.Hotel, nights *int, discount *float64) *float64 {
	if h == nil || nights == nil || h.HotelPerRoomUSD == nil || h.Rooms == nil {
		return nil
	}

	cost := *h.HotelPerRoomUSD * float64(*h.Rooms) * float64(*nights) * (1 - valueOr(discount, 0))
	return &cost
}

// valueOr dereferences p, defaulting to def when p is nil
func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
