package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jengzang/travel-segments-go/internal/models"
)

// ErrMissingColumns means a source table lacks a column the pipeline reads
var ErrMissingColumns = eris.New("source table is missing required columns")

// sourceColumns lists every column read from each source table. Nullable
// text and flag columns are coalesced so they scan into plain fields.
var sourceColumns = map[string][]string{
	"users": {
		"user_id", "birthdate", "COALESCE(gender, '') AS gender",
		"COALESCE(married, 0) AS married", "COALESCE(has_children, 0) AS has_children",
		"COALESCE(home_country, '') AS home_country", "COALESCE(home_city, '') AS home_city",
		"COALESCE(home_airport, '') AS home_airport", "home_airport_lat", "home_airport_lon",
		"sign_up_date",
	},
	"sessions": {
		"session_id", "user_id", "trip_id", "session_start", "session_end",
		"COALESCE(flight_discount, 0) AS flight_discount", "COALESCE(hotel_discount, 0) AS hotel_discount",
		"flight_discount_amount", "hotel_discount_amount",
		"COALESCE(flight_booked, 0) AS flight_booked", "COALESCE(hotel_booked, 0) AS hotel_booked",
		"COALESCE(page_clicks, 0) AS page_clicks", "COALESCE(cancellation, 0) AS cancellation",
	},
	"flights": {
		"trip_id", "COALESCE(origin_airport, '') AS origin_airport",
		"COALESCE(destination, '') AS destination", "COALESCE(destination_airport, '') AS destination_airport",
		"seats", "COALESCE(return_flight_booked, 0) AS return_flight_booked",
		"departure_time", "return_time", "checked_bags", "COALESCE(trip_airline, '') AS trip_airline",
		"destination_airport_lat", "destination_airport_lon", "base_fare_usd",
	},
	"hotels": {
		"trip_id", "COALESCE(hotel_name, '') AS hotel_name", "nights", "rooms",
		"check_in_time", "check_out_time", "hotel_per_room_usd",
	},
}

// SourceRepository reads the four source relations
type SourceRepository struct {
	db *sqlx.DB
}

// NewSourceRepository creates a new source repository
func NewSourceRepository(db *sqlx.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// CheckSchema verifies that every source table carries the columns the
// pipeline reads
func (r *SourceRepository) CheckSchema(ctx context.Context) error {
	tables := make([]string, 0, len(sourceColumns))
	for table := range sourceColumns {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	var problems []string
	for _, table := range tables {
		var present []string
		if err := r.db.SelectContext(ctx, &present, "SELECT name FROM pragma_table_info(?)", table); err != nil {
			return eris.Wrapf(err, "failed to inspect table %s", table)
		}

		have := make(map[string]bool, len(present))
		for _, name := range present {
			have[name] = true
		}

		var missing []string
		for _, col := range sourceColumns[table] {
			name := columnName(col)
			if !have[name] {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			problems = append(problems, table+"("+strings.Join(missing, ", ")+")")
		}
	}

	if len(problems) > 0 {
		return eris.Wrapf(ErrMissingColumns, "%s", strings.Join(problems, "; "))
	}
	return nil
}

// LoadDataset reads all four tables concurrently
func (r *SourceRepository) LoadDataset(ctx context.Context) (*models.Dataset, error) {
	ds := &models.Dataset{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.load(ctx, "users", "user_id", &ds.Users) })
	g.Go(func() error { return r.load(ctx, "sessions", "session_id", &ds.Sessions) })
	g.Go(func() error { return r.load(ctx, "flights", "trip_id", &ds.Flights) })
	g.Go(func() error { return r.load(ctx, "hotels", "trip_id", &ds.Hotels) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Debug("loaded source dataset",
		zap.Int("users", len(ds.Users)),
		zap.Int("sessions", len(ds.Sessions)),
		zap.Int("flights", len(ds.Flights)),
		zap.Int("hotels", len(ds.Hotels)),
	)
	return ds, nil
}

func (r *SourceRepository) load(ctx context.Context, table, orderBy string, dest any) error {
	sb := sqlbuilder.SQLite.NewSelectBuilder()
	sb.Select(sourceColumns[table]...).From(table).OrderBy(orderBy)

	query, args := sb.Build()
	if err := r.db.SelectContext(ctx, dest, query, args...); err != nil {
		return eris.Wrapf(err, "failed to load %s", table)
	}
	return nil
}

// columnName strips a COALESCE wrapper down to the source column
func columnName(expr string) string {
	if !strings.HasPrefix(expr, "COALESCE(") {
		return expr
	}
	inner := strings.TrimPrefix(expr, "COALESCE(")
	return inner[:strings.Index(inner, ",")]
}
