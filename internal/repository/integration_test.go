package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to FLIGHTDESK_TEST_DSN and reloads the sample data.
// The database is wiped: point it at a throwaway instance.
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("FLIGHTDESK_TEST_DSN")
	if dsn == "" {
		t.Skip("FLIGHTDESK_TEST_DSN not set")
	}
	ctx := context.Background()

	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE bookings, flight_crew, flights, pilots, destinations RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, pool))
	return pool
}

func countSlot(t *testing.T, pool *pgxpool.Pool, flightID int64, role domain.CrewRole) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM flight_crew WHERE flight_id=$1 AND role=$2`, flightID, string(role)).Scan(&n))
	return n
}

func TestIntegration_FlightLifecycle(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	flights := NewFlightRepository(pool)
	destinations := NewDestinationRepository(pool)

	atl, err := destinations.IDByIATA(ctx, "ATL")
	require.NoError(t, err)
	pek, err := destinations.IDByIATA(ctx, "PEK")
	require.NoError(t, err)

	taken, err := flights.NumberTaken(ctx, "ey999")
	require.NoError(t, err)
	assert.False(t, taken)

	dep := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	f := &domain.Flight{FlightNo: "EY999", OriginID: atl, DestinationID: pek, Departure: dep, Arrival: dep.Add(time.Hour), Status: domain.FlightStatusScheduled}
	require.NoError(t, flights.Create(ctx, f))
	assert.NotZero(t, f.ID)

	taken, err = flights.NumberTaken(ctx, "ey999")
	require.NoError(t, err)
	assert.True(t, taken)

	dup := *f
	assert.ErrorIs(t, flights.Create(ctx, &dup), domain.ErrDuplicateKey)

	same := *f
	same.FlightNo = "EY998"
	same.Arrival = same.Departure
	assert.ErrorIs(t, flights.Create(ctx, &same), domain.ErrInvalidInput)

	delayed := domain.FlightStatusDelayed
	require.NoError(t, flights.Update(ctx, "EY999", domain.FlightPatch{Status: &delayed}))
	got, err := flights.GetByNumber(ctx, "EY999")
	require.NoError(t, err)
	assert.Equal(t, domain.FlightStatusDelayed, got.Status)
	assert.True(t, got.Departure.Equal(dep), "departure kept")
	assert.Equal(t, "ATL", got.Origin)
	assert.Equal(t, "PEK", got.Destination)

	assert.ErrorIs(t, flights.Update(ctx, "NOPE1", domain.FlightPatch{Status: &delayed}), domain.ErrNotFound)
}

func TestIntegration_SearchConjunction(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	flights := NewFlightRepository(pool)

	all, err := flights.Search(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 12)

	got, err := flights.Search(ctx, []domain.FlightFilter{
		domain.StatusFilter{Status: domain.FlightStatusScheduled},
		domain.DepartureDateFilter{Date: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	require.Len(t, got, 9)
	for i, f := range got {
		assert.Equal(t, domain.FlightStatusScheduled, f.Status)
		if i > 0 {
			assert.False(t, f.Departure.Before(got[i-1].Departure), "sorted by departure")
		}
	}
	assert.Equal(t, "EY107", got[0].FlightNo)

	got, err = flights.Search(ctx, []domain.FlightFilter{
		domain.OriginFilter{Code: "ATL"},
		domain.DestinationFilter{Code: "PEK"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "EY101", got[0].FlightNo)
}

func TestIntegration_CrewSlots(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	crew := NewCrewRepository(pool)
	now := time.Date(2025, 9, 30, 12, 0, 0, 0, time.UTC)

	// EY112 (flight 12) is crewed by pilots 11 and 12.
	incumbent, err := crew.FindBySlot(ctx, 12, domain.CrewRoleCaptain)
	require.NoError(t, err)
	require.NotNil(t, incumbent)
	assert.Equal(t, int64(11), incumbent.PilotID)

	none, err := crew.FindByPilot(ctx, 12, 1)
	require.NoError(t, err)
	assert.Nil(t, none)

	// occupied slot: conditional insert reports a conflict and writes nothing
	err = crew.Insert(ctx, &domain.CrewAssignment{FlightID: 12, PilotID: 1, Role: domain.CrewRoleCaptain, AssignedAt: now})
	assert.ErrorIs(t, err, domain.ErrAssignmentConflict)
	assert.Equal(t, 1, countSlot(t, pool, 12, domain.CrewRoleCaptain))

	replaced, err := crew.Replace(ctx, incumbent, 1, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), replaced.PilotID)
	assert.Equal(t, incumbent.ID, replaced.ID)
	assert.Equal(t, 1, countSlot(t, pool, 12, domain.CrewRoleCaptain))

	// stale incumbent: the slot no longer belongs to pilot 11
	_, err = crew.Replace(ctx, incumbent, 3, now)
	assert.ErrorIs(t, err, domain.ErrAssignmentConflict)

	// pilot 12 already holds Co-Captain; moving them into Captain breaks the per-pilot key
	current, err := crew.FindBySlot(ctx, 12, domain.CrewRoleCaptain)
	require.NoError(t, err)
	_, err = crew.Replace(ctx, current, 12, now)
	assert.ErrorIs(t, err, domain.ErrAssignmentConflict)

	schedule, err := crew.ScheduleForPilot(ctx, 1)
	require.NoError(t, err)
	require.Len(t, schedule, 3)
	assert.Equal(t, "EY107", schedule[0].FlightNo)
	assert.Equal(t, "EY112", schedule[2].FlightNo)
	assert.Equal(t, "Anna Visser", schedule[0].PilotName)
}

func TestIntegration_DestinationsAndReports(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	destinations := NewDestinationRepository(pool)
	reports := NewReportRepository(pool)
	bookings := NewBookingRepository(pool)

	active, err := destinations.List(ctx, true)
	require.NoError(t, err)
	all, err := destinations.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 51)
	assert.Len(t, active, 50)

	d, err := destinations.SetActive(ctx, 51, true)
	require.NoError(t, err)
	assert.True(t, d.IsActive)
	assert.Equal(t, "BAY", d.IATA)

	_, err = destinations.GetByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	traffic, err := reports.FlightsPerDestination(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ATL", traffic[0].IATA)
	assert.Equal(t, 3, traffic[0].TotalFlights)

	workload, err := reports.AssignmentsPerPilot(ctx)
	require.NoError(t, err)
	assert.Len(t, workload, 12)
	assert.Equal(t, 2, workload[0].TotalAssigned)

	counts, err := bookings.CountByStatus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []domain.BookingStatusCount{
		{Status: domain.BookingStatusBooked, Count: 1},
		{Status: domain.BookingStatusCheckedIn, Count: 1},
	}, counts)
}
