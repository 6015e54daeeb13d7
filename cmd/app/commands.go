package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/cache"
	"github.com/Domenick1991/flightdesk/internal/console"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/logger"
	"github.com/Domenick1991/flightdesk/internal/reference"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/Domenick1991/flightdesk/internal/service/crew"
	"github.com/Domenick1991/flightdesk/internal/service/destinations"
	"github.com/Domenick1991/flightdesk/internal/service/flights"
	"github.com/Domenick1991/flightdesk/internal/service/reports"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

// env holds what every command needs: config, logger and the database pool.
type env struct {
	cfg  *config.Config
	log  *logger.ZapLogger
	pool *pgxpool.Pool
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	pool, err := repository.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}

func (e *env) Close() {
	e.pool.Close()
	_ = e.log.Sync()
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	lookup, err := loadAirports(e.cfg.Reference)
	if err != nil {
		return err
	}
	e.log.Info("airport list loaded", "airports", lookup.Len())

	destinationRepo := repository.NewDestinationRepository(e.pool)
	flightRepo := repository.NewFlightRepository(e.pool)
	pilotRepo := repository.NewPilotRepository(e.pool)
	airports := reference.NewResolver(lookup, destinationRepo)

	flightOpts := []flights.FlightServiceOption{flights.WithLogger(e.log)}
	crewOpts := []crew.CrewServiceOption{crew.WithLogger(e.log)}
	destinationOpts := []destinations.DestinationServiceOption{destinations.WithLogger(e.log)}

	if e.cfg.Redis.Enabled() {
		redisCache := cache.NewRedisCache(e.cfg.Redis, time.Duration(e.cfg.Cache.SearchTTLSeconds)*time.Second)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			e.log.Warn("redis unavailable, search cache disabled", "addr", e.cfg.Redis.Addr, "error", err)
		} else {
			flightOpts = append(flightOpts, flights.WithCache(redisCache))
		}
	}

	if e.cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(e.cfg.Kafka.Brokers, e.log)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			e.log.Warn("kafka unavailable, events may be dropped", "brokers", e.cfg.Kafka.Brokers, "error", err)
		}
		topic := e.cfg.Kafka.EventsTopic
		flightOpts = append(flightOpts, flights.WithProducer(producer, topic))
		crewOpts = append(crewOpts, crew.WithProducer(producer, topic))
		destinationOpts = append(destinationOpts, destinations.WithProducer(producer, topic))
	}

	flightService := flights.NewFlightService(flightRepo, airports, flightOpts...)
	shell := console.NewShell(console.Services{
		Flights:      flightService,
		Crew:         crew.NewCrewService(repository.NewCrewRepository(e.pool), pilotRepo, flightRepo, crewOpts...),
		Destinations: destinations.NewDestinationService(destinationRepo, destinationOpts...),
		Bookings:     booking.NewBookingService(repository.NewBookingRepository(e.pool), flightRepo, booking.WithLogger(e.log)),
		Airports:     airports,
	}, os.Stdin, os.Stdout, e.log)

	e.log.Info("session started")
	if err := shell.Run(ctx); err != nil {
		return err
	}
	e.log.Info("session ended")
	return nil
}

func loadAirports(cfg config.ReferenceConfig) (*reference.Lookup, error) {
	if cfg.AirportsCSV == "" {
		return reference.Default()
	}
	return reference.LoadFile(cfg.AirportsCSV)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	if err := repository.Migrate(cmd.Context(), e.pool); err != nil {
		return err
	}
	e.log.Info("schema applied")
	console.NewRenderer(cmd.OutOrStdout()).Success("Schema applied.")
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	if err := repository.Seed(cmd.Context(), e.pool); err != nil {
		return err
	}
	e.log.Info("sample data loaded")
	console.NewRenderer(cmd.OutOrStdout()).Success("Sample data loaded.")
	return nil
}

func runDestinationsReport(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	report, err := reports.NewReportService(repository.NewReportRepository(e.pool)).FlightsPerDestination(cmd.Context())
	if err != nil {
		return fmt.Errorf("destinations report: %w", err)
	}
	out := console.NewRenderer(cmd.OutOrStdout())
	out.Heading("Flights per destination")
	out.Traffic(report)
	return nil
}

func runPilotsReport(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	report, err := reports.NewReportService(repository.NewReportRepository(e.pool)).AssignmentsPerPilot(cmd.Context())
	if err != nil {
		return fmt.Errorf("pilots report: %w", err)
	}
	out := console.NewRenderer(cmd.OutOrStdout())
	out.Heading("Assignments per pilot")
	out.Workload(report)
	return nil
}
