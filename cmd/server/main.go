package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"parkly/internal/clock"
	"parkly/internal/domain"
	"parkly/internal/events"
	eventhandlers "parkly/internal/events/handlers"
	"parkly/internal/events/kafka"
	"parkly/internal/events/outbox"
	"parkly/internal/facility"
	"parkly/internal/ident"
	jwttoken "parkly/internal/jwt_token"
	"parkly/internal/parking"
	"parkly/internal/platform/config"
	"parkly/internal/platform/httpserver"
	"parkly/internal/platform/logger"
	"parkly/internal/platform/metrics"
	platformredis "parkly/internal/platform/redis"
	"parkly/internal/pricing"
	"parkly/internal/reservation"
	httptransport "parkly/internal/transport/http"
	"parkly/internal/vehicle"
	"parkly/migrations"
)

// main wires storage, the event pipeline, and the HTTP surface. Business
// logic lives in the module services; everything here is assembly.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()
	clk := clock.NewSystem()
	ids := ident.NewUUIDv7()

	hourlyRate, err := parseRate(cfg)
	if err != nil {
		return err
	}
	strategy, err := buildStrategy(cfg, hourlyRate)
	if err != nil {
		return err
	}

	var (
		facilityStore    facility.Store
		vehicleStore     vehicle.Store
		reservationStore reservation.Store
		sessionStore     parking.Store
		outboxStore      outbox.Store
	)
	if cfg.PostgresDSN != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres pool: %w", err)
		}
		defer pool.Close()
		if err := migrations.Apply(ctx, pool); err != nil {
			return err
		}
		facilityStore = facility.NewPostgres(pool)
		vehicleStore = vehicle.NewPostgres(pool)
		reservationStore = reservation.NewPostgres(pool)
		sessionStore = parking.NewPostgres(pool)
		outboxStore = outbox.NewPostgres(pool)
		log.Info("storage: postgres")
	} else {
		queue := outbox.NewInMemory()
		facilityStore = facility.NewInMemory(queue)
		vehicleStore = vehicle.NewInMemory(queue)
		reservationStore = reservation.NewInMemory(queue)
		sessionStore = parking.NewInMemory(queue)
		outboxStore = queue
		log.Info("storage: in-memory")
	}

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		facilityStore = facility.NewCached(facilityStore, redisClient.Client, log)
		log.Info("facility cache: redis")
	}

	bus := events.NewBus(log, events.WithErrorCounter(m.IncrementHandlerFailures))
	consistency := eventhandlers.NewConsistency(facilityStore, reservationStore, sessionStore, clk, log)
	consistency.Register(bus)

	dispatcherOpts := []outbox.DispatcherOption{
		outbox.WithDispatchCounter(m.IncrementEventsDispatched),
	}
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			return err
		}
		defer publisher.Close()
		if err := publisher.EnsureTopic(ctx, 6); err != nil {
			return err
		}
		dispatcherOpts = append(dispatcherOpts, outbox.WithSink(publisher))
		log.Info("event sink: kafka", "topic", cfg.KafkaTopic)
	}
	dispatcher := outbox.NewDispatcher(outboxStore, bus, clk, log, dispatcherOpts...)

	facilitySvc, err := facility.NewService(facilityStore, ids, clk, log, m)
	if err != nil {
		return err
	}
	vehicleSvc, err := vehicle.NewService(vehicleStore, ids, clk, log, m)
	if err != nil {
		return err
	}
	reservationSvc, err := reservation.NewService(
		reservationStore, facilityStore, vehicleStore, strategy, hourlyRate, ids, clk, log, m)
	if err != nil {
		return err
	}
	parkingSvc, err := parking.NewService(
		sessionStore, facilityStore, vehicleStore, strategy, hourlyRate, ids, clk, log, m)
	if err != nil {
		return err
	}

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "parkly", "parkly-api")
	router := httptransport.NewRouter(
		jwttoken.NewJWTServiceAdapter(jwtService),
		log,
		httptransport.NewFacilityHandler(facilitySvc, log),
		httptransport.NewVehicleHandler(vehicleSvc, log),
		httptransport.NewReservationHandler(reservationSvc, log),
		httptransport.NewParkingHandler(parkingSvc, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("outbox dispatcher: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		log.Info("starting server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

func parseRate(cfg config.Config) (domain.Money, error) {
	amount, err := decimal.NewFromString(cfg.HourlyRate)
	if err != nil {
		return domain.Money{}, fmt.Errorf("parse hourly rate %q: %w", cfg.HourlyRate, err)
	}
	currency, err := domain.NewCurrency(cfg.Currency)
	if err != nil {
		return domain.Money{}, err
	}
	return domain.NewMoney(amount, currency)
}

func buildStrategy(cfg config.Config, hourlyRate domain.Money) (pricing.Strategy, error) {
	multiplier, err := decimal.NewFromString(cfg.Pricing.Multiplier)
	if err != nil {
		return nil, fmt.Errorf("parse pricing multiplier %q: %w", cfg.Pricing.Multiplier, err)
	}
	freeHours, err := decimal.NewFromString(cfg.Pricing.FreeHours)
	if err != nil {
		return nil, fmt.Errorf("parse pricing free hours %q: %w", cfg.Pricing.FreeHours, err)
	}
	dailyMaxAmount, err := decimal.NewFromString(cfg.Pricing.DailyMax)
	if err != nil {
		return nil, fmt.Errorf("parse pricing daily max %q: %w", cfg.Pricing.DailyMax, err)
	}
	dailyMax, err := domain.NewMoney(dailyMaxAmount, hourlyRate.Currency())
	if err != nil {
		return nil, err
	}

	return pricing.FromConfig(pricing.Config{
		Name:           cfg.Pricing.Strategy,
		Multiplier:     multiplier,
		PeakStartHour:  cfg.Pricing.PeakStartHour,
		PeakEndHour:    cfg.Pricing.PeakEndHour,
		PeakMultiplier: multiplier,
		FreeHours:      freeHours,
		DailyMax:       dailyMax,
	})
}
