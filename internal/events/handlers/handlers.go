package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"parkly/internal/clock"
	"parkly/internal/domain"
	"parkly/internal/events"
	"parkly/internal/events/outbox"
	"parkly/internal/storage"
)

// Consumer-side store contracts: only what the reactions need, implemented
// by the module stores. Save persists the aggregate together with its outbox
// entries.

type FacilityStore interface {
	FindByID(ctx context.Context, id domain.FacilityID) (*domain.ParkingFacility, error)
	Save(ctx context.Context, facility *domain.ParkingFacility, entries []outbox.Entry) error
}

type ReservationStore interface {
	FindByID(ctx context.Context, id domain.ReservationID) (*domain.Reservation, error)
	Save(ctx context.Context, reservation *domain.Reservation, entries []outbox.Entry) error
}

type SessionStore interface {
	FindByID(ctx context.Context, id domain.SessionID) (*domain.ParkingSession, error)
}

// Consistency owns the saga-like reactions that keep facility spot state in
// step with reservation and session lifecycle changes. Each reaction is a
// separately committed follow-up: a missing aggregate logs and no-ops rather
// than retrying, and spot release is idempotent so replayed deliveries are
// harmless.
type Consistency struct {
	facilities   FacilityStore
	reservations ReservationStore
	sessions     SessionStore
	clock        clock.Clock
	logger       *slog.Logger
}

func NewConsistency(
	facilities FacilityStore,
	reservations ReservationStore,
	sessions SessionStore,
	clk clock.Clock,
	logger *slog.Logger,
) *Consistency {
	return &Consistency{
		facilities:   facilities,
		reservations: reservations,
		sessions:     sessions,
		clock:        clk,
		logger:       logger,
	}
}

// Register subscribes both reactions on the bus.
func (c *Consistency) Register(bus *events.Bus) {
	bus.Register(domain.EventReservationCancelled, events.HandlerFunc(c.OnReservationCancelled))
	bus.Register(domain.EventSessionEnded, events.HandlerFunc(c.OnSessionEnded))
}

// OnReservationCancelled releases the cancelled reservation's spot.
func (c *Consistency) OnReservationCancelled(ctx context.Context, event domain.Event) error {
	cancelled, ok := event.(domain.ReservationCancelled)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, domain.EventReservationCancelled)
	}

	reservation, err := c.reservations.FindByID(ctx, cancelled.ReservationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.logger.Warn("cancelled reservation not found, skipping spot release",
				"reservation_id", cancelled.ReservationID.String())
			return nil
		}
		return fmt.Errorf("load reservation %s: %w", cancelled.ReservationID, err)
	}

	return c.releaseSpot(ctx, reservation.FacilityID(), reservation.SpotID())
}

// OnSessionEnded releases the session's spot and completes a linked
// reservation when one exists.
func (c *Consistency) OnSessionEnded(ctx context.Context, event domain.Event) error {
	ended, ok := event.(domain.SessionEnded)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, domain.EventSessionEnded)
	}

	session, err := c.sessions.FindByID(ctx, ended.SessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.logger.Warn("ended session not found, skipping spot release",
				"session_id", ended.SessionID.String())
			return nil
		}
		return fmt.Errorf("load session %s: %w", ended.SessionID, err)
	}

	if err := c.releaseSpot(ctx, session.FacilityID(), session.SpotID()); err != nil {
		return err
	}

	if !session.HasReservation() {
		return nil
	}
	return c.completeReservation(ctx, session.ReservationID())
}

func (c *Consistency) releaseSpot(ctx context.Context, facilityID domain.FacilityID, spotID domain.SpotID) error {
	facility, err := c.facilities.FindByID(ctx, facilityID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.logger.Warn("facility not found, skipping spot release",
				"facility_id", facilityID.String())
			return nil
		}
		return fmt.Errorf("load facility %s: %w", facilityID, err)
	}

	if err := facility.ReleaseSpot(spotID); err != nil {
		c.logger.Warn("spot release skipped",
			"facility_id", facilityID.String(),
			"spot_id", spotID.String(),
			"error", err)
		return nil
	}

	entries, err := outbox.FromEvents(facility.CollectEvents()...)
	if err != nil {
		return err
	}
	if err := c.facilities.Save(ctx, facility, entries); err != nil {
		return fmt.Errorf("save facility %s: %w", facilityID, err)
	}

	c.logger.Info("spot released",
		"facility_id", facilityID.String(),
		"spot_id", spotID.String())
	return nil
}

func (c *Consistency) completeReservation(ctx context.Context, reservationID domain.ReservationID) error {
	reservation, err := c.reservations.FindByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Linked reservation vanished; only the spot release applies.
			return nil
		}
		return fmt.Errorf("load reservation %s: %w", reservationID, err)
	}

	if err := reservation.Complete(c.clock.Now()); err != nil {
		// Already terminal, e.g. a replayed delivery.
		c.logger.Warn("reservation completion skipped",
			"reservation_id", reservationID.String(),
			"status", string(reservation.Status()),
			"error", err)
		return nil
	}

	entries, err := outbox.FromEvents(reservation.CollectEvents()...)
	if err != nil {
		return err
	}
	if err := c.reservations.Save(ctx, reservation, entries); err != nil {
		return fmt.Errorf("save reservation %s: %w", reservationID, err)
	}

	c.logger.Info("reservation completed after session end",
		"reservation_id", reservationID.String())
	return nil
}
