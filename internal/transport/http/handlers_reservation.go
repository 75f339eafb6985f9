package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"parkly/internal/domain"
	"parkly/internal/platform/middleware"
	"parkly/internal/reservation"
)

// ReservationService is the slice of the reservation module the transport needs.
type ReservationService interface {
	CreateReservation(ctx context.Context, input reservation.CreateReservationInput) (domain.ReservationID, error)
	ConfirmReservation(ctx context.Context, rawID string) error
	ActivateReservation(ctx context.Context, rawID string) error
	CompleteReservation(ctx context.Context, rawID string) error
	CancelReservation(ctx context.Context, rawID, reason string) error
	ExtendReservation(ctx context.Context, rawID string, newEnd time.Time) error
	GetReservation(ctx context.Context, rawID string) (domain.ReservationSnapshot, error)
	ListVehicleReservations(ctx context.Context, rawVehicleID string) ([]domain.ReservationSnapshot, error)
}

// ReservationHandler wires reservation endpoints to the reservation service.
type ReservationHandler struct {
	service ReservationService
	logger  *slog.Logger
}

func NewReservationHandler(service ReservationService, logger *slog.Logger) *ReservationHandler {
	return &ReservationHandler{service: service, logger: logger}
}

// Register mounts reservation endpoints on the router.
func (h *ReservationHandler) Register(r chi.Router) {
	r.Post("/reservations", h.handleCreate)
	r.Get("/reservations/{reservationID}", h.handleGet)
	r.Post("/reservations/{reservationID}/confirm", h.handleConfirm)
	r.Post("/reservations/{reservationID}/activate", h.handleActivate)
	r.Post("/reservations/{reservationID}/complete", h.handleComplete)
	r.Post("/reservations/{reservationID}/cancel", h.handleCancel)
	r.Post("/reservations/{reservationID}/extend", h.handleExtend)
	r.Get("/vehicles/{vehicleID}/reservations", h.handleListForVehicle)
}

type createReservationRequest struct {
	FacilityID string `json:"facility_id"`
	SpotID     string `json:"spot_id"`
	VehicleID  string `json:"vehicle_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

func (h *ReservationHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[createReservationRequest](w, r)
	if !ok {
		return
	}
	start, ok := parseTime(w, req.StartTime, "start_time")
	if !ok {
		return
	}
	end, ok := parseTime(w, req.EndTime, "end_time")
	if !ok {
		return
	}

	id, err := h.service.CreateReservation(r.Context(), reservation.CreateReservationInput{
		FacilityID: req.FacilityID,
		SpotID:     req.SpotID,
		VehicleID:  req.VehicleID,
		StartTime:  start,
		EndTime:    end,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "create reservation failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"reservation_id": id.String()})
}

func (h *ReservationHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.GetReservation(r.Context(), chi.URLParam(r, "reservationID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationResponse(snap))
}

func (h *ReservationHandler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ConfirmReservation)
}

func (h *ReservationHandler) handleActivate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ActivateReservation)
}

func (h *ReservationHandler) handleComplete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.CompleteReservation)
}

func (h *ReservationHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) error) {
	if err := fn(r.Context(), chi.URLParam(r, "reservationID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type cancelReservationRequest struct {
	Reason string `json:"reason"`
}

func (h *ReservationHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[cancelReservationRequest](w, r)
	if !ok {
		return
	}
	if err := h.service.CancelReservation(r.Context(), chi.URLParam(r, "reservationID"), req.Reason); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type extendReservationRequest struct {
	NewEndTime string `json:"new_end_time"`
}

func (h *ReservationHandler) handleExtend(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[extendReservationRequest](w, r)
	if !ok {
		return
	}
	newEnd, ok := parseTime(w, req.NewEndTime, "new_end_time")
	if !ok {
		return
	}
	if err := h.service.ExtendReservation(r.Context(), chi.URLParam(r, "reservationID"), newEnd); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReservationHandler) handleListForVehicle(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.service.ListVehicleReservations(r.Context(), chi.URLParam(r, "vehicleID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": toReservationResponses(reservations)})
}
