package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"parkly/internal/domain"
	"parkly/internal/parking"
	"parkly/internal/platform/middleware"
)

// ParkingService is the slice of the parking module the transport needs.
type ParkingService interface {
	StartSession(ctx context.Context, input parking.StartSessionInput) (domain.SessionID, error)
	ExtendSession(ctx context.Context, rawID string, newEnd time.Time) error
	EndSession(ctx context.Context, rawID string) (domain.Money, error)
	GetSession(ctx context.Context, rawID string) (domain.SessionSnapshot, error)
	ListVehicleSessions(ctx context.Context, rawVehicleID string) ([]domain.SessionSnapshot, error)
}

// ParkingHandler wires parking session endpoints to the parking service.
type ParkingHandler struct {
	service ParkingService
	logger  *slog.Logger
}

func NewParkingHandler(service ParkingService, logger *slog.Logger) *ParkingHandler {
	return &ParkingHandler{service: service, logger: logger}
}

// Register mounts session endpoints on the router.
func (h *ParkingHandler) Register(r chi.Router) {
	r.Post("/sessions", h.handleStart)
	r.Get("/sessions/{sessionID}", h.handleGet)
	r.Post("/sessions/{sessionID}/extend", h.handleExtend)
	r.Post("/sessions/{sessionID}/end", h.handleEnd)
	r.Get("/vehicles/{vehicleID}/sessions", h.handleListForVehicle)
}

type startSessionRequest struct {
	FacilityID    string `json:"facility_id"`
	SpotID        string `json:"spot_id"`
	VehicleID     string `json:"vehicle_id"`
	ReservationID string `json:"reservation_id,omitempty"`
}

func (h *ParkingHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[startSessionRequest](w, r)
	if !ok {
		return
	}

	id, err := h.service.StartSession(r.Context(), parking.StartSessionInput{
		FacilityID:    req.FacilityID,
		SpotID:        req.SpotID,
		VehicleID:     req.VehicleID,
		ReservationID: req.ReservationID,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "start session failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"session_id": id.String()})
}

func (h *ParkingHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(snap))
}

type extendSessionRequest struct {
	NewEndTime string `json:"new_end_time"`
}

func (h *ParkingHandler) handleExtend(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[extendSessionRequest](w, r)
	if !ok {
		return
	}
	newEnd, ok := parseTime(w, req.NewEndTime, "new_end_time")
	if !ok {
		return
	}
	if err := h.service.ExtendSession(r.Context(), chi.URLParam(r, "sessionID"), newEnd); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ParkingHandler) handleEnd(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.EndSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"total_cost": total.Amount().String(),
		"currency":   total.Currency().Code(),
	})
}

func (h *ParkingHandler) handleListForVehicle(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.ListVehicleSessions(r.Context(), chi.URLParam(r, "vehicleID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": toSessionResponses(sessions)})
}
