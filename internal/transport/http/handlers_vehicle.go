package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"parkly/internal/domain"
	"parkly/internal/platform/middleware"
	"parkly/internal/vehicle"
)

// VehicleService is the slice of the vehicle module the transport needs.
type VehicleService interface {
	RegisterVehicle(ctx context.Context, input vehicle.RegisterVehicleInput) (domain.VehicleID, error)
	GetVehicle(ctx context.Context, rawID string) (domain.VehicleSnapshot, error)
	ListOwnerVehicles(ctx context.Context, rawOwnerID string) ([]domain.VehicleSnapshot, error)
}

// VehicleHandler wires vehicle endpoints to the vehicle service. The owner of
// every request is taken from the authenticated token, never the payload.
type VehicleHandler struct {
	service VehicleService
	logger  *slog.Logger
}

func NewVehicleHandler(service VehicleService, logger *slog.Logger) *VehicleHandler {
	return &VehicleHandler{service: service, logger: logger}
}

// Register mounts vehicle endpoints on the router.
func (h *VehicleHandler) Register(r chi.Router) {
	r.Post("/vehicles", h.handleRegister)
	r.Get("/vehicles", h.handleListOwned)
	r.Get("/vehicles/{vehicleID}", h.handleGet)
}

type registerVehicleRequest struct {
	PlateValue  string `json:"plate_value"`
	PlateRegion string `json:"plate_region"`
	VehicleType string `json:"vehicle_type"`
	IsElectric  bool   `json:"is_electric"`
}

func (h *VehicleHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[registerVehicleRequest](w, r)
	if !ok {
		return
	}

	id, err := h.service.RegisterVehicle(r.Context(), vehicle.RegisterVehicleInput{
		OwnerID:     middleware.GetOwnerID(r.Context()),
		PlateValue:  req.PlateValue,
		PlateRegion: req.PlateRegion,
		VehicleType: req.VehicleType,
		IsElectric:  req.IsElectric,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "register vehicle failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"vehicle_id": id.String()})
}

func (h *VehicleHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.GetVehicle(r.Context(), chi.URLParam(r, "vehicleID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVehicleResponse(snap))
}

func (h *VehicleHandler) handleListOwned(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.service.ListOwnerVehicles(r.Context(), middleware.GetOwnerID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicles": toVehicleResponses(vehicles)})
}
