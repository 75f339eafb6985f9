package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"parkly/internal/domain"
	"parkly/internal/facility"
	"parkly/internal/platform/middleware"
)

// FacilityService is the slice of the facility module the transport needs.
type FacilityService interface {
	CreateFacility(ctx context.Context, input facility.CreateFacilityInput) (domain.FacilityID, error)
	AddSpot(ctx context.Context, input facility.AddSpotInput) (domain.SpotID, error)
	RemoveSpot(ctx context.Context, input facility.RemoveSpotInput) error
	GetFacility(ctx context.Context, rawID string) (domain.FacilitySnapshot, error)
	FindAvailableSpots(ctx context.Context, input facility.FindAvailableSpotsInput) ([]domain.SpotSnapshot, error)
	FindByLocation(ctx context.Context, input facility.FindByLocationInput) ([]domain.FacilitySnapshot, error)
}

// FacilityHandler wires facility endpoints to the facility service.
type FacilityHandler struct {
	service FacilityService
	logger  *slog.Logger
}

func NewFacilityHandler(service FacilityService, logger *slog.Logger) *FacilityHandler {
	return &FacilityHandler{service: service, logger: logger}
}

// Register mounts facility endpoints on the router.
func (h *FacilityHandler) Register(r chi.Router) {
	r.Post("/facilities", h.handleCreate)
	r.Get("/facilities/nearby", h.handleNearby)
	r.Get("/facilities/{facilityID}", h.handleGet)
	r.Post("/facilities/{facilityID}/spots", h.handleAddSpot)
	r.Delete("/facilities/{facilityID}/spots/{spotID}", h.handleRemoveSpot)
	r.Get("/facilities/{facilityID}/spots/available", h.handleAvailableSpots)
}

type createFacilityRequest struct {
	Name          string  `json:"name"`
	FacilityType  string  `json:"facility_type"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Address       string  `json:"address"`
	Capacity      int     `json:"capacity"`
	AccessControl string  `json:"access_control"`
}

func (h *FacilityHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[createFacilityRequest](w, r)
	if !ok {
		return
	}

	id, err := h.service.CreateFacility(r.Context(), facility.CreateFacilityInput{
		Name:          req.Name,
		FacilityType:  req.FacilityType,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Address:       req.Address,
		Capacity:      req.Capacity,
		AccessControl: req.AccessControl,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "create facility failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"facility_id": id.String()})
}

func (h *FacilityHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.GetFacility(r.Context(), chi.URLParam(r, "facilityID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFacilityResponse(snap))
}

type addSpotRequest struct {
	SpotNumber string `json:"spot_number"`
	SpotType   string `json:"spot_type"`
	Floor      int    `json:"floor"`
}

func (h *FacilityHandler) handleAddSpot(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[addSpotRequest](w, r)
	if !ok {
		return
	}

	id, err := h.service.AddSpot(r.Context(), facility.AddSpotInput{
		FacilityID: chi.URLParam(r, "facilityID"),
		SpotNumber: req.SpotNumber,
		SpotType:   req.SpotType,
		Floor:      req.Floor,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"spot_id": id.String()})
}

func (h *FacilityHandler) handleRemoveSpot(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveSpot(r.Context(), facility.RemoveSpotInput{
		FacilityID: chi.URLParam(r, "facilityID"),
		SpotID:     chi.URLParam(r, "spotID"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FacilityHandler) handleAvailableSpots(w http.ResponseWriter, r *http.Request) {
	start, ok := parseTime(w, r.URL.Query().Get("start"), "start")
	if !ok {
		return
	}
	end, ok := parseTime(w, r.URL.Query().Get("end"), "end")
	if !ok {
		return
	}

	spots, err := h.service.FindAvailableSpots(r.Context(), facility.FindAvailableSpotsInput{
		FacilityID: chi.URLParam(r, "facilityID"),
		SlotStart:  start,
		SlotEnd:    end,
		SpotType:   r.URL.Query().Get("type"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"spots": toSpotResponses(spots)})
}

func (h *FacilityHandler) handleNearby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	latitude, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lat"})
		return
	}
	longitude, err := strconv.ParseFloat(query.Get("lng"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid lng"})
		return
	}
	radiusKm, err := strconv.ParseFloat(query.Get("radius_km"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid radius_km"})
		return
	}

	facilities, err := h.service.FindByLocation(r.Context(), facility.FindByLocationInput{
		Latitude:  latitude,
		Longitude: longitude,
		RadiusKm:  radiusKm,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"facilities": toFacilityResponses(facilities)})
}
