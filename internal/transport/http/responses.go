package httptransport

import (
	"time"

	"parkly/internal/domain"
)

// Response shapes are decoupled from the snapshot structs so storage can
// evolve without changing the wire format.

type spotResponse struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Floor  int    `json:"floor"`
}

type facilityResponse struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Type          string         `json:"type"`
	Latitude      float64        `json:"latitude"`
	Longitude     float64        `json:"longitude"`
	Address       string         `json:"address"`
	Capacity      int            `json:"capacity"`
	AccessControl string         `json:"access_control"`
	Spots         []spotResponse `json:"spots"`
	CreatedAt     time.Time      `json:"created_at"`
}

func toSpotResponse(snap domain.SpotSnapshot) spotResponse {
	return spotResponse{
		ID:     snap.ID,
		Number: snap.Number,
		Type:   snap.Type,
		Status: snap.Status,
		Floor:  snap.Floor,
	}
}

func toSpotResponses(snaps []domain.SpotSnapshot) []spotResponse {
	out := make([]spotResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toSpotResponse(snap))
	}
	return out
}

func toFacilityResponse(snap domain.FacilitySnapshot) facilityResponse {
	return facilityResponse{
		ID:            snap.ID,
		Name:          snap.Name,
		Type:          snap.Type,
		Latitude:      snap.Latitude,
		Longitude:     snap.Longitude,
		Address:       snap.Address,
		Capacity:      snap.Capacity,
		AccessControl: snap.AccessControl,
		Spots:         toSpotResponses(snap.Spots),
		CreatedAt:     snap.CreatedAt,
	}
}

func toFacilityResponses(snaps []domain.FacilitySnapshot) []facilityResponse {
	out := make([]facilityResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toFacilityResponse(snap))
	}
	return out
}

type vehicleResponse struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	PlateValue   string    `json:"plate_value"`
	PlateRegion  string    `json:"plate_region"`
	Type         string    `json:"type"`
	IsElectric   bool      `json:"is_electric"`
	RegisteredAt time.Time `json:"registered_at"`
}

func toVehicleResponse(snap domain.VehicleSnapshot) vehicleResponse {
	return vehicleResponse{
		ID:           snap.ID,
		OwnerID:      snap.OwnerID,
		PlateValue:   snap.PlateValue,
		PlateRegion:  snap.PlateRegion,
		Type:         snap.Type,
		IsElectric:   snap.IsElectric,
		RegisteredAt: snap.RegisteredAt,
	}
}

func toVehicleResponses(snaps []domain.VehicleSnapshot) []vehicleResponse {
	out := make([]vehicleResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toVehicleResponse(snap))
	}
	return out
}

type reservationResponse struct {
	ID           string    `json:"id"`
	FacilityID   string    `json:"facility_id"`
	SpotID       string    `json:"spot_id"`
	VehicleID    string    `json:"vehicle_id"`
	SlotStart    time.Time `json:"slot_start"`
	SlotEnd      time.Time `json:"slot_end"`
	Status       string    `json:"status"`
	CostAmount   string    `json:"cost_amount"`
	CostCurrency string    `json:"cost_currency"`
	CancelReason string    `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func toReservationResponse(snap domain.ReservationSnapshot) reservationResponse {
	return reservationResponse{
		ID:           snap.ID,
		FacilityID:   snap.FacilityID,
		SpotID:       snap.SpotID,
		VehicleID:    snap.VehicleID,
		SlotStart:    snap.SlotStart,
		SlotEnd:      snap.SlotEnd,
		Status:       snap.Status,
		CostAmount:   snap.CostAmount,
		CostCurrency: snap.CostCurrency,
		CancelReason: snap.CancelReason,
		CreatedAt:    snap.CreatedAt,
	}
}

func toReservationResponses(snaps []domain.ReservationSnapshot) []reservationResponse {
	out := make([]reservationResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toReservationResponse(snap))
	}
	return out
}

type sessionResponse struct {
	ID            string     `json:"id"`
	ReservationID string     `json:"reservation_id,omitempty"`
	FacilityID    string     `json:"facility_id"`
	SpotID        string     `json:"spot_id"`
	VehicleID     string     `json:"vehicle_id"`
	EntryTime     time.Time  `json:"entry_time"`
	ExitTime      *time.Time `json:"exit_time,omitempty"`
	CostAmount    string     `json:"cost_amount"`
	CostCurrency  string     `json:"cost_currency"`
}

func toSessionResponse(snap domain.SessionSnapshot) sessionResponse {
	resp := sessionResponse{
		ID:            snap.ID,
		ReservationID: snap.ReservationID,
		FacilityID:    snap.FacilityID,
		SpotID:        snap.SpotID,
		VehicleID:     snap.VehicleID,
		EntryTime:     snap.EntryTime,
		CostAmount:    snap.CostAmount,
		CostCurrency:  snap.CostCurrency,
	}
	if !snap.ExitTime.IsZero() {
		exit := snap.ExitTime
		resp.ExitTime = &exit
	}
	return resp
}

func toSessionResponses(snaps []domain.SessionSnapshot) []sessionResponse {
	out := make([]sessionResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toSessionResponse(snap))
	}
	return out
}
