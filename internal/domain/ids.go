package domain

import "strings"

// Typed identifiers, one per aggregate kind. They are distinct named string
// types so a FacilityID can never be passed where a SpotID is expected; the
// compiler enforces what runtime checks would only catch late.

type (
	FacilityID    string
	SpotID        string
	ReservationID string
	VehicleID     string
	SessionID     string
	OwnerID       string
)

func (id FacilityID) String() string    { return string(id) }
func (id SpotID) String() string        { return string(id) }
func (id ReservationID) String() string { return string(id) }
func (id VehicleID) String() string     { return string(id) }
func (id SessionID) String() string     { return string(id) }
func (id OwnerID) String() string       { return string(id) }

func parseID(entity, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", requiredField(entity, "id")
	}
	return raw, nil
}

// ParseFacilityID validates a raw identifier at a trust boundary.
func ParseFacilityID(raw string) (FacilityID, error) {
	v, err := parseID("FacilityID", raw)
	return FacilityID(v), err
}

func ParseSpotID(raw string) (SpotID, error) {
	v, err := parseID("SpotID", raw)
	return SpotID(v), err
}

func ParseReservationID(raw string) (ReservationID, error) {
	v, err := parseID("ReservationID", raw)
	return ReservationID(v), err
}

func ParseVehicleID(raw string) (VehicleID, error) {
	v, err := parseID("VehicleID", raw)
	return VehicleID(v), err
}

func ParseSessionID(raw string) (SessionID, error) {
	v, err := parseID("SessionID", raw)
	return SessionID(v), err
}

func ParseOwnerID(raw string) (OwnerID, error) {
	v, err := parseID("OwnerID", raw)
	return OwnerID(v), err
}
