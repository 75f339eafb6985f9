package domain

import "time"

// spotEligibility maps each vehicle type to the spot types it may park in.
// Electric vehicles additionally qualify for ev_charging spots.
var spotEligibility = map[VehicleType][]SpotType{
	VehicleTypeCar:        {SpotTypeStandard, SpotTypeHandicapped},
	VehicleTypeMotorcycle: {SpotTypeMotorcycle},
	VehicleTypeTruck:      {SpotTypeOversized},
	VehicleTypeBicycle:    {SpotTypeBicycle},
}

// Vehicle is the aggregate root for a registered vehicle. The license plate
// is unique system-wide; the repository enforces that.
type Vehicle struct {
	recorder

	id           VehicleID
	ownerID      OwnerID
	plate        LicensePlate
	vehicleType  VehicleType
	isElectric   bool
	registeredAt time.Time
}

// NewVehicle registers a vehicle and records VehicleRegistered.
func NewVehicle(
	id VehicleID,
	ownerID OwnerID,
	plate LicensePlate,
	vehicleType VehicleType,
	isElectric bool,
	at time.Time,
) (*Vehicle, error) {
	if id == "" {
		return nil, requiredField("Vehicle", "id")
	}
	if ownerID == "" {
		return nil, requiredField("Vehicle", "owner_id")
	}
	if plate.IsZero() {
		return nil, requiredField("Vehicle", "license_plate")
	}
	if vehicleType == "" {
		return nil, requiredField("Vehicle", "vehicle_type")
	}
	if at.IsZero() {
		return nil, requiredField("Vehicle", "registered_at")
	}

	v := &Vehicle{
		id:           id,
		ownerID:      ownerID,
		plate:        plate,
		vehicleType:  vehicleType,
		isElectric:   isElectric,
		registeredAt: at,
	}
	event, err := NewVehicleRegistered(id, ownerID, plate, at)
	if err != nil {
		return nil, err
	}
	v.record(event)
	return v, nil
}

func (v *Vehicle) ID() VehicleID           { return v.id }
func (v *Vehicle) OwnerID() OwnerID        { return v.ownerID }
func (v *Vehicle) Plate() LicensePlate     { return v.plate }
func (v *Vehicle) Type() VehicleType       { return v.vehicleType }
func (v *Vehicle) IsElectric() bool        { return v.isElectric }
func (v *Vehicle) RegisteredAt() time.Time { return v.registeredAt }

// EligibleSpotTypes lists the spot types this vehicle may occupy.
func (v *Vehicle) EligibleSpotTypes() []SpotType {
	types := make([]SpotType, 0, 3)
	types = append(types, spotEligibility[v.vehicleType]...)
	if v.isElectric {
		types = append(types, SpotTypeEVCharging)
	}
	return types
}

// CanParkIn reports whether the vehicle may occupy the given spot type.
func (v *Vehicle) CanParkIn(spotType SpotType) bool {
	for _, t := range v.EligibleSpotTypes() {
		if t == spotType {
			return true
		}
	}
	return false
}

// EnsureEligible returns IneligibleSpotTypeError when the vehicle cannot
// occupy the given spot type.
func (v *Vehicle) EnsureEligible(spotType SpotType) error {
	if !v.CanParkIn(spotType) {
		return &IneligibleSpotTypeError{VehicleType: v.vehicleType, SpotType: spotType}
	}
	return nil
}
