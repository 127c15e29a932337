package parking

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnknownVehicleType = errors.New("unknown vehicle type")

type VehicleType int

const (
	Car VehicleType = iota + 1
	Motorcycle
	MiniBus
	Bus
)

// Rate is the fee for up to two hours of parking.
func (t VehicleType) Rate() int {
	switch t {
	case Car:
		return 20
	case Motorcycle:
		return 15
	case MiniBus:
		return 25
	case Bus:
		return 30
	default:
		return 0
	}
}

func (t VehicleType) String() string {
	switch t {
	case Car:
		return "car"
	case Motorcycle:
		return "motorcycle"
	case MiniBus:
		return "minibus"
	case Bus:
		return "bus"
	default:
		return fmt.Sprintf("VehicleType(%d)", int(t))
	}
}

func (t VehicleType) Valid() bool {
	return t >= Car && t <= Bus
}

func ParseVehicleType(name string) (VehicleType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "car":
		return Car, nil
	case "motorcycle":
		return Motorcycle, nil
	case "minibus", "mini_bus", "mini-bus":
		return MiniBus, nil
	case "bus":
		return Bus, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVehicleType, name)
	}
}

func (t VehicleType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVehicleType, int(t))
	}
	return json.Marshal(t.String())
}

func (t *VehicleType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseVehicleType(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Vehicle is identified by its plate alone; two vehicles with the same plate
// are the same vehicle regardless of the other fields.
type Vehicle struct {
	Plate        string
	Type         VehicleType
	DiscountCard *string
	CheckInTime  time.Time
}

func NewVehicle(plate string, vehicleType VehicleType, discountCard *string, checkInTime time.Time) *Vehicle {
	return &Vehicle{
		Plate:        plate,
		Type:         vehicleType,
		DiscountCard: discountCard,
		CheckInTime:  checkInTime,
	}
}

func (v *Vehicle) HasDiscountCard() bool {
	return v.DiscountCard != nil
}

// ParkedMinutes returns the whole minutes elapsed between check-in and now,
// never negative.
func (v *Vehicle) ParkedMinutes(now time.Time) int {
	elapsed := now.Sub(v.CheckInTime)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / time.Minute)
}
