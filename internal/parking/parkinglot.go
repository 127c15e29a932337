package parking

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

const DefaultCapacity = 20

var (
	ErrAdmissionRejected = errors.New("check-in rejected")
	ErrDuplicatePlate    = fmt.Errorf("%w: plate already parked", ErrAdmissionRejected)
	ErrLotFull           = fmt.Errorf("%w: parking lot is full", ErrAdmissionRejected)
	ErrVehicleNotFound   = errors.New("vehicle not found")
	ErrInvalidPlate      = errors.New("plate must not be empty")
)

type Statistics struct {
	Checkouts int `json:"checkouts"`
	Earnings  int `json:"earnings"`
}

// ParkingLot holds the parked vehicles keyed by plate. A single mutex covers
// both the vehicle set and the statistics so check-in and check-out are
// atomic as a whole.
type ParkingLot struct {
	mu       sync.Mutex
	capacity int
	clock    Clock
	vehicles map[string]*Vehicle
	stats    Statistics
}

func NewParkingLot(capacity int, clock Clock) *ParkingLot {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if clock == nil {
		clock = SystemClock{}
	}

	return &ParkingLot{
		capacity: capacity,
		clock:    clock,
		vehicles: make(map[string]*Vehicle, capacity),
	}
}

// NewVehicle builds a vehicle checked in at the lot's current time.
func (pl *ParkingLot) NewVehicle(plate string, vehicleType VehicleType, discountCard *string) *Vehicle {
	return NewVehicle(plate, vehicleType, discountCard, pl.clock.Now())
}

func (pl *ParkingLot) CheckIn(vehicle *Vehicle) error {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	if _, exists := pl.vehicles[vehicle.Plate]; exists {
		return ErrDuplicatePlate
	}
	if len(pl.vehicles) >= pl.capacity {
		return ErrLotFull
	}

	pl.vehicles[vehicle.Plate] = vehicle
	return nil
}

// CheckOut releases the vehicle and returns the fee it was billed. Fees the
// formula puts below zero are billed as zero.
func (pl *ParkingLot) CheckOut(plate string) (int, error) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	vehicle, ok := pl.vehicles[plate]
	if !ok {
		return 0, ErrVehicleNotFound
	}

	fee := CalculateFee(vehicle.Type, vehicle.ParkedMinutes(pl.clock.Now()), vehicle.HasDiscountCard())
	if fee < 0 {
		fee = 0
	}

	delete(pl.vehicles, plate)
	pl.stats.Earnings += fee
	pl.stats.Checkouts++

	return fee, nil
}

func (pl *ParkingLot) Statistics() Statistics {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	return pl.stats
}

func (pl *ParkingLot) ListParked() []string {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	plates := make([]string, 0, len(pl.vehicles))
	for plate := range pl.vehicles {
		plates = append(plates, plate)
	}
	sort.Strings(plates)

	return plates
}

// Vehicles returns copies of the parked vehicles ordered by plate.
func (pl *ParkingLot) Vehicles() []Vehicle {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	vehicles := make([]Vehicle, 0, len(pl.vehicles))
	for _, v := range pl.vehicles {
		vehicles = append(vehicles, *v)
	}
	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].Plate < vehicles[j].Plate
	})

	return vehicles
}

func (pl *ParkingLot) Lookup(plate string) (Vehicle, error) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	v, ok := pl.vehicles[plate]
	if !ok {
		return Vehicle{}, ErrVehicleNotFound
	}
	return *v, nil
}

func (pl *ParkingLot) Capacity() int {
	return pl.capacity
}

func (pl *ParkingLot) Occupancy() int {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	return len(pl.vehicles)
}

func (pl *ParkingLot) Available() int {
	return pl.capacity - pl.Occupancy()
}

func (pl *ParkingLot) Now() time.Time {
	return pl.clock.Now()
}
