package parking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateFee(t *testing.T) {
	tests := []struct {
		name        string
		vehicleType VehicleType
		minutes     int
		discount    bool
		want        int
	}{
		{"car two hours", Car, 120, false, 20},
		{"car two hours with discount", Car, 120, true, 17},
		{"bus long stay", Bus, 500, false, 30},
		{"bus long stay with discount", Bus, 500, true, 25},
		{"minibus with discount", MiniBus, 240, true, 21},
		{"motorcycle with discount", Motorcycle, 121, true, 12},
		// 105 minutes is one block below the flat rate: 20 - 5.
		{"car one block short", Car, 105, false, 15},
		// 106..119 minutes still round up to the flat rate.
		{"car partial block", Car, 119, false, 20},
		{"car one minute into block", Car, 106, false, 20},
		// 0 minutes: ceil(-120/15) = -8 blocks of 15/4 = 3.
		{"motorcycle zero minutes", Motorcycle, 0, false, -9},
		{"motorcycle one minute", Motorcycle, 1, false, -6},
		{"bus zero minutes with discount", Bus, 0, true, -23},
		{"minibus one hour", MiniBus, 60, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateFee(tt.vehicleType, tt.minutes, tt.discount))
		})
	}
}

func TestCalculateFeeFlatBeyondTwoHours(t *testing.T) {
	for _, vt := range []VehicleType{Car, Motorcycle, MiniBus, Bus} {
		for _, discount := range []bool{false, true} {
			assert.Equal(t,
				CalculateFee(vt, 120, discount),
				CalculateFee(vt, 500, discount),
				"%s discount=%v", vt, discount)
		}
	}
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, 17, floorDiv(1700, 100))
	assert.Equal(t, 12, floorDiv(1275, 100))
	assert.Equal(t, -8, floorDiv(-765, 100))
	assert.Equal(t, -7, floorDiv(-700, 100))
}
