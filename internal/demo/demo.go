// Package demo replays the AlkeParking sample day against a lot, including
// the duplicate-plate and full-lot rejections.
package demo

import (
	"context"
	"io"

	"alke-parking/internal/logging"
	"alke-parking/internal/parking"
)

type sample struct {
	plate        string
	vehicleType  parking.VehicleType
	discountCard string
}

var seed = []sample{
	{"AA111AA", parking.Car, "DISCOUNT_CARD_001"},
	{"B222BBB", parking.Motorcycle, ""},
	{"DD444DD", parking.Bus, "DISCOUNT_CARD_002"},
	{"CC333CC", parking.MiniBus, ""},
	{"DD55DD", parking.Bus, "DISCOUNT_CARD_002"},
	{"AA111BB", parking.Car, "DISCOUNT_CARD_003"},
	{"B222CCC", parking.Motorcycle, "DISCOUNT_CARD_004"},
	{"CC333DD", parking.MiniBus, ""},
	{"DD444EE", parking.Bus, "DISCOUNT_CARD_005"},
	{"AA111CC", parking.Car, ""},
	{"B222DDD", parking.Motorcycle, ""},
	{"CC333EE", parking.MiniBus, ""},
	{"DD444GG", parking.Bus, "DISCOUNT_CARD_006"},
	{"AA111DD", parking.Car, "DISCOUNT_CARD_007"},
	{"B222EEE", parking.Motorcycle, ""},
	{"CC333FF", parking.MiniBus, ""},
	{"AA444HH", parking.Bus, "DISCOUNT_CARD_008"},
	{"AA888PP", parking.Car, "DISCOUNT_CARD_009"},
	{"B555QQQ", parking.Motorcycle, ""},
}

var (
	repeated  = sample{"AA111CC", parking.Car, ""}
	twentieth = sample{"BB712PP", parking.Motorcycle, ""}
	overflow  = sample{"UU986YH", parking.MiniBus, ""}

	checkOuts = []string{"DD55DD", "AA444HH"}
)

const separator = "****"

// Run writes the scenario narration to w.
func Run(ctx context.Context, lot *parking.InstrumentedParkingLot, w io.Writer) {
	out := parking.NewOutput(w)

	out.Println(separator)
	out.Printf("Checking in %d vehicles:\n", len(seed))
	for _, s := range seed {
		checkIn(ctx, lot, out, s)
	}
	out.Println(separator)

	out.Println(separator)
	out.Println("Repeated plate:")
	checkIn(ctx, lot, out, repeated)
	out.Println(separator)

	out.Println(separator)
	out.Println("Checking in vehicle number 20:")
	checkIn(ctx, lot, out, twentieth)
	out.Println(separator)

	out.Println(separator)
	out.Println("Checking in with the lot full:")
	checkIn(ctx, lot, out, overflow)
	out.Println(separator)

	out.Println(separator)
	out.Printf("Checking out %d parked vehicles:\n", len(checkOuts))
	for _, plate := range checkOuts {
		fee, err := lot.CheckOut(ctx, plate)
		if err != nil {
			logging.Warn(ctx).Err(err).Str("plate", plate).Msg("demo check-out failed")
		}
		out.CheckOut(fee, err)
		out.Statistics(lot.Statistics(ctx))
	}
	out.Println(separator)

	out.Plates(lot.ListParked(ctx))
}

func checkIn(ctx context.Context, lot *parking.InstrumentedParkingLot, out *parking.Output, s sample) {
	var card *string
	if s.discountCard != "" {
		c := s.discountCard
		card = &c
	}

	err := lot.CheckIn(ctx, lot.NewVehicle(s.plate, s.vehicleType, card))
	if err != nil {
		logging.Debug(ctx).Err(err).Str("plate", s.plate).Msg("demo check-in rejected")
	}
	out.CheckIn(err)
}
