package parking

const (
	flatRateMinutes = 120
	feeBlockMinutes = 15

	discountPercent = 85
)

// CalculateFee bills a stay of parkedMinutes. Stays of two hours or more pay
// the base rate. Shorter stays are reduced by a quarter of the base rate for
// every started 15-minute block below the two-hour mark, which can go below
// zero for very short stays. A discount card pays 85% rounded down.
func CalculateFee(vehicleType VehicleType, parkedMinutes int, hasDiscount bool) int {
	rate := vehicleType.Rate()

	total := rate
	if parkedMinutes < flatRateMinutes {
		// Negative dividend: Go's truncating division is the ceiling here.
		feeBlocks := (parkedMinutes - flatRateMinutes) / feeBlockMinutes
		total = rate + feeBlocks*(rate/4)
	}

	if hasDiscount {
		return floorDiv(total*discountPercent, 100)
	}
	return total
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
