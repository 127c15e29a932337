package parking

import (
	"fmt"
	"io"
)

const (
	msgCheckInSuccess  = "Welcome to AlkeParking!"
	msgCheckInFailed   = "Sorry, the check-in failed"
	msgCheckOutFailed  = "Sorry, the check-out failed"
	msgLotNotAvailable = "Parking lot not available"
)

// Output renders lot outcomes as the customer-facing messages shared by the
// shell and the demo driver.
type Output struct {
	w io.Writer
}

func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

func (o *Output) CheckIn(err error) {
	if err != nil {
		fmt.Fprintln(o.w, msgCheckInFailed)
		return
	}
	fmt.Fprintln(o.w, msgCheckInSuccess)
}

func (o *Output) CheckOut(fee int, err error) {
	if err != nil {
		fmt.Fprintln(o.w, msgCheckOutFailed)
		return
	}
	fmt.Fprintf(o.w, "Your fee is $%d. Come back soon\n", fee)
}

func (o *Output) Statistics(stats Statistics) {
	fmt.Fprintf(o.w, "%d vehicles have checked out and have earnings of $%d\n", stats.Checkouts, stats.Earnings)
}

func (o *Output) Plates(plates []string) {
	for _, plate := range plates {
		fmt.Fprintf(o.w, "Vehicle plate is %s\n", plate)
	}
}

func (o *Output) Status(capacity, occupied int) {
	fmt.Fprintf(o.w, "Capacity: %d\tOccupied: %d\tAvailable: %d\n", capacity, occupied, capacity-occupied)
}

func (o *Output) Println(a ...any) {
	fmt.Fprintln(o.w, a...)
}

func (o *Output) Printf(format string, a ...any) {
	fmt.Fprintf(o.w, format, a...)
}
