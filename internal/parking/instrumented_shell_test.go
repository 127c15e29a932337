package parking

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type advancingReader struct {
	lines []string
	clock *fakeClock
	step  time.Duration
	buf   bytes.Buffer
}

// Read hands out one line per call and moves the clock forward after each.
func (r *advancingReader) Read(p []byte) (int, error) {
	if r.buf.Len() == 0 {
		if len(r.lines) == 0 {
			return 0, io.EOF
		}
		r.buf.WriteString(r.lines[0] + "\n")
		r.lines = r.lines[1:]
		r.clock.Advance(r.step)
	}
	return r.buf.Read(p)
}

func runShell(t *testing.T, lot *ParkingLot, input string) string {
	t.Helper()

	tel := newTestTelemetry(t)
	ipl, err := NewInstrumentedParkingLot(lot, tel.provider)
	require.NoError(t, err)

	var out bytes.Buffer
	shell := NewInstrumentedShell(ipl, tel.provider, strings.NewReader(input), &out)
	shell.Run(context.Background())
	require.NoError(t, shell.Err())

	return out.String()
}

func TestShellCheckInAndOut(t *testing.T) {
	clock := newFakeClock()
	lot := NewParkingLot(2, clock)

	tel := newTestTelemetry(t)
	ipl, err := NewInstrumentedParkingLot(lot, tel.provider)
	require.NoError(t, err)

	in := &advancingReader{
		clock: clock,
		step:  time.Hour,
		lines: []string{
			"check_in AA111AA car DISCOUNT_CARD_001",
			"check_in B222BBB motorcycle",
			"check_in AA111AA car",
			"check_in CC333CC minibus",
			"list",
			"check_out AA111AA",
			"check_out AA111AA",
			"stats",
		},
	}

	var out bytes.Buffer
	NewInstrumentedShell(ipl, tel.provider, in, &out).Run(context.Background())

	assert.Equal(t, strings.Join([]string{
		"Welcome to AlkeParking!",
		"Welcome to AlkeParking!",
		"Sorry, the check-in failed",
		"Sorry, the check-in failed",
		"Vehicle plate is AA111AA",
		"Vehicle plate is B222BBB",
		// AA111AA has been parked for five hours by now.
		"Your fee is $17. Come back soon",
		"Sorry, the check-out failed",
		"1 vehicles have checked out and have earnings of $17",
	}, "\n")+"\n", out.String())
}

func TestShellUsageAndErrors(t *testing.T) {
	out := runShell(t, NewParkingLot(2, newFakeClock()), strings.Join([]string{
		"check_in",
		"check_in AA111AA truck",
		"check_out",
		"fly",
		"",
		"list",
		"status",
	}, "\n"))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "Usage: check_in"))
	assert.Equal(t, "Invalid vehicle type: truck", lines[1])
	assert.Equal(t, "Usage: check_out <plate>", lines[2])
	assert.Equal(t, "Unknown command: fly", lines[3])
	assert.Equal(t, "Parking lot is empty", lines[4])
	assert.Equal(t, "Capacity: 2\tOccupied: 0\tAvailable: 2", lines[5])
}

func TestShellHelp(t *testing.T) {
	out := runShell(t, NewParkingLot(2, newFakeClock()), "help\n")

	assert.Contains(t, out, "Commands:")
	assert.Contains(t, out, "check_out <plate>")
}

func TestShellWithoutLot(t *testing.T) {
	tel := newTestTelemetry(t)

	var out bytes.Buffer
	NewInstrumentedShell(nil, tel.provider, strings.NewReader("list\n"), &out).Run(context.Background())

	assert.Equal(t, "Parking lot not available\n", out.String())
}

func TestShellStopsOnCancelledContext(t *testing.T) {
	tel := newTestTelemetry(t)
	ipl, err := NewInstrumentedParkingLot(NewParkingLot(2, newFakeClock()), tel.provider)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	NewInstrumentedShell(ipl, tel.provider, strings.NewReader("check_in AA111AA car\n"), &out).Run(ctx)

	assert.Empty(t, out.String())
	assert.Empty(t, ipl.ListParked(context.Background()))
}
