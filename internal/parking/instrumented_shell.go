package parking

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type InstrumentedShell struct {
	parkingLot *InstrumentedParkingLot
	scanner    *bufio.Scanner
	out        *Output
	telemetry  *TelemetryProvider
}

func NewInstrumentedShell(lot *InstrumentedParkingLot, telemetry *TelemetryProvider, in io.Reader, out io.Writer) *InstrumentedShell {
	return &InstrumentedShell{
		parkingLot: lot,
		scanner:    bufio.NewScanner(in),
		out:        NewOutput(out),
		telemetry:  telemetry,
	}
}

// Run processes commands until the input is exhausted or ctx is cancelled.
// Cancellation is observed between lines only.
func (s *InstrumentedShell) Run(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.run")
	defer span.End()

	span.AddEvent("shell_started")

	for ctx.Err() == nil {
		if !s.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(s.scanner.Text())
		if input == "" {
			continue
		}

		// Create a new span for each command
		cmdCtx, cmdSpan := tracer.Start(ctx, "shell.process_command",
			trace.WithAttributes(attribute.String("command.input", input)))

		s.processCommand(cmdCtx, input)
		cmdSpan.End()
	}

	span.AddEvent("shell_ended")
}

func (s *InstrumentedShell) processCommand(ctx context.Context, input string) {
	span := trace.SpanFromContext(ctx)

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	command := parts[0]
	span.SetAttributes(attribute.String("command.name", command))

	if s.parkingLot == nil {
		span.AddEvent("parking_lot_not_available")
		s.out.Println(msgLotNotAvailable)
		return
	}

	switch command {
	case "check_in":
		s.handleCheckIn(ctx, parts)
	case "check_out":
		s.handleCheckOut(ctx, parts)
	case "list":
		s.handleList(ctx)
	case "stats":
		s.handleStats(ctx)
	case "status":
		s.handleStatus(ctx)
	case "help":
		s.printHelp()
	default:
		span.AddEvent("unknown_command", trace.WithAttributes(
			attribute.String("unknown_command", command),
		))
		s.out.Printf("Unknown command: %s\n", command)
	}
}

func (s *InstrumentedShell) handleCheckIn(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.check_in_command")
	defer span.End()

	if len(parts) != 3 && len(parts) != 4 {
		span.AddEvent("invalid_arguments")
		s.out.Println("Usage: check_in <plate> <car|motorcycle|minibus|bus> [discount_card]")
		return
	}

	plate := parts[1]
	vehicleType, err := ParseVehicleType(parts[2])
	if err != nil {
		span.RecordError(err)
		span.AddEvent("invalid_vehicle_type")
		s.out.Printf("Invalid vehicle type: %s\n", parts[2])
		return
	}

	var discountCard *string
	if len(parts) == 4 {
		card := parts[3]
		discountCard = &card
	}

	span.SetAttributes(
		attribute.String("vehicle.plate", plate),
		attribute.String("vehicle.type", vehicleType.String()),
	)

	vehicle := s.parkingLot.NewVehicle(plate, vehicleType, discountCard)
	err = s.parkingLot.CheckIn(ctx, vehicle)
	if err != nil {
		span.AddEvent("check_in_failed", trace.WithAttributes(
			attribute.String("reason", rejectionStatus(err)),
		))
	} else {
		span.AddEvent("check_in_successful")
	}
	s.out.CheckIn(err)
}

func (s *InstrumentedShell) handleCheckOut(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.check_out_command")
	defer span.End()

	if len(parts) != 2 {
		span.AddEvent("invalid_arguments")
		s.out.Println("Usage: check_out <plate>")
		return
	}

	plate := parts[1]
	span.SetAttributes(attribute.String("vehicle.plate", plate))

	fee, err := s.parkingLot.CheckOut(ctx, plate)
	if err != nil {
		span.AddEvent("check_out_failed")
	} else {
		span.AddEvent("check_out_successful", trace.WithAttributes(
			attribute.Int("fee", fee),
		))
	}
	s.out.CheckOut(fee, err)
}

func (s *InstrumentedShell) handleList(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.list_command")
	defer span.End()

	plates := s.parkingLot.ListParked(ctx)
	if len(plates) == 0 {
		span.AddEvent("parking_lot_empty")
		s.out.Println("Parking lot is empty")
		return
	}

	span.SetAttributes(attribute.Int("parked_count", len(plates)))
	s.out.Plates(plates)
}

func (s *InstrumentedShell) handleStats(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.stats_command")
	defer span.End()

	s.out.Statistics(s.parkingLot.Statistics(ctx))
}

func (s *InstrumentedShell) handleStatus(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	_, span := tracer.Start(ctx, "shell.status_command")
	defer span.End()

	capacity := s.parkingLot.Capacity()
	occupied := s.parkingLot.Occupancy()
	span.SetAttributes(
		attribute.Int("parking_lot.capacity", capacity),
		attribute.Int("parking_lot.occupied", occupied),
	)
	s.out.Status(capacity, occupied)
}

func (s *InstrumentedShell) printHelp() {
	s.out.Println("Commands:")
	for _, line := range []string{
		"check_in <plate> <car|motorcycle|minibus|bus> [discount_card]",
		"check_out <plate>",
		"list",
		"stats",
		"status",
	} {
		s.out.Println(" ", line)
	}
}

// Err reports a read failure on the shell input, if any.
func (s *InstrumentedShell) Err() error {
	if err := s.scanner.Err(); err != nil {
		return fmt.Errorf("reading shell input: %w", err)
	}
	return nil
}
