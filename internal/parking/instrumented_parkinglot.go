package parking

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type InstrumentedParkingLot struct {
	*ParkingLot
	telemetry *TelemetryProvider

	// Metrics
	checkInOperations  metric.Int64Counter
	checkOutOperations metric.Int64Counter
	occupancyGauge     metric.Int64UpDownCounter
	totalSlotsGauge    metric.Int64UpDownCounter
	earningsCounter    metric.Int64Counter
	feeHistogram       metric.Int64Histogram
	operationDuration  metric.Float64Histogram
}

func NewInstrumentedParkingLot(lot *ParkingLot, telemetry *TelemetryProvider) (*InstrumentedParkingLot, error) {
	meter := telemetry.Meter()

	checkInOperations, err := meter.Int64Counter("check_in_operations_total",
		metric.WithDescription("Total number of check-in attempts"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	checkOutOperations, err := meter.Int64Counter("check_out_operations_total",
		metric.WithDescription("Total number of check-out attempts"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	occupancyGauge, err := meter.Int64UpDownCounter("parking_lot_occupancy",
		metric.WithDescription("Current number of parked vehicles"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	totalSlotsGauge, err := meter.Int64UpDownCounter("parking_lot_total_slots",
		metric.WithDescription("Capacity of the parking lot"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	earningsCounter, err := meter.Int64Counter("parking_earnings_total",
		metric.WithDescription("Fees collected at check-out"),
		metric.WithUnit("{dollar}"))
	if err != nil {
		return nil, err
	}

	feeHistogram, err := meter.Int64Histogram("parking_fee_amount",
		metric.WithDescription("Fee billed per check-out"),
		metric.WithUnit("{dollar}"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("operation_duration_seconds",
		metric.WithDescription("Duration of parking lot operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	ipl := &InstrumentedParkingLot{
		ParkingLot:         lot,
		telemetry:          telemetry,
		checkInOperations:  checkInOperations,
		checkOutOperations: checkOutOperations,
		occupancyGauge:     occupancyGauge,
		totalSlotsGauge:    totalSlotsGauge,
		earningsCounter:    earningsCounter,
		feeHistogram:       feeHistogram,
		operationDuration:  operationDuration,
	}

	ctx := context.Background()
	totalSlotsGauge.Add(ctx, int64(lot.Capacity()))
	if occupied := lot.Occupancy(); occupied > 0 {
		occupancyGauge.Add(ctx, int64(occupied))
	}

	return ipl, nil
}

func (ipl *InstrumentedParkingLot) CheckIn(ctx context.Context, vehicle *Vehicle) error {
	tracer := ipl.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.check_in",
		trace.WithAttributes(
			attribute.String("vehicle.plate", vehicle.Plate),
			attribute.String("vehicle.type", vehicle.Type.String()),
			attribute.Bool("vehicle.discount_card", vehicle.HasDiscountCard()),
		))
	defer span.End()

	start := time.Now()

	err := ipl.ParkingLot.CheckIn(vehicle)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "check_in"),
		attribute.String("vehicle_type", vehicle.Type.String()),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", rejectionStatus(err)))
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.AddEvent("vehicle_admitted")
		ipl.occupancyGauge.Add(ctx, 1)
	}

	ipl.checkInOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	ipl.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return err
}

func (ipl *InstrumentedParkingLot) CheckOut(ctx context.Context, plate string) (int, error) {
	tracer := ipl.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.check_out",
		trace.WithAttributes(
			attribute.String("vehicle.plate", plate),
		))
	defer span.End()

	start := time.Now()

	// Looked up before release so the metrics can carry the vehicle type.
	vehicle, lookupErr := ipl.ParkingLot.Lookup(plate)

	fee, err := ipl.ParkingLot.CheckOut(plate)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "check_out"),
	}
	if lookupErr == nil {
		labels = append(labels, attribute.String("vehicle_type", vehicle.Type.String()))
		span.SetAttributes(attribute.String("vehicle.type", vehicle.Type.String()))
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", "not_found"))
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.SetAttributes(attribute.Int("parking.fee", fee))
		span.AddEvent("vehicle_released", trace.WithAttributes(
			attribute.Int("fee", fee),
		))

		ipl.occupancyGauge.Add(ctx, -1)
		ipl.earningsCounter.Add(ctx, int64(fee))
		ipl.feeHistogram.Record(ctx, int64(fee), metric.WithAttributes(labels...))
	}

	ipl.checkOutOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	ipl.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return fee, err
}

func (ipl *InstrumentedParkingLot) ListParked(ctx context.Context) []string {
	tracer := ipl.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.list_parked")
	defer span.End()

	start := time.Now()

	plates := ipl.ParkingLot.ListParked()

	span.SetAttributes(
		attribute.Int("parked_count", len(plates)),
		attribute.Int("total_capacity", ipl.Capacity()),
	)

	ipl.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", "list_parked"),
		attribute.String("status", "success"),
	))

	return plates
}

func (ipl *InstrumentedParkingLot) Statistics(ctx context.Context) Statistics {
	tracer := ipl.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.statistics")
	defer span.End()

	start := time.Now()

	stats := ipl.ParkingLot.Statistics()

	span.SetAttributes(
		attribute.Int("statistics.checkouts", stats.Checkouts),
		attribute.Int("statistics.earnings", stats.Earnings),
	)

	ipl.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", "statistics"),
		attribute.String("status", "success"),
	))

	return stats
}

func rejectionStatus(err error) string {
	switch {
	case errors.Is(err, ErrDuplicatePlate):
		return "duplicate_plate"
	case errors.Is(err, ErrLotFull):
		return "lot_full"
	default:
		return "failed"
	}
}
