package parking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type testTelemetry struct {
	provider *TelemetryProvider
	reader   *sdkmetric.ManualReader
	spans    *tracetest.SpanRecorder
}

func newTestTelemetry(t *testing.T) *testTelemetry {
	t.Helper()

	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()

	provider := NewTelemetryProviderFrom(
		sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)),
		sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
	)
	t.Cleanup(func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Errorf("Failed to shutdown telemetry: %v", err)
		}
	})

	return &testTelemetry{provider: provider, reader: reader, spans: spans}
}

// sum adds up every data point of the named int64 counter or up/down counter.
func (tt *testTelemetry) sum(t *testing.T, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, tt.reader.Collect(context.Background(), &rm))

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			data, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is %T", name, m.Data)

			var total int64
			for _, dp := range data.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func (tt *testTelemetry) spanNames() []string {
	var names []string
	for _, s := range tt.spans.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func TestInstrumentedParkingLotIntegration(t *testing.T) {
	tel := newTestTelemetry(t)
	clock := newFakeClock()

	ipl, err := NewInstrumentedParkingLot(NewParkingLot(2, clock), tel.provider)
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, ipl.CheckIn(ctx, ipl.NewVehicle("AA111AA", Car, card("DISCOUNT_CARD_001"))))
	require.NoError(t, ipl.CheckIn(ctx, ipl.NewVehicle("DD444DD", Bus, nil)))
	assert.ErrorIs(t, ipl.CheckIn(ctx, ipl.NewVehicle("DD444DD", Bus, nil)), ErrDuplicatePlate)
	assert.ErrorIs(t, ipl.CheckIn(ctx, ipl.NewVehicle("UU986YH", MiniBus, nil)), ErrLotFull)

	assert.Equal(t, []string{"AA111AA", "DD444DD"}, ipl.ListParked(ctx))

	clock.Advance(2 * time.Hour)

	fee, err := ipl.CheckOut(ctx, "AA111AA")
	require.NoError(t, err)
	assert.Equal(t, 17, fee)

	_, err = ipl.CheckOut(ctx, "NOTFOUND")
	assert.ErrorIs(t, err, ErrVehicleNotFound)

	assert.Equal(t, Statistics{Checkouts: 1, Earnings: 17}, ipl.Statistics(ctx))

	assert.EqualValues(t, 4, tel.sum(t, "check_in_operations_total"))
	assert.EqualValues(t, 2, tel.sum(t, "check_out_operations_total"))
	assert.EqualValues(t, 1, tel.sum(t, "parking_lot_occupancy"))
	assert.EqualValues(t, 2, tel.sum(t, "parking_lot_total_slots"))
	assert.EqualValues(t, 17, tel.sum(t, "parking_earnings_total"))

	names := tel.spanNames()
	assert.Contains(t, names, "parking_lot.check_in")
	assert.Contains(t, names, "parking_lot.check_out")
	assert.Contains(t, names, "parking_lot.list_parked")
	assert.Contains(t, names, "parking_lot.statistics")
}

func TestInstrumentedParkingLotRecordsRejections(t *testing.T) {
	tel := newTestTelemetry(t)

	ipl, err := NewInstrumentedParkingLot(NewParkingLot(1, newFakeClock()), tel.provider)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, ipl.CheckIn(ctx, ipl.NewVehicle("AA111AA", Car, nil)))
	require.Error(t, ipl.CheckIn(ctx, ipl.NewVehicle("AA111AA", Car, nil)))

	ended := tel.spans.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.NotEmpty(t, ended[1].Events())
}

func TestInstrumentedParkingLotCountsExistingOccupancy(t *testing.T) {
	tel := newTestTelemetry(t)

	lot := NewParkingLot(5, newFakeClock())
	lot.CheckIn(lot.NewVehicle("AA111AA", Car, nil))
	lot.CheckIn(lot.NewVehicle("B222BBB", Motorcycle, nil))

	_, err := NewInstrumentedParkingLot(lot, tel.provider)
	require.NoError(t, err)

	assert.EqualValues(t, 2, tel.sum(t, "parking_lot_occupancy"))
	assert.EqualValues(t, 5, tel.sum(t, "parking_lot_total_slots"))
}
