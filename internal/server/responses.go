package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"alke-parking/internal/logging"
	"alke-parking/internal/parking"
)

type Meta struct {
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type CheckInRequest struct {
	Plate        string              `json:"plate"`
	VehicleType  parking.VehicleType `json:"vehicle_type"`
	DiscountCard *string             `json:"discount_card,omitempty"`
}

type CheckOutRequest struct {
	Plate string `json:"plate"`
}

type CheckOutResponse struct {
	Plate string `json:"plate"`
	Fee   int    `json:"fee"`
}

type VehicleResponse struct {
	Plate         string              `json:"plate"`
	VehicleType   parking.VehicleType `json:"vehicle_type"`
	DiscountCard  *string             `json:"discount_card,omitempty"`
	CheckInTime   time.Time           `json:"check_in_time"`
	ParkedMinutes int                 `json:"parked_minutes"`
}

type VehiclesResponse struct {
	Count    int               `json:"count"`
	Vehicles []VehicleResponse `json:"vehicles"`
}

type StatisticsResponse struct {
	Checkouts int `json:"checkouts"`
	Earnings  int `json:"earnings"`
	Capacity  int `json:"capacity"`
	Occupied  int `json:"occupied"`
	Available int `json:"available"`
}

func newVehicleResponse(v parking.Vehicle, now time.Time) VehicleResponse {
	return VehicleResponse{
		Plate:         v.Plate,
		VehicleType:   v.Type,
		DiscountCard:  v.DiscountCard,
		CheckInTime:   v.CheckInTime,
		ParkedMinutes: v.ParkedMinutes(now),
	}
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Logger().Error().Err(err).Msg("failed to encode response")
	}
}

func extractMeta(ctx context.Context) *Meta {
	meta := &Meta{}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		meta.TraceID = span.SpanContext().TraceID().String()
	}

	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		meta.RequestID = reqID
	}

	return meta
}

func WriteSuccess(ctx context.Context, w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    extractMeta(ctx),
	})
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{
		Success: false,
		Error:   message,
		Meta:    extractMeta(ctx),
	})
}
