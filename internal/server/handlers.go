package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"alke-parking/internal/logging"
	"alke-parking/internal/parking"
)

type Handler struct {
	parkingLot  *parking.InstrumentedParkingLot
	serviceName string
}

func NewHandler(lot *parking.InstrumentedParkingLot, serviceName string) *Handler {
	return &Handler{
		parkingLot:  lot,
		serviceName: serviceName,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.serviceName,
		Meta:    extractMeta(r.Context()),
	})
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, parking.ErrUnknownVehicleType) {
			WriteError(ctx, w, http.StatusBadRequest, err.Error())
			return
		}
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Plate = strings.TrimSpace(req.Plate)
	if req.Plate == "" {
		WriteError(ctx, w, http.StatusBadRequest, parking.ErrInvalidPlate.Error())
		return
	}
	if !req.VehicleType.Valid() {
		WriteError(ctx, w, http.StatusBadRequest, "vehicle_type is required")
		return
	}

	vehicle := h.parkingLot.NewVehicle(req.Plate, req.VehicleType, req.DiscountCard)
	if err := h.parkingLot.CheckIn(ctx, vehicle); err != nil {
		logging.Info(ctx).Err(err).Str("plate", req.Plate).Msg("check-in rejected")
		WriteError(ctx, w, http.StatusConflict, err.Error())
		return
	}

	WriteSuccess(ctx, w, "Welcome to AlkeParking!", newVehicleResponse(*vehicle, h.parkingLot.Now()))
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Plate == "" {
		WriteError(ctx, w, http.StatusBadRequest, parking.ErrInvalidPlate.Error())
		return
	}

	fee, err := h.parkingLot.CheckOut(ctx, req.Plate)
	if err != nil {
		if errors.Is(err, parking.ErrVehicleNotFound) {
			WriteError(ctx, w, http.StatusNotFound, "Vehicle not found")
			return
		}
		logging.Error(ctx).Err(err).Str("plate", req.Plate).Msg("check-out failed")
		WriteError(ctx, w, http.StatusInternalServerError, "Check-out failed")
		return
	}

	WriteSuccess(ctx, w, "Come back soon", CheckOutResponse{
		Plate: req.Plate,
		Fee:   fee,
	})
}

func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	vehicles := h.parkingLot.Vehicles()
	now := h.parkingLot.Now()

	resp := VehiclesResponse{
		Count:    len(vehicles),
		Vehicles: make([]VehicleResponse, 0, len(vehicles)),
	}
	for _, v := range vehicles {
		resp.Vehicles = append(resp.Vehicles, newVehicleResponse(v, now))
	}

	WriteSuccess(ctx, w, "Vehicles retrieved successfully", resp)
}

func (h *Handler) ListPlates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	WriteSuccess(ctx, w, "Plates retrieved successfully", h.parkingLot.ListParked(ctx))
}

func (h *Handler) FindVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plate := chi.URLParam(r, "plate")
	if plate == "" {
		WriteError(ctx, w, http.StatusBadRequest, parking.ErrInvalidPlate.Error())
		return
	}

	vehicle, err := h.parkingLot.Lookup(plate)
	if err != nil {
		WriteError(ctx, w, http.StatusNotFound, "Vehicle not found")
		return
	}

	WriteSuccess(ctx, w, "Vehicle found", newVehicleResponse(vehicle, h.parkingLot.Now()))
}

func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats := h.parkingLot.Statistics(ctx)
	capacity := h.parkingLot.Capacity()
	occupied := h.parkingLot.Occupancy()

	WriteSuccess(ctx, w, "Statistics retrieved successfully", StatisticsResponse{
		Checkouts: stats.Checkouts,
		Earnings:  stats.Earnings,
		Capacity:  capacity,
		Occupied:  occupied,
		Available: capacity - occupied,
	})
}
