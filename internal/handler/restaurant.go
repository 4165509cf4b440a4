package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chukanavi/chukanavi/internal/auth"
	"github.com/chukanavi/chukanavi/internal/handler/dto"
	"github.com/chukanavi/chukanavi/internal/middleware"
	"github.com/chukanavi/chukanavi/internal/model"
	"github.com/chukanavi/chukanavi/internal/service"
	"github.com/chukanavi/chukanavi/internal/token"
)

// RestaurantHandler handles HTTP requests for restaurant operations.
type RestaurantHandler struct {
	svc    *service.RestaurantService
	logger *slog.Logger
}

// NewRestaurantHandler creates a new RestaurantHandler.
func NewRestaurantHandler(svc *service.RestaurantService, logger *slog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/restaurants.
func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.svc.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, restaurants)
}

// Get handles GET /api/restaurants/{id}.
func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Restaurant ID is required")
		return
	}

	restaurant, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, restaurant)
}

// Create handles POST /api/restaurants.
func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := token.UserIDFromContext(r.Context())
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req dto.CreateRestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg, ok := validateRestaurantFields(req.Name, req.Address); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	restaurant, err := h.svc.Create(r.Context(), service.CreateRestaurantInput{
		Name:                req.Name,
		Address:             req.Address,
		Phone:               req.Phone,
		BusinessHours:       req.BusinessHours,
		Holidays:            req.Holidays,
		PriceRange:          req.PriceRange,
		SeatingCapacity:     req.SeatingCapacity,
		Parking:             req.Parking,
		ReservationRequired: req.ReservationRequired,
		PaymentMethods:      req.PaymentMethods,
	}, ownerID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("restaurant_created",
		slog.String("restaurant_id", restaurant.ID),
		slog.String("owner_id", ownerID),
	)
	writeSuccess(w, http.StatusCreated, restaurant)
}

// Update handles PUT /api/restaurants/{id}.
func (h *RestaurantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Restaurant ID is required")
		return
	}

	var req dto.UpdateRestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil {
		if err := middleware.ValidateRestaurantName(*req.Name); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Address != nil {
		if err := middleware.ValidateAddress(*req.Address); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	restaurant, err := h.svc.Update(r.Context(), service.UpdateRestaurantInput{
		ID:                  id,
		Name:                req.Name,
		Address:             req.Address,
		Phone:               req.Phone,
		BusinessHours:       req.BusinessHours,
		Holidays:            req.Holidays,
		PriceRange:          req.PriceRange,
		SeatingCapacity:     req.SeatingCapacity,
		Parking:             req.Parking,
		ReservationRequired: req.ReservationRequired,
		PaymentMethods:      req.PaymentMethods,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("restaurant_updated", slog.String("restaurant_id", id))
	writeSuccess(w, http.StatusOK, restaurant)
}

// Delete handles DELETE /api/restaurants/{id}.
func (h *RestaurantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Restaurant ID is required")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("restaurant_deleted", slog.String("restaurant_id", id))
	writeMessage(w, http.StatusOK, "Restaurant deleted")
}

// Search handles GET /api/restaurants/search.
// Query parameters: query, price_range, parking, reservation_required.
func (h *RestaurantHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.SearchFilter{
		Query:      q.Get("query"),
		PriceRange: q.Get("price_range"),
	}

	var err error
	if filter.Parking, err = parseBoolParam(q.Get("parking")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid parking parameter")
		return
	}
	if filter.ReservationRequired, err = parseBoolParam(q.Get("reservation_required")); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid reservation_required parameter")
		return
	}

	restaurants, err := h.svc.Search(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, restaurants)
}

// parseBoolParam parses an optional boolean query parameter.
// An empty value means the filter is absent.
func parseBoolParam(raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// validateRestaurantFields checks required fields plus length limits.
func validateRestaurantFields(name, address string) (string, bool) {
	if err := middleware.ValidateRestaurantName(name); err != nil {
		return err.Error(), false
	}
	if err := middleware.ValidateAddress(address); err != nil {
		return err.Error(), false
	}
	return "", true
}

// handleServiceError maps restaurant service errors to HTTP responses.
func (h *RestaurantHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRestaurantNotFound):
		writeError(w, http.StatusNotFound, "Restaurant not found")
	case errors.Is(err, service.ErrNameRequired):
		writeError(w, http.StatusBadRequest, "Restaurant name is required")
	case errors.Is(err, service.ErrAddressRequired):
		writeError(w, http.StatusBadRequest, "Address is required")
	case errors.Is(err, auth.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, "You do not own this restaurant")
	default:
		h.logger.Error("restaurant request failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
