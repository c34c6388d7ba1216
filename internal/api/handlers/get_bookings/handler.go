package get_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/smartbooking-ai/smartbooking/internal/api/handlers"
	"github.com/smartbooking-ai/smartbooking/internal/service/bookings"
	"github.com/smartbooking-ai/smartbooking/internal/service/bookings/models"
)

const (
	msgInvalidFilter = "некорректные параметры фильтрации"
	msgInvalidLimit  = "некорректный лимит"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings?date=2025-10-15&status=pending&includeCanceled=true&limit=50
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &models.ListBookingsRequest{
		IncludeCanceled: query.Get("includeCanceled") == "true",
	}

	if date := query.Get("date"); date != "" {
		req.Date = &date
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if rawLimit := query.Get("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit < 0 {
			h.logger.Warn("GET /bookings - Invalid limit: %s", rawLimit)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		req.Limit = limit
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /bookings - Failed to list bookings: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
