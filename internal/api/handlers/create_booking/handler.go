package create_booking

import (
	"errors"
	"net/http"

	"github.com/smartbooking-ai/smartbooking/internal/api/handlers"
	createBooking "github.com/smartbooking-ai/smartbooking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgSlotTaken          = "выбранный временной слот уже занят"
	msgServiceNotFound    = "услуга не найдена"
	msgBusinessClosed     = "бизнес закрыт в выбранное время"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgTooSoon            = "слишком поздно для записи на этот слот"
	msgPhoneRequired      = "необходимо указать номер телефона"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings — публичная форма записи
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, createBooking.OriginPublic, "POST /bookings")
}

// HandleManual POST /api/v1/admin/bookings — ручное бронирование из дашборда
func (h *Handler) HandleManual(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, createBooking.OriginDashboard, "POST /admin/bookings")
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, origin createBooking.Origin, route string) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(origin)
	if err != nil {
		h.logger.Warn("%s - Failed to parse request: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("%s - Slot taken: service_id=%d, date=%s, time=%s", route, req.ServiceID, req.Date, req.Time)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("%s - Service not found: service_id=%d", route, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrBusinessClosed):
			h.logger.Warn("%s - Business closed: date=%s, time=%s", route, req.Date, req.Time)
			handlers.RespondBadRequest(w, msgBusinessClosed)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("%s - Invalid booking date: date=%s", route, req.Date)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("%s - Date too far in future: date=%s", route, req.Date)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrTooSoon):
			h.logger.Warn("%s - Too soon: date=%s, time=%s", route, req.Date, req.Time)
			handlers.RespondBadRequest(w, msgTooSoon)

		case errors.Is(err, createBooking.ErrPhoneRequired):
			h.logger.Warn("%s - Phone required", route)
			handlers.RespondBadRequest(w, msgPhoneRequired)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("%s - Invalid input: %v", route, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("%s - Failed to create booking: service_id=%d, error=%v", route, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("%s - Booking created: booking_id=%d, status=%s", route, result.ID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
