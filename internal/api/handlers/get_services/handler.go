package get_services

import (
	"net/http"

	"github.com/smartbooking-ai/smartbooking/internal/api/handlers"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services — публичная витрина, только активные услуги
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, true, "GET /services")
}

// HandleAll GET /api/v1/admin/services — каталог целиком для дашборда
func (h *Handler) HandleAll(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, false, "GET /admin/services")
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, onlyActive bool, route string) {
	result, err := h.service.List(r.Context(), onlyActive)
	if err != nil {
		h.logger.Error("%s - Failed to list services: %v", route, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
