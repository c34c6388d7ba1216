package get_available_slots

import (
	"github.com/smartbooking-ai/smartbooking/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID       int64  // ID услуги
	Date            string // Локальный день бизнеса в формате "YYYY-MM-DD"
	DurationMinutes int    // Переопределение длительности; 0 — длительность услуги
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            string        // День, на который запрашивались слоты
	ServiceID       int64         // ID услуги
	ServiceName     string        // Название услуги
	DurationMinutes int           // Длительность услуги в минутах
	Slots           []domain.Slot // Доступные слоты по возрастанию времени начала
}
