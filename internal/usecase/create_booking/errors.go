package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("service not found")

	// ErrSlotTaken возвращается, когда слот уже занят другим бронированием
	ErrSlotTaken = errors.New("slot is already taken")

	// ErrBusinessClosed возвращается, когда бизнес закрыт в указанное время
	ErrBusinessClosed = errors.New("business is closed at this time")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrTooSoon возвращается, когда до начала слота меньше минимального уведомления
	ErrTooSoon = errors.New("booking is too soon")

	// ErrPhoneRequired возвращается, когда номер телефона обязателен, но не указан
	ErrPhoneRequired = errors.New("customer phone is required")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
