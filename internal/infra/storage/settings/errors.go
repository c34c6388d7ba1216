package settings

import "errors"

var (
	// ErrSettingsNotFound возвращается, когда строка настроек еще не создана
	ErrSettingsNotFound = errors.New("settings.repository: settings not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("settings.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("settings.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("settings.repository: failed to scan row")

	// ErrEncodeHours возвращается при ошибке сериализации расписания недели
	ErrEncodeHours = errors.New("settings.repository: failed to encode working hours")

	// ErrDecodeHours возвращается при ошибке разбора расписания недели
	ErrDecodeHours = errors.New("settings.repository: failed to decode working hours")
)
