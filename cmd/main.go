package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createBookingHandler "github.com/smartbooking-ai/smartbooking/internal/api/handlers/create_booking"
	createServiceHandler "github.com/smartbooking-ai/smartbooking/internal/api/handlers/create_service"
	deleteBookingHandler "github.com/smartbooking-ai/smartbooking/internal/api/handlers/delete_booking"
	deleteServiceHandler "github.com/smartbooking-ai/smartbooking/internal/api/handlers/delete_service"
	getAvailableSlotsHandler "github.com/smartbooking-ai/smartbooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/smartbooking-ai/smartbooking/internal/api/handlers/get_booking"
	getBookingsHandler "github.com/smartbooking-ai/smartbooking/internal/api/handlers/get_bookings"
	getCustomersHandler "github.com/smartbooking-ai/smartbooking/internal/api/handlers/get_customers"
	getServicesHandler "github.com/smartbooking-ai/smartbooking/internal/api/handlers/get_services"
	getSettingsHandler "github.com/smartbooking-ai/smartbooking/internal/api/handlers/get_settings"
	updateBookingStatusHandler "github.com/smartbooking-ai/smartbooking/internal/api/handlers/update_booking_status"
	updateServiceHandler "github.com/smartbooking-ai/smartbooking/internal/api/handlers/update_service"
	updateSettingsHandler "github.com/smartbooking-ai/smartbooking/internal/api/handlers/update_settings"
	"github.com/smartbooking-ai/smartbooking/internal/api/middleware"
	"github.com/smartbooking-ai/smartbooking/internal/config"
	bookingRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/booking"
	customerRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/customer"
	serviceRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/service"
	settingsRepo "github.com/smartbooking-ai/smartbooking/internal/infra/storage/settings"
	bookingsService "github.com/smartbooking-ai/smartbooking/internal/service/bookings"
	catalogService "github.com/smartbooking-ai/smartbooking/internal/service/catalog"
	customersService "github.com/smartbooking-ai/smartbooking/internal/service/customers"
	settingsService "github.com/smartbooking-ai/smartbooking/internal/service/settings"
	createBookingUC "github.com/smartbooking-ai/smartbooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/smartbooking-ai/smartbooking/internal/usecase/get_available_slots"
	"github.com/smartbooking-ai/smartbooking/pkg/dbmetrics"
	"github.com/smartbooking-ai/smartbooking/pkg/logger"
	"github.com/smartbooking-ai/smartbooking/pkg/metrics"
	"github.com/smartbooking-ai/smartbooking/pkg/simpletxmanager"
	"github.com/smartbooking-ai/smartbooking/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SmartBooking...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		customerRepository *customerRepo.Repository
		serviceRepository  *serviceRepo.Repository
		settingsRepository *settingsRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		customerRepository = customerRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		settingsRepository = settingsRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		customerRepository = customerRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		settingsRepository = settingsRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, settingsRepository, log)
	catalogSvc := catalogService.NewService(serviceRepository, log)
	customersSvc := customersService.NewService(customerRepository, log)
	settingsSvc := settingsService.NewService(settingsRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		customerRepository,
		serviceRepository,
		settingsRepository,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		settingsRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookings := getBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getServices := getServicesHandler.NewHandler(catalogSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)
	updateService := updateServiceHandler.NewHandler(catalogSvc, log)
	deleteService := deleteServiceHandler.NewHandler(catalogSvc, log)
	getCustomers := getCustomersHandler.NewHandler(customersSvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	// Настраиваем маршруты
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Публичная форма записи ---
	// Доступные слоты на день
	api.HandleFunc("/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание записи клиентом
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Витрина активных услуг
	api.HandleFunc("/services", getServices.Handle).Methods(http.MethodGet)

	// --- Дашборд (требуется идентификатор администратора) ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Ручное бронирование в обход политик расписания
	protected.HandleFunc("/admin/bookings", createBooking.HandleManual).Methods(http.MethodPost)

	// Реестр бронирований
	protected.HandleFunc("/bookings", getBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// Каталог услуг
	protected.HandleFunc("/admin/services", getServices.HandleAll).Methods(http.MethodGet)
	protected.HandleFunc("/admin/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/admin/services/{serviceId}", updateService.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/admin/services/{serviceId}", deleteService.Handle).Methods(http.MethodDelete)

	// Справочник клиентов
	protected.HandleFunc("/customers", getCustomers.Handle).Methods(http.MethodGet)

	// Настройки бизнеса
	protected.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
