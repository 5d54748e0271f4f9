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
	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/SMC-TravelBooking/internal/api/handlers/cancel_booking"
	discardBookingHandler "github.com/m04kA/SMC-TravelBooking/internal/api/handlers/discard_booking"
	getBookingHandler "github.com/m04kA/SMC-TravelBooking/internal/api/handlers/get_booking"
	getCurrentBookingHandler "github.com/m04kA/SMC-TravelBooking/internal/api/handlers/get_current_booking"
	getHistoryHandler "github.com/m04kA/SMC-TravelBooking/internal/api/handlers/get_history"
	selectRoomHandler "github.com/m04kA/SMC-TravelBooking/internal/api/handlers/select_room"
	setDatesHandler "github.com/m04kA/SMC-TravelBooking/internal/api/handlers/set_dates"
	startBookingHandler "github.com/m04kA/SMC-TravelBooking/internal/api/handlers/start_booking"
	submitBookingHandler "github.com/m04kA/SMC-TravelBooking/internal/api/handlers/submit_booking"
	updateGuestInfoHandler "github.com/m04kA/SMC-TravelBooking/internal/api/handlers/update_guest_info"
	updateStepHandler "github.com/m04kA/SMC-TravelBooking/internal/api/handlers/update_step"
	"github.com/m04kA/SMC-TravelBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TravelBooking/internal/config"
	"github.com/m04kA/SMC-TravelBooking/internal/domain"
	"github.com/m04kA/SMC-TravelBooking/internal/infra/cache"
	"github.com/m04kA/SMC-TravelBooking/internal/infra/queue"
	historyRepo "github.com/m04kA/SMC-TravelBooking/internal/infra/storage/history"
	hotelServiceClient "github.com/m04kA/SMC-TravelBooking/internal/integrations/hotelservice"
	notificationServiceClient "github.com/m04kA/SMC-TravelBooking/internal/integrations/notificationservice"
	paymentServiceClient "github.com/m04kA/SMC-TravelBooking/internal/integrations/paymentservice"
	"github.com/m04kA/SMC-TravelBooking/internal/session"
	cancelConfirmedBookingUC "github.com/m04kA/SMC-TravelBooking/internal/usecase/cancel_confirmed_booking"
	checkAvailabilityUC "github.com/m04kA/SMC-TravelBooking/internal/usecase/check_availability"
	loadHistoryUC "github.com/m04kA/SMC-TravelBooking/internal/usecase/load_history"
	quotePriceUC "github.com/m04kA/SMC-TravelBooking/internal/usecase/quote_price"
	selectRoomUC "github.com/m04kA/SMC-TravelBooking/internal/usecase/select_room"
	submitBookingUC "github.com/m04kA/SMC-TravelBooking/internal/usecase/submit_booking"
	"github.com/m04kA/SMC-TravelBooking/internal/worker/notifications"
	"github.com/m04kA/SMC-TravelBooking/pkg/logger"
	"github.com/m04kA/SMC-TravelBooking/pkg/metrics"
	"github.com/m04kA/SMC-TravelBooking/pkg/retry"
	"github.com/m04kA/SMC-TravelBooking/pkg/txmanager"
)

// Кэш доступности и кэш цен: get/put с TTL и счетчики
type availabilityCache interface {
	cache.StatsSource
	Get(ctx context.Context, key string) (domain.AvailabilitySnapshot, bool)
	Put(ctx context.Context, key string, value domain.AvailabilitySnapshot, ttl time.Duration)
}

type pricingCache interface {
	cache.StatsSource
	Get(ctx context.Context, key string) (domain.PricingDetails, bool)
	Put(ctx context.Context, key string, value domain.PricingDetails, ttl time.Duration)
}

type eventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
}

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

	log.Info("Starting SMC-TravelBooking...")
	log.Info("Configuration loaded from config.toml")

	// Фоновые задачи живут, пока жив процесс
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Инициализируем метрики; при выключенных метриках коллекторы пишут в приватный registry
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	} else {
		metricsCollector = metrics.NewWithRegisterer(cfg.Metrics.ServiceName, prometheus.NewRegistry())
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

	if err := metricsCollector.RegisterDBStats(db, cfg.Database.DBName); err != nil {
		log.Warn("Failed to register connection pool metrics: %v", err)
	}

	// Redis нужен общему кэшу и очереди событий
	var redisClient *redis.Client
	if cfg.Cache.Backend == config.CacheBackendRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
	}

	// Инициализируем кэши
	var (
		availabilityStore availabilityCache
		pricingStore      pricingCache
	)
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		availabilityStore = cache.NewRedisStore[domain.AvailabilitySnapshot](
			"availability", redisClient, cfg.Cache.Prefix, log, cache.WithRecorder(metricsCollector))
		pricingStore = cache.NewRedisStore[domain.PricingDetails](
			"pricing", redisClient, cfg.Cache.Prefix, log, cache.WithRecorder(metricsCollector))
	default:
		memAvailability := cache.NewStore[domain.AvailabilitySnapshot]("availability", cache.WithRecorder(metricsCollector))
		memPricing := cache.NewStore[domain.PricingDetails]("pricing", cache.WithRecorder(metricsCollector))
		go memAvailability.RunJanitor(ctx, cfg.Cache.JanitorInterval(), log)
		go memPricing.RunJanitor(ctx, cfg.Cache.JanitorInterval(), log)
		availabilityStore = memAvailability
		pricingStore = memPricing
	}
	go cache.RunStatsReporter(ctx, cfg.Cache.StatsInterval(), log, availabilityStore, pricingStore)
	log.Info("Cache initialized (backend=%s, availability_ttl=%s, pricing_ttl=%s)",
		cfg.Cache.Backend, cfg.Cache.AvailabilityTTL(), cfg.Cache.PricingTTL())

	// Инициализируем интеграционных клиентов
	hotelClient := hotelServiceClient.NewClient(
		cfg.HotelService.URL,
		time.Duration(cfg.HotelService.Timeout)*time.Second,
		cfg.HotelService.RPS,
		log,
	)
	paymentClient := paymentServiceClient.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		cfg.PaymentService.RPS,
		log,
	)
	notificationClient := notificationServiceClient.NewClient(
		cfg.NotificationService.URL,
		time.Duration(cfg.NotificationService.Timeout)*time.Second,
		cfg.NotificationService.RPS,
		log,
	)
	log.Info("Integration clients initialized (HotelService=%s, PaymentService=%s, NotificationService=%s)",
		cfg.HotelService.URL, cfg.PaymentService.URL, cfg.NotificationService.URL)

	// Инициализируем репозитории
	bookingHistoryRepository := historyRepo.NewRepository(db)
	txMgr := txmanager.NewTransactionManager(db)

	// Обработчик исходящих событий: сохранение подтверждения и уведомление
	processor := notifications.NewProcessor(bookingHistoryRepository, notificationClient, metricsCollector, log)

	// Публикация событий: через asynq или синхронно в процессе
	var (
		publisher    eventPublisher
		queueClient  *asynq.Client
		workerServer *asynq.Server
	)
	if cfg.Queue.Enabled {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.QueueDB,
		}

		queueClient = asynq.NewClient(redisOpt)
		publisher = queue.NewPublisher(queueClient, queue.Config{
			Queue:     cfg.Queue.Name,
			MaxRetry:  cfg.Queue.MaxRetry,
			Retention: cfg.Queue.Retention(),
		}, metricsCollector, log)

		workerServer = notifications.NewServer(redisOpt, notifications.ServerConfig{
			Queue:       cfg.Queue.Name,
			Concurrency: cfg.Queue.Concurrency,
		}, log)
		if err := workerServer.Start(notifications.NewServeMux(processor)); err != nil {
			log.Fatal("Failed to start notification worker: %v", err)
		}
		log.Info("Event queue enabled (queue=%s, concurrency=%d)", cfg.Queue.Name, cfg.Queue.Concurrency)
	} else {
		publisher = queue.NewInlinePublisher(processor, metricsCollector, log)
		log.Info("Event queue disabled, events are processed inline")
	}

	// Политики повторов
	lookupRetry := retry.Policy{
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: cfg.Retry.InitialInterval(),
		MaxInterval:     cfg.Retry.MaxInterval(),
	}
	paymentRetry := lookupRetry
	paymentRetry.MaxAttempts = cfg.Retry.MaxPaymentAttempts

	// Инициализируем use cases
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		availabilityStore,
		hotelClient,
		metricsCollector,
		checkAvailabilityUC.Config{
			TTL:             cfg.Cache.AvailabilityTTL(),
			Retry:           lookupRetry,
			MaxStaleRefetch: cfg.Cache.MaxStaleRefetch,
		},
		log,
	)

	quotePriceUseCase := quotePriceUC.NewUseCase(
		pricingStore,
		hotelClient,
		metricsCollector,
		quotePriceUC.Config{
			TTL:             cfg.Cache.PricingTTL(),
			Retry:           lookupRetry,
			MaxStaleRefetch: cfg.Cache.MaxStaleRefetch,
		},
		log,
	)

	selectRoomUseCase := selectRoomUC.NewUseCase(
		checkAvailabilityUseCase,
		quotePriceUseCase,
		cfg.Cache.MaxStaleRefetch,
		log,
	)

	submitBookingUseCase := submitBookingUC.NewUseCase(
		quotePriceUseCase,
		paymentClient,
		publisher,
		metricsCollector,
		submitBookingUC.Config{PaymentRetry: paymentRetry, SubmitTimeout: cfg.Retry.SubmitTimeout()},
		log,
	)

	loadHistoryUseCase := loadHistoryUC.NewUseCase(bookingHistoryRepository, log)

	cancelConfirmedBookingUseCase := cancelConfirmedBookingUC.NewUseCase(
		bookingHistoryRepository,
		txMgr,
		publisher,
		log,
	)

	// Сессии пользователей
	sessions := session.NewManager(cfg.Session.IdleTTL())
	go sessions.RunJanitor(ctx, cfg.Session.SweepInterval())

	// Инициализируем handlers
	startBooking := startBookingHandler.NewHandler(sessions, log)
	getCurrentBooking := getCurrentBookingHandler.NewHandler(sessions)
	discardBooking := discardBookingHandler.NewHandler(sessions, log)
	updateStep := updateStepHandler.NewHandler(sessions, log)
	setDates := setDatesHandler.NewHandler(sessions, checkAvailabilityUseCase, log)
	selectRoom := selectRoomHandler.NewHandler(sessions, selectRoomUseCase, log)
	updateGuestInfo := updateGuestInfoHandler.NewHandler(sessions, log)
	submitBooking := submitBookingHandler.NewHandler(sessions, submitBookingUseCase, log)
	getHistory := getHistoryHandler.NewHandler(sessions, loadHistoryUseCase, log)
	getBooking := getBookingHandler.NewHandler(sessions, loadHistoryUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(sessions, cancelConfirmedBookingUseCase, loadHistoryUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware(metricsCollector))

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Текущее бронирование ---
	protected.HandleFunc("/booking", startBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/booking", getCurrentBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/booking", discardBooking.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/booking/step", updateStep.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/booking/dates", setDates.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/booking/room", selectRoom.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/booking/guest", updateGuestInfo.Handle).Methods(http.MethodPatch)

	// Отправка бронирования
	protected.HandleFunc("/booking/submit", submitBooking.Handle).Methods(http.MethodPost)

	// --- История бронирований ---
	protected.HandleFunc("/bookings", getHistory.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена подтвержденного бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем janitor'ы кэша и сессий
	stop()

	// Сначала перестаем ставить задачи, потом дожидаемся уже взятых воркером
	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			log.Error("Failed to close queue client: %v", err)
		}
	}
	if workerServer != nil {
		workerServer.Shutdown()
		log.Info("Notification worker stopped")
	}

	log.Info("Server stopped gracefully")
}
