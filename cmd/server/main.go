package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/agrimitra/backend/internal/advisory"
	"github.com/agrimitra/backend/internal/ai"
	"github.com/agrimitra/backend/internal/config"
	"github.com/agrimitra/backend/internal/db"
	"github.com/agrimitra/backend/internal/docstore"
	"github.com/agrimitra/backend/internal/goroutine"
	httpHandlers "github.com/agrimitra/backend/internal/http/handlers"
	httpRouter "github.com/agrimitra/backend/internal/http/router"
	"github.com/agrimitra/backend/internal/logger"
	"github.com/agrimitra/backend/internal/repository"
	"github.com/agrimitra/backend/internal/service"
	"github.com/agrimitra/backend/internal/speech"
	"github.com/agrimitra/backend/internal/storage"
	"github.com/agrimitra/backend/internal/whatsapp"
	"github.com/agrimitra/backend/internal/ws"
)

// Параметры кеша WhatsApp-сессий.
const (
	whatsappSessionCapacity = 1000
	whatsappSessionTTL      = 30 * time.Minute
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Хранилище документов: Postgres при заданном DATABASE_URL,
	// иначе in-memory для локальной разработки и демо.
	var store docstore.Store
	storeKind := "memory"
	if cfg.DatabaseURL != "" {
		dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("main: ошибка подключения к базе: %v", err)
		}
		defer safeClose(dbConn)

		if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
			log.Fatalf("main: ошибка миграций: %v", err)
		}

		store = docstore.NewPostgresStore(dbConn)
		storeKind = "postgres"
	} else {
		logger.Log.Warn("main: DATABASE_URL не задан, работаем на in-memory хранилище")
		store = docstore.NewMemoryStore()
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Репозитории.
	userRepo := repository.NewUserRepository(store)
	campaignRepo := repository.NewCampaignRepository(store)
	bidRepo := repository.NewBidRepository(store)
	contractRepo := repository.NewContractRepository(store)
	orderRepo := repository.NewOrderRepository(store)
	chatRepo := repository.NewChatRepository(store)

	// Сервисы маркетплейса.
	authService := service.NewAuthService(userRepo, tokenManager)
	campaignService := service.NewCampaignService(campaignRepo)
	bidService := service.NewBidService(bidRepo, campaignRepo, contractRepo, cfg.BidAcceptGuard)
	contractService := service.NewContractService(contractRepo)
	orderService := service.NewOrderService(orderRepo)

	// Gemini: без ключа ассистент, vision-диагностика и транскрибация
	// голосовых отключаются, остальное продолжает работать.
	var aiClient *ai.Client
	if cfg.GeminiAPIKey != "" {
		aiClient, err = ai.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("main: ошибка инициализации Gemini: %v", err)
		}
	} else {
		logger.Log.Warn("main: GEMINI_API_KEY не задан, ассистент недоступен")
	}

	var cropModel *advisory.CropModelClient
	if cfg.CropModelURL != "" {
		cropModel = advisory.NewCropModelClient(cfg.CropModelURL)
	}
	var vision advisory.VisionAnalyzer
	if aiClient != nil {
		vision = aiClient
	}
	advisor := advisory.NewAdvisor(cropModel, vision)

	var agent service.ChatAgent = ai.DisabledAgent{}
	if aiClient != nil {
		agent = ai.NewAgent(aiClient, ai.NewToolset(advisor, campaignService, bidService))
	}

	// Вебсокеты и SSE.
	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, hub.Run)

	chatService := service.NewChatService(chatRepo, agent, hub)

	// Объектное хранилище медиа (опционально).
	var mediaStore *storage.MediaStore
	if cfg.MinioEndpoint != "" {
		mediaStore, err = storage.NewMediaStore(storage.MediaStoreConfig{
			Endpoint:    cfg.MinioEndpoint,
			AccessKey:   cfg.MinioAccessKey,
			SecretKey:   cfg.MinioSecretKey,
			Bucket:      cfg.MediaBucket,
			UseSSL:      cfg.MinioUseSSL,
			MaxUploadMB: cfg.MaxUploadSizeMB,
		})
		if err != nil {
			log.Fatalf("main: ошибка инициализации MinIO: %v", err)
		}
	} else {
		logger.Log.Warn("main: MINIO_ENDPOINT не задан, загрузка медиа отключена")
	}

	// WhatsApp-канал (опционально).
	var whatsappService *whatsapp.Service
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		deps := whatsapp.Deps{
			Sessions:  whatsapp.NewSessions(whatsappSessionCapacity, whatsappSessionTTL),
			Messenger: whatsapp.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNum),
			Chats:     chatService,
			Images:    advisor,
			TTS:       speech.NewSynthesizer(cfg.TTSBaseURL),
		}
		if aiClient != nil {
			deps.Transcriber = aiClient
		}
		if mediaStore != nil {
			deps.Media = mediaStore
		}
		whatsappService = whatsapp.NewService(deps)
	} else {
		logger.Log.Warn("main: Twilio не настроен, WhatsApp-вебхук отключён")
	}

	seedService := service.NewSeedService(authService, campaignService, bidService, orderService)
	if cfg.SeedDemoData {
		if err := seedService.SeedDemoData(ctx); err != nil {
			logger.Log.Errorf("main: ошибка наполнения демо-данными: %v", err)
		}
	}

	// HTTP хэндлеры.
	healthHandler := httpHandlers.NewHealthHandler(storeKind)
	authHandler := httpHandlers.NewAuthHandler(authService)
	campaignHandler := httpHandlers.NewCampaignHandler(campaignService, bidService)
	bidHandler := httpHandlers.NewBidHandler(bidService)
	contractHandler := httpHandlers.NewContractHandler(contractService)
	orderHandler := httpHandlers.NewOrderHandler(orderService)
	advisoryHandler := httpHandlers.NewAdvisoryHandler(advisor)
	chatHandler := httpHandlers.NewChatHandler(chatService, authService, hub)
	wsHandler := httpHandlers.NewWSHandler(hub)
	seedHandler := httpHandlers.NewSeedHandler(seedService)

	var whatsappHandler *httpHandlers.WhatsAppHandler
	if whatsappService != nil {
		whatsappHandler = httpHandlers.NewWhatsAppHandler(whatsappService)
	}
	var mediaHandler *httpHandlers.MediaHandler
	if mediaStore != nil {
		mediaHandler = httpHandlers.NewMediaHandler(mediaStore)
	}

	// Роутер.
	engine := httpRouter.SetupRouter(cfg,
		healthHandler, authHandler, campaignHandler, bidHandler, contractHandler,
		orderHandler, advisoryHandler, chatHandler, wsHandler,
		whatsappHandler, mediaHandler, seedHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s (хранилище: %s)", cfg.HTTPPort, storeKind)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
