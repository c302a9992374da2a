package router

import (
	"github.com/gin-gonic/gin"

	"github.com/agrimitra/backend/internal/config"
	"github.com/agrimitra/backend/internal/http/handlers"
	"github.com/agrimitra/backend/internal/http/middleware"
	"github.com/agrimitra/backend/internal/service"
)

// SetupRouter собирает все маршруты приложения. Хэндлеры опциональных
// подсистем (media, whatsapp, seed) могут быть nil — их маршруты тогда
// не регистрируются.
func SetupRouter(
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	campaignHandler *handlers.CampaignHandler,
	bidHandler *handlers.BidHandler,
	contractHandler *handlers.ContractHandler,
	orderHandler *handlers.OrderHandler,
	advisoryHandler *handlers.AdvisoryHandler,
	chatHandler *handlers.ChatHandler,
	wsHandler *handlers.WSHandler,
	whatsappHandler *handlers.WhatsAppHandler,
	mediaHandler *handlers.MediaHandler,
	seedHandler *handlers.SeedHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Check)

	// WebSocket и вебхуки живут вне /api: их пути зашиты во внешних
	// клиентах (веб-портал, консоль Twilio).
	r.GET("/ws", wsHandler.Handle)

	if whatsappHandler != nil {
		webhook := r.Group("/webhook")
		webhook.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
		{
			webhook.POST("/whatsapp", whatsappHandler.Incoming)
			webhook.POST("/whatsapp/status", whatsappHandler.Status)
		}
	}

	api := r.Group("/api")

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/dev/seed", seedHandler.Seed)
	}

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/me", authHandler.Me)
	}

	// Торговые маршруты публичны: порталы кампаний работают и без
	// аккаунта, идентификация идёт полями запроса.
	campaigns := api.Group("/campaigns")
	{
		campaigns.GET("", campaignHandler.List)
		campaigns.GET("/status/:status", campaignHandler.ListByStatus)
		campaigns.GET("/:id", campaignHandler.Get)
		campaigns.GET("/:id/bids", campaignHandler.GetWithBids)
		campaigns.POST("", campaignHandler.Create)
		campaigns.PUT("/:id", campaignHandler.Update)
		campaigns.DELETE("/:id", campaignHandler.Delete)
	}

	bids := api.Group("/bids")
	{
		bids.GET("", bidHandler.List)
		bids.GET("/stats", bidHandler.Stats)
		bids.GET("/:id", middleware.UUIDValidator("id"), bidHandler.Get)
		bids.POST("", bidHandler.Create)
		bids.PUT("/:id/action", middleware.UUIDValidator("id"), bidHandler.Action)
		bids.DELETE("/:id", middleware.UUIDValidator("id"), bidHandler.Delete)
	}

	contracts := api.Group("/contracts")
	{
		contracts.GET("", contractHandler.List)
		contracts.GET("/status/:status", contractHandler.ListByStatus)
		contracts.GET("/:id", middleware.UUIDValidator("id"), contractHandler.Get)
		contracts.POST("", contractHandler.Create)
		contracts.PUT("/:id", middleware.UUIDValidator("id"), contractHandler.Update)
		contracts.DELETE("/:id", middleware.UUIDValidator("id"), contractHandler.Delete)
	}

	orders := api.Group("/orders")
	{
		orders.GET("", orderHandler.List)
		orders.GET("/status/:status", orderHandler.ListByStatus)
		orders.GET("/:id", middleware.UUIDValidator("id"), orderHandler.Get)
		orders.POST("", orderHandler.Create)
		orders.PUT("/:id", middleware.UUIDValidator("id"), orderHandler.Update)
		orders.DELETE("/:id", middleware.UUIDValidator("id"), orderHandler.Delete)
	}

	advisoryGroup := api.Group("/advisory")
	{
		advisoryGroup.POST("/crop-recommendation", advisoryHandler.RecommendCrop)
		advisoryGroup.POST("/disease-analysis", advisoryHandler.AnalyzeDisease)
		advisoryGroup.GET("/schemes", advisoryHandler.Schemes)
		advisoryGroup.GET("/npk/:crop", advisoryHandler.NPK)
		advisoryGroup.GET("/planning/:crop", advisoryHandler.Planning)
		advisoryGroup.GET("/weather", advisoryHandler.Weather)
	}

	chat := api.Group("/chat")
	chat.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		// Запуск агента только для авторизованных: каждый вызов стоит
		// токенов модели. Стримы и история открыты, как веб-порталы.
		chat.POST("/send/:user_id", middleware.AuthMiddleware(tokenManager), chatHandler.Send)
		chat.GET("/events/:user_id", chatHandler.Events)
		chat.GET("/history/:user_id", chatHandler.History)
		chat.DELETE("/history/:user_id", chatHandler.Clear)
	}

	if mediaHandler != nil {
		media := api.Group("/media")
		media.Use(middleware.AuthMiddleware(tokenManager))
		{
			media.POST("/crop-photo", mediaHandler.UploadCropPhoto)
		}
	}

	return r
}
