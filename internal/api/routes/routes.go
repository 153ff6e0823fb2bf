package routes

import (
	"dreamcrafts/internal/api/handlers"
	"dreamcrafts/internal/api/middleware"
	"dreamcrafts/internal/config"
	"dreamcrafts/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	// Initialize services. Constructed once here and passed down; no package
	// globals beyond the database handle.
	events := services.NewEventLogService()
	attempts := services.NewAttemptLedgerService()
	limiter := services.NewRateLimiterService(cfg, attempts, events)
	credentials := services.NewCredentialStoreService(cfg)
	sessions := services.NewSessionAuthorityService(cfg, credentials, attempts, limiter, events)
	printService := services.NewPrintService()
	showService := services.NewCraftShowService()
	newsService := services.NewNewsService()
	settingsService := services.NewSettingsService()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(sessions, credentials, events, cfg)
	publicHandler := handlers.NewPublicHandler(printService, showService, newsService, settingsService)
	printHandler := handlers.NewPrintHandler(printService)
	showHandler := handlers.NewShowHandler(showService)
	newsHandler := handlers.NewNewsHandler(newsService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	securityHandler := handlers.NewSecurityHandler(events, limiter)

	// Middleware
	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.ErrorHandler(events))

	// Public routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "DreamCrafts API is running",
			})
		})

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			// Logout is idempotent and safe to call without a session, so it
			// skips the session and CSRF gates.
			auth.POST("/logout", authHandler.Logout)
		}

		// Public site content
		api.GET("/site", publicHandler.GetSiteInfo)
		api.GET("/prints", publicHandler.GetPrints)
		api.GET("/prints/:id", publicHandler.GetPrint)
		api.GET("/shows", publicHandler.GetShows)
		api.GET("/news", publicHandler.GetNews)
		api.GET("/news/:slug", publicHandler.GetNewsArticle)
	}

	// Protected routes: session first, then CSRF on anything mutating
	protected := api.Group("")
	protected.Use(middleware.SessionMiddleware(cfg, sessions))
	protected.Use(middleware.CSRFMiddleware(sessions, events))
	{
		// Auth routes (protected)
		protected.GET("/auth/me", authHandler.GetMe)
		protected.GET("/auth/csrf", authHandler.GetCSRFToken)
		protected.POST("/auth/password", authHandler.ChangePassword)

		admin := protected.Group("/admin")
		{
			// Print management
			prints := admin.Group("/prints")
			{
				prints.GET("", printHandler.GetPrints)
				prints.GET("/:id", printHandler.GetPrint)
				prints.POST("", printHandler.CreatePrint)
				prints.PUT("/:id", printHandler.UpdatePrint)
				prints.DELETE("/:id", printHandler.DeletePrint)
			}

			// Craft show management
			shows := admin.Group("/shows")
			{
				shows.GET("", showHandler.GetShows)
				shows.GET("/:id", showHandler.GetShow)
				shows.POST("", showHandler.CreateShow)
				shows.PUT("/:id", showHandler.UpdateShow)
				shows.DELETE("/:id", showHandler.DeleteShow)
			}

			// News management
			news := admin.Group("/news")
			{
				news.GET("", newsHandler.GetArticles)
				news.GET("/:id", newsHandler.GetArticle)
				news.POST("", newsHandler.CreateArticle)
				news.PUT("/:id", newsHandler.UpdateArticle)
				news.DELETE("/:id", newsHandler.DeleteArticle)
			}

			// Site settings
			settings := admin.Group("/settings")
			{
				settings.GET("", settingsHandler.GetSettings)
				settings.PUT("/:key", settingsHandler.UpdateSetting)
			}

			// Security event stream
			security := admin.Group("/security")
			{
				security.GET("/events", securityHandler.GetEvents)
				security.GET("/suspicion", securityHandler.GetSuspicion)
			}
		}
	}
}
