package server

import (
	"log"
	"strings"
	"time"

	"anoa.com/creatordashboard/internal/config"
	"anoa.com/creatordashboard/internal/handler"
	"anoa.com/creatordashboard/internal/middleware"
	"anoa.com/creatordashboard/internal/model"
	"anoa.com/creatordashboard/internal/repository"
	"anoa.com/creatordashboard/internal/service"
	"anoa.com/creatordashboard/internal/source"
	"anoa.com/creatordashboard/internal/source/reddit"
	"anoa.com/creatordashboard/internal/source/twitter"
	"anoa.com/creatordashboard/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	contentRepo := repository.NewContentRepository(db)
	savedRepo := repository.NewSavedContentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := service.NewMeiliSearchService(meiliClient)

	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)

	creditSvc := service.NewCreditService(creditRepo, notificationSvc, cfg.DailyLoginCredits)
	creditHandler := handler.NewCreditHandler(creditSvc)

	authSvc := service.NewAuthService(userRepo, creditSvc, cfg.JWTSecret, cfg.JWTTTL, cfg.DailyLoginCredits)
	authHandler := handler.NewAuthHandler(authSvc)

	profileSvc := service.NewProfileService(userRepo, creditSvc, notificationSvc, imageStorage)
	profileHandler := handler.NewProfileHandler(profileSvc)

	// Platform adapters. Twitter needs credentials, Reddit works anonymously.
	var adapters []source.Adapter
	targets := map[string][]string{}
	if cfg.TwitterBearerToken != "" {
		adapters = append(adapters, twitter.NewClient(cfg.TwitterBearerToken))
		targets[model.SourceTwitter] = cfg.TwitterTargets
	}
	adapters = append(adapters, reddit.NewClient(cfg.RedditUserAgent))
	targets[model.SourceReddit] = cfg.RedditSubreddits

	ingestSvc := service.NewIngestService(adapters, contentRepo, searchSvc, redisClient, service.IngestConfig{
		Targets:      targets,
		FetchLimit:   cfg.FetchLimit,
		FetchTimeout: cfg.FetchTimeout,
		CacheTTL:     cfg.ContentCacheTTL,
		RateLimit:    cfg.RateLimitRefresh,
	})

	shareTokens := service.NewShareTokenIssuer(cfg.ShareTokenSecret)
	feedSvc := service.NewFeedService(contentRepo, savedRepo, reportRepo, userRepo, creditSvc, searchSvc, shareTokens, cfg.PublicBaseURL)
	contentHandler := handler.NewContentHandler(feedSvc, ingestSvc)

	adminSvc := service.NewAdminService(userRepo, reportRepo, contentRepo, searchSvc, notificationSvc)
	adminHandler := handler.NewAdminHandler(adminSvc, creditSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}
	api.GET("/shared/:token", contentHandler.ResolveShare)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.PUT("/users/:id", adminHandler.UpdateUser)
			adminGroup.POST("/users/:id/credits", adminHandler.AdjustCredits)
			adminGroup.GET("/reports", adminHandler.ListReports)
			adminGroup.PUT("/reports/:id", adminHandler.ReviewReport)
			adminGroup.POST("/content/refresh", contentHandler.RefreshAll)
			adminGroup.POST("/content/refresh/:source", contentHandler.RefreshSource)
		}

		// Profile routes
		protected.GET("/profile/me", profileHandler.GetMe)
		protected.PUT("/profile", profileHandler.UpdateProfile)
		protected.POST("/profile/avatar", profileHandler.UploadAvatar)

		// Credit routes
		protected.GET("/credits/balance", creditHandler.GetBalance)
		protected.GET("/credits/transactions", creditHandler.GetTransactions)
		protected.POST("/credits/spend", creditHandler.SpendCredits)

		// Feed and content routes
		protected.GET("/feed", contentHandler.GetFeed)
		protected.GET("/content/search", contentHandler.Search)
		protected.GET("/content/:id", contentHandler.GetContent)
		protected.POST("/content/:id/share", contentHandler.ShareContent)
		protected.POST("/content/save", contentHandler.SaveContent)
		protected.DELETE("/content/save/:id", contentHandler.UnsaveContent)
		protected.GET("/content/saved", contentHandler.GetSavedContent)
		protected.POST("/content/report", contentHandler.ReportContent)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
