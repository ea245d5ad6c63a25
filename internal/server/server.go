package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/LBRJanssen/aondetaorole-sub000/internal/auth"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/boost"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/config"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/engagement"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/event"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/notify"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/premium"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/ticket"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/user"
	"github.com/LBRJanssen/aondetaorole-sub000/internal/wallet"
)

type Server struct {
	router   *gin.Engine
	http     *http.Server
	db       *sqlx.DB
	config   *config.Config
	notifier *notify.Service
}

func New(db *sqlx.DB, cfg *config.Config, notifier *notify.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	userHandler := user.NewHandler(user.NewService(user.NewRepository(db), cfg.JWTSecret, cfg.JWTRefreshSecret))
	eventHandler := event.NewHandler(db)
	walletHandler := wallet.NewHandler(db, notifier)
	engagementHandler := engagement.NewHandler(db)
	ticketHandler := ticket.NewHandler(db, cfg.CommissionPercent, notifier)
	premiumHandler := premium.NewHandler(db)
	pricing := boost.NewPricingEngine(cfg.Boost12hPriceCents, cfg.Boost24hPriceCents)
	boostHandler := boost.NewHandler(db, pricing, notifier)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	router.GET("/events", eventHandler.ListEvents)
	router.GET("/events/:eventID", eventHandler.GetEvent)
	router.GET("/events/:eventID/counters", engagementHandler.GetCounters)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.Me)

		protected.POST("/events", eventHandler.CreateEvent)
		protected.POST("/events/:eventID/publish", eventHandler.PublishEvent)

		protected.GET("/wallet", walletHandler.GetBalance)
		protected.POST("/wallet/topup", walletHandler.TopUp)
		protected.POST("/wallet/withdrawals", walletHandler.Withdraw)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)

		protected.POST("/events/:eventID/engagement/:flag", engagementHandler.Mark)
		protected.DELETE("/events/:eventID/engagement/:flag", engagementHandler.Unmark)
		protected.GET("/events/:eventID/engagement/:flag", engagementHandler.IsMarked)
		protected.GET("/events/:eventID/engagement", engagementHandler.GetRecord)
		protected.POST("/events/:eventID/view", engagementHandler.RecordView)

		protected.GET("/events/:eventID/categories", ticketHandler.ListCategories)
		protected.POST("/events/:eventID/tickets", ticketHandler.Purchase)
		protected.GET("/tickets", ticketHandler.ListMyOrders)

		protected.POST("/boosts/quote", boostHandler.Quote)
		protected.POST("/events/:eventID/boosts", boostHandler.Purchase)

		protected.GET("/premium", premiumHandler.GetSubscription)
		protected.POST("/premium/subscribe", premiumHandler.Subscribe)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/events/:eventID/categories", ticketHandler.CreateCategory)
		admin.POST("/categories/:categoryID/restock", ticketHandler.Restock)
		admin.POST("/withdrawals/:transactionID/approve", walletHandler.ApproveWithdrawal)
		admin.POST("/withdrawals/:transactionID/reject", walletHandler.RejectWithdrawal)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-notification", TestNotification(notifier))
	SetupSwagger(router)

	return &Server{
		router:   router,
		db:       db,
		config:   cfg,
		notifier: notifier,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the underlying handler for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
