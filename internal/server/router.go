package server

import (
	"net/http"

	"mini-crm/internal/auth"
	"mini-crm/internal/config"
	"mini-crm/internal/handlers"
	"mini-crm/internal/middleware"
	"mini-crm/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func NewRouter(cfg *config.Config, st store.Store, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.ClientOrigin))

	authSvc := auth.NewService(st, cfg)
	authHandler := &handlers.AuthHandler{Auth: authSvc}
	customerHandler := &handlers.CustomerHandler{Store: st}
	leadHandler := &handlers.LeadHandler{Store: st}
	analyticsHandler := &handlers.AnalyticsHandler{Store: st}

	api := r.Group("/api")

	api.GET("/health", handlers.Health)

	// AUTH
	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.GET("/me", middleware.RequireAuth(authSvc), authHandler.Me)

	// everything below requires a bearer token; scoping happens in the
	// stores, not in route-level role gates
	protected := api.Group("")
	protected.Use(middleware.RequireAuth(authSvc))

	// CUSTOMERS
	customers := protected.Group("/customers")
	customers.GET("", customerHandler.List)
	customers.POST("", customerHandler.Create)
	// gin requires one wildcard name per segment, so the single-customer
	// routes share :customerId with the nested lead routes
	customers.GET("/:customerId", customerHandler.Get)
	customers.PUT("/:customerId", customerHandler.Update)
	customers.DELETE("/:customerId", customerHandler.Delete)

	// LEADS (nested under their customer)
	leads := protected.Group("/customers/:customerId/leads")
	leads.GET("", leadHandler.List)
	leads.POST("", leadHandler.Create)
	leads.GET("/:leadId", leadHandler.Get)
	leads.PUT("/:leadId", leadHandler.Update)
	leads.DELETE("/:leadId", leadHandler.Delete)

	// ANALYTICS
	analytics := protected.Group("/analytics")
	analytics.GET("/leads-by-status", analyticsHandler.LeadsByStatus)
	analytics.GET("/stats", analyticsHandler.Stats)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route not found",
		})
	})

	return r
}
