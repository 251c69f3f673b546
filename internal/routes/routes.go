package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/salon-scheduler/internal/app"
	"github.com/BruksfildServices01/salon-scheduler/internal/handlers"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
)

// RegisterRoutes mounts the API. A nil redis client switches the public
// rate limiter to the in-process one.
func RegisterRoutes(r *gin.Engine, c *app.Container, rdb *redis.Client) {
	cfg := c.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(c.Log),
		middleware.CORSMiddleware(cfg.Server.CORSOrigins),
	)

	var limiter middleware.Limiter
	if rdb != nil {
		limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	} else {
		limiter = middleware.NewLocalLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.Burst)
	}
	rateLimit := middleware.RateLimit(limiter, cfg.RateLimit.Window, c.Log)

	// ======================================================
	// HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(c.DB)

	scheduleHandler := handlers.NewScheduleHandler(
		c.CreateSchedule,
		c.UpdateSchedule,
		c.DeleteSchedule,
		c.GetSchedule,
		c.ListSchedules,
		c.GenerateSlots,
		c.BulkGenerateSlots,
		c.Log,
	)

	slotHandler := handlers.NewSlotHandler(c.Availability, c.Blocking, c.Booking, c.Log)
	publicHandler := handlers.NewPublicHandler(c.Availability, c.Log)
	utilizationHandler := handlers.NewUtilizationHandler(c.Utilization, c.Exporter, c.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(c.AuditLog, c.Log)

	r.GET("/health", healthHandler.Check)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public/businesses/:businessId")
		publicAPI.Use(rateLimit)
		{
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.GET("/next-available", publicHandler.NextAvailable)
		}

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))
		{
			// SCHEDULES
			secured.GET("/schedules", scheduleHandler.List)
			secured.POST("/schedules", scheduleHandler.Create)
			secured.POST("/schedules/bulk-generate", scheduleHandler.BulkGenerate)
			secured.GET("/schedules/:id", scheduleHandler.Get)
			secured.PATCH("/schedules/:id", scheduleHandler.Update)
			secured.DELETE("/schedules/:id", scheduleHandler.Delete)
			secured.POST("/schedules/:id/slots/generate", scheduleHandler.Generate)

			// SLOTS
			secured.GET("/slots/availability", slotHandler.Availability)
			secured.GET("/slots/next-available", slotHandler.NextAvailable)
			secured.GET("/slots/business-day", slotHandler.BusinessDay)
			secured.POST("/slots/bulk-block", slotHandler.BulkBlock)
			secured.POST("/slots/block-range", slotHandler.BlockRange)
			secured.PATCH("/slots/:id/block", slotHandler.Block)
			secured.PATCH("/slots/:id/unblock", slotHandler.Unblock)
			secured.PATCH("/slots/:id/book", slotHandler.Book)
			secured.PATCH("/slots/:id/release", slotHandler.Release)

			// UTILIZATION
			secured.GET("/utilization/stats", utilizationHandler.Stats)
			secured.GET("/utilization/report", utilizationHandler.Report)
			secured.GET("/utilization/report/export", utilizationHandler.Export)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
