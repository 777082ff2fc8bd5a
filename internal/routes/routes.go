package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/media"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

// imageMaxSide é o maior lado, em pixels, das imagens publicadas.
const imageMaxSide = 1024

// Deps são as dependências de infraestrutura montadas no main.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    *zap.Logger
	Audit  *audit.Dispatcher
	Redis  *redis.Client // nil desliga o rate limit
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	db, cfg, log := deps.DB, deps.Config, deps.Log
	loc := timezone.Location(cfg.ShopTimezone)
	clock := timezone.SystemClock(loc)

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db, cfg.BookingLockTimeout)

	var uploader handlers.ImageUploader
	if cfg.S3.Enabled() {
		uploader = media.NewUploader(media.NewS3Store(cfg.S3), imageMaxSide)
	}

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, deps.Audit, clock, loc, log)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, clock)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, deps.Audit, clock, loc, log)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(appointmentRepo, deps.Audit, clock, loc, log)
	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo)
	listClientAppointmentsUC := ucAppointment.NewListClientAppointments(appointmentRepo, loc)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, log)
	meHandler := handlers.NewMeHandler(db, listClientAppointmentsUC, log)
	serviceHandler := handlers.NewServiceHandler(db, uploader, deps.Audit, log)
	barberHandler := handlers.NewBarberHandler(db, uploader, deps.Audit, log)
	clientHandler := handlers.NewClientHandler(db, log)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, loc, log)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		availabilityUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		listAppointmentsByDateUC,
		loc,
		log,
	)

	bookingLimit := func(c *gin.Context) { c.Next() }
	if deps.Redis != nil {
		limiter := middleware.NewRateLimiter(deps.Redis, cfg.BookingRateLimit, cfg.BookingRateWindow, "rl:booking", log)
		bookingLimit = limiter.Middleware()
	}

	r.GET("/health", health(db))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PÚBLICO
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/services", serviceHandler.List)
		api.GET("/barbers", barberHandler.List)
		api.GET("/appointments/available-slots", appointmentHandler.AvailableSlots)

		// ------------------------------
		// 🔐 AUTENTICADO
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/appointments", meHandler.Appointments)

			secured.POST("/appointments", bookingLimit, appointmentHandler.Create)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
		}

		// ------------------------------
		// 🛠️ ADMIN
		// ------------------------------
		admin := api.Group("/")
		admin.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/appointments", appointmentHandler.ListByDate)
			admin.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

			admin.POST("/services", serviceHandler.Create)
			admin.PATCH("/services/:id", serviceHandler.Update)
			admin.DELETE("/services/:id", serviceHandler.Delete)
			admin.POST("/services/:id/image", serviceHandler.UploadImage)

			admin.POST("/barbers", barberHandler.Create)
			admin.PATCH("/barbers/:id", barberHandler.Update)
			admin.DELETE("/barbers/:id", barberHandler.Delete)
			admin.POST("/barbers/:id/avatar", barberHandler.UploadAvatar)

			admin.GET("/clients", clientHandler.List)
			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
