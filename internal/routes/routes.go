package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	"github.com/BruksfildServices01/barber-agenda/internal/config"
	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/handlers"
	"github.com/BruksfildServices01/barber-agenda/internal/messaging"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/telemetry"
	ucAppointment "github.com/BruksfildServices01/barber-agenda/internal/usecase/appointment"
	ucBlock "github.com/BruksfildServices01/barber-agenda/internal/usecase/block"
	ucReminder "github.com/BruksfildServices01/barber-agenda/internal/usecase/reminder"
)

// Deps reúne a infraestrutura montada no main.
// Limiter e Locker nil desligam o rate limit e o lock dos lembretes.
type Deps struct {
	DB      *gorm.DB
	Repo    domain.Repository
	Config  *config.Config
	Log     *slog.Logger
	Audit   *audit.Dispatcher
	Metrics *telemetry.Metrics
	Sender  messaging.Sender
	Limiter middleware.Limiter
	Locker  ucReminder.Locker
	Health  map[string]handlers.Pinger
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.CORSMiddleware(d.Config.CORSOrigins),
		middleware.AccessLog(d.Log),
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	appointmentDeps := ucAppointment.Deps{
		Repo:    d.Repo,
		Sender:  d.Sender,
		Audit:   d.Audit,
		Metrics: d.Metrics,
		Log:     d.Log,
	}

	authHandler := handlers.NewAuthHandler(d.DB, d.Config, d.Log)
	meHandler := handlers.NewMeHandler(d.DB)
	companyHandler := handlers.NewCompanyHandler(d.DB)
	businessHoursHandler := handlers.NewBusinessHoursHandler(d.DB)
	serviceHandler := handlers.NewServiceHandler(d.DB)
	barberHandler := handlers.NewBarberHandler(d.DB)
	clientHandler := handlers.NewClientHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	publicHandler := handlers.NewPublicHandler(appointmentDeps)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentDeps)
	blockHandler := handlers.NewBlockHandler(
		ucBlock.NewRegistry(d.Repo, d.Audit, d.Log),
		d.Log,
	)
	reminderHandler := handlers.NewReminderHandler(
		ucReminder.NewRunReminders(d.Repo, d.Sender, d.Locker, d.Metrics, d.Log),
		d.Config.ReminderTimeout,
		d.Log,
	)
	healthHandler := handlers.NewHealthHandler(d.Health)

	// ======================================================
	// 🔧 OPS
	// ======================================================
	r.GET("/health", healthHandler.Health)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public/:slug")
		publicAPI.Use(middleware.RateLimit(d.Limiter, d.Log))
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/availability", publicHandler.Availability)
			publicAPI.GET("/availability/barbers", publicHandler.BarberAvailability)
			publicAPI.POST("/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// ⏰ CRON
		// ------------------------------
		internal := api.Group("/internal")
		internal.Use(middleware.CronToken(d.Config.CronToken))
		{
			internal.POST("/reminders/run", reminderHandler.Run)
		}

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("", meHandler.GetMe)

			secured.GET("/company", companyHandler.Get)
			secured.PATCH("/company", companyHandler.Update)

			secured.GET("/business-hours", businessHoursHandler.Get)
			secured.PUT("/business-hours", businessHoursHandler.Update)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)

			secured.GET("/barbers", barberHandler.List)
			secured.POST("/barbers", barberHandler.Create)
			secured.PATCH("/barbers/:id", barberHandler.Update)

			secured.GET("/clients", clientHandler.List)

			// ------------------------------
			// AGENDA
			// ------------------------------
			secured.GET("/calendar", appointmentHandler.Calendar)
			secured.GET("/availability", appointmentHandler.Availability)

			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

			secured.GET("/blocks", blockHandler.List)
			secured.POST("/blocks", blockHandler.Create)
			secured.POST("/blocks/batch", blockHandler.Batch)
			secured.DELETE("/blocks", blockHandler.Delete)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}

// NewEngine cria o gin.Engine com recovery; o log de acesso vem do slog.
func NewEngine(cfg *config.Config) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}
