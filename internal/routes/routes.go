package routes

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-citas/internal/audit"
	"github.com/BruksfildServices01/agenda-citas/internal/config"
	domainAppointment "github.com/BruksfildServices01/agenda-citas/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-citas/internal/handlers"
	infraRepo "github.com/BruksfildServices01/agenda-citas/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-citas/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/agenda-citas/internal/usecase/appointment"
	ucCatalog "github.com/BruksfildServices01/agenda-citas/internal/usecase/catalog"
	ucClient "github.com/BruksfildServices01/agenda-citas/internal/usecase/client"
	"github.com/BruksfildServices01/agenda-citas/internal/validators"
)

// Deps are the singletons built in main and shared by every handler.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    *slog.Logger
	Audit  *audit.Dispatcher

	// Cache may be nil; the calendar is then read from the store every time.
	Cache domainAppointment.CalendarCache
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	cfg := deps.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(deps.Log),
		middleware.Metrics(),
		middleware.CORSMiddleware(cfg.Server.AllowedOrigins),
	)

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(deps.DB)
	clientRepo := infraRepo.NewClientGormRepository(deps.DB)
	serviceRepo := infraRepo.NewServiceGormRepository(deps.DB)

	clock := ucAppointment.SystemClock(cfg.App.Timezone)

	var checkDomain ucClient.EmailDomainCheck
	if cfg.Clients.CheckEmailDomain {
		checkDomain = validators.EmailDomain(2 * time.Second)
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	clientHandler := handlers.NewClientHandler(
		ucClient.NewRegisterClient(clientRepo, checkDomain, clock),
		ucClient.NewUpdateClient(clientRepo, checkDomain),
		ucClient.NewDeleteClient(clientRepo),
		ucClient.NewGetClient(clientRepo),
		ucClient.NewListClients(clientRepo, cfg.Clients.PageSize),
	)

	serviceHandler := handlers.NewServiceHandler(
		ucCatalog.NewCreateService(serviceRepo),
		ucCatalog.NewUpdateService(serviceRepo),
		ucCatalog.NewDeactivateService(serviceRepo),
		ucCatalog.NewGetService(serviceRepo),
		ucCatalog.NewListServices(serviceRepo),
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		ucAppointment.NewCreateAppointment(appointmentRepo, deps.Audit, deps.Cache),
		ucAppointment.NewUpdateAppointment(appointmentRepo, deps.Audit, deps.Cache, clock),
		ucAppointment.NewChangeAppointmentStatus(appointmentRepo, deps.Audit, deps.Cache, clock),
		ucAppointment.NewDeleteAppointment(appointmentRepo, deps.Audit, deps.Cache),
		ucAppointment.NewGetAppointment(appointmentRepo),
		ucAppointment.NewListAppointments(appointmentRepo),
		ucAppointment.NewGetCalendar(appointmentRepo, deps.Cache),
	)

	reportHandler := handlers.NewReportHandler(ucAppointment.NewGetReport(appointmentRepo, clock))
	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		clients := api.Group("/clients")
		{
			clients.GET("", clientHandler.List)
			clients.POST("", clientHandler.Create)
			clients.GET("/:id", clientHandler.Get)
			clients.PUT("/:id", clientHandler.Update)
			clients.DELETE("/:id", clientHandler.Delete)
		}

		services := api.Group("/services")
		{
			services.GET("", serviceHandler.List)
			services.POST("", serviceHandler.Create)
			services.GET("/:id", serviceHandler.Get)
			services.PUT("/:id", serviceHandler.Update)
			services.DELETE("/:id", serviceHandler.Delete)
		}

		appointments := api.Group("/appointments")
		{
			appointments.GET("", appointmentHandler.List)
			appointments.POST("", appointmentHandler.Create)
			appointments.GET("/calendar", appointmentHandler.Calendar)
			appointments.GET("/:id", appointmentHandler.Get)
			appointments.PUT("/:id", appointmentHandler.Update)
			appointments.PATCH("/:id/status", appointmentHandler.ChangeStatus)
			appointments.DELETE("/:id", appointmentHandler.Delete)
		}

		api.GET("/reports/appointments", reportHandler.Appointments)
		api.GET("/audit-logs", auditLogsHandler.List)
	}
}
