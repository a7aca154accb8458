package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/navalhatech/agenda-api/internal/audit"
	"github.com/navalhatech/agenda-api/internal/cache"
	"github.com/navalhatech/agenda-api/internal/config"
	"github.com/navalhatech/agenda-api/internal/handlers"
	"github.com/navalhatech/agenda-api/internal/infra/repository"
	"github.com/navalhatech/agenda-api/internal/middleware"
	"github.com/navalhatech/agenda-api/internal/notification"
	"github.com/navalhatech/agenda-api/internal/payments"
	"github.com/navalhatech/agenda-api/internal/storage"
	usecase "github.com/navalhatech/agenda-api/internal/usecase/appointment"
	"github.com/navalhatech/agenda-api/internal/usecase/report"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {

	// --------------------------------------------------
	// Infraestrutura compartilhada
	// --------------------------------------------------
	repo := repository.NewAppointmentGormRepository(db)

	auditDispatcher := audit.NewDispatcher(audit.New(db))

	availCache := cache.NewAvailabilityCache(rdb)

	var sender notification.EmailSender
	if cfg.SMTPHost != "" {
		sender = notification.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	}
	notifier := notification.NewDispatcher(db, sender)

	// pagamento é opcional: sem token, concluir atendimento só não cobra
	paymentsClient, err := payments.New(db, cfg.MercadoPagoToken)
	if err != nil {
		log.Println("payments disabled:", err)
		paymentsClient = nil
	}

	media := storage.NewMediaStore(cfg)

	// --------------------------------------------------
	// Use cases
	// --------------------------------------------------
	checkUC := usecase.NewCheckConflicts(repo)
	createUC := usecase.NewCreateAppointment(repo, checkUC, auditDispatcher, notifier, availCache)
	rescheduleUC := usecase.NewRescheduleAppointment(repo, checkUC, auditDispatcher, availCache)
	cancelUC := usecase.NewCancelAppointment(repo, auditDispatcher, notifier, availCache)
	completeUC := usecase.NewCompleteAppointment(repo, auditDispatcher, notifier, paymentsClient)
	confirmUC := usecase.NewConfirmAppointment(repo, auditDispatcher)
	startUC := usecase.NewStartAppointment(repo, auditDispatcher)
	availabilityUC := usecase.NewGetAvailability(repo, availCache)
	listByDateUC := usecase.NewListAppointmentsByDate(repo)
	listByMonthUC := usecase.NewListAppointmentsByMonth(repo)
	financialUC := report.NewFinancialReport(repo)

	// --------------------------------------------------
	// Handlers
	// --------------------------------------------------
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	barbershopHandler := handlers.NewBarbershopHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db, availCache)
	blackoutHandler := handlers.NewBlackoutHandler(db, availCache)
	appointmentHandler := handlers.NewAppointmentHandler(
		createUC, rescheduleUC, cancelUC, completeUC,
		confirmUC, startUC, checkUC, listByDateUC, listByMonthUC,
	)
	publicHandler := handlers.NewPublicHandler(db, createUC, checkUC, availabilityUC)
	reportHandler := handlers.NewReportHandler(db, financialUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	staffHandler := handlers.NewStaffHandler(db)
	uploadHandler := handlers.NewUploadHandler(db, media)

	// --------------------------------------------------
	// Rotas públicas
	// --------------------------------------------------
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)

	public := r.Group("/public/:slug")
	{
		public.GET("", publicHandler.GetBarbershop)
		public.GET("/services", publicHandler.ListServices)
		public.GET("/barbers", publicHandler.ListBarbers)
		public.GET("/availability", publicHandler.GetAvailability)
		public.POST("/check", publicHandler.CheckConflicts)
		public.POST("/appointments", publicHandler.CreateAppointment)
	}

	// --------------------------------------------------
	// Rotas autenticadas
	// --------------------------------------------------
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(cfg))
	{
		auth.GET("/me", meHandler.GetMe)
		auth.POST("/me/photo", uploadHandler.UploadMyPhoto)

		auth.GET("/me/barbershop", barbershopHandler.GetMeBarbershop)
		auth.PUT("/me/barbershop", barbershopHandler.UpdateMeBarbershop)

		auth.GET("/clients", clientHandler.List)

		auth.GET("/services", serviceHandler.List)
		auth.POST("/services", serviceHandler.Create)
		auth.PUT("/services/:id", serviceHandler.Update)
		auth.DELETE("/services/:id", serviceHandler.Delete)
		auth.POST("/services/:id/photo", uploadHandler.UploadServicePhoto)

		auth.GET("/working-hours", workingHoursHandler.Get)
		auth.PUT("/working-hours", workingHoursHandler.Update)

		auth.GET("/appointments", appointmentHandler.ListByDate)
		auth.GET("/appointments/month", appointmentHandler.ListByMonth)
		auth.POST("/appointments", appointmentHandler.Create)
		auth.POST("/appointments/check", appointmentHandler.CheckConflicts)
		auth.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
		auth.PATCH("/appointments/:id/start", appointmentHandler.Start)
		auth.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
		auth.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
		auth.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)

		// administração: só o dono
		owner := auth.Group("/")
		owner.Use(middleware.RequireRole("owner"))
		{
			owner.GET("/staff", staffHandler.List)
			owner.POST("/staff", staffHandler.Create)

			owner.GET("/blackouts", blackoutHandler.List)
			owner.POST("/blackouts", blackoutHandler.Create)
			owner.DELETE("/blackouts/:id", blackoutHandler.Delete)

			owner.GET("/reports/daily", reportHandler.Daily)
			owner.GET("/reports/monthly", reportHandler.Monthly)

			owner.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
