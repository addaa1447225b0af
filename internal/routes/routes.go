package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ateliersoft/studio-scheduler/internal/ai"
	"github.com/ateliersoft/studio-scheduler/internal/audit"
	"github.com/ateliersoft/studio-scheduler/internal/cache"
	"github.com/ateliersoft/studio-scheduler/internal/config"
	"github.com/ateliersoft/studio-scheduler/internal/handlers"
	"github.com/ateliersoft/studio-scheduler/internal/infra/objectstore"
	infraRepo "github.com/ateliersoft/studio-scheduler/internal/infra/repository"
	"github.com/ateliersoft/studio-scheduler/internal/media"
	"github.com/ateliersoft/studio-scheduler/internal/middleware"
	"github.com/ateliersoft/studio-scheduler/internal/payments"
	"github.com/ateliersoft/studio-scheduler/internal/snapshot"
	ucSchedule "github.com/ateliersoft/studio-scheduler/internal/usecase/schedule"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	snapshotRepo := infraRepo.NewSnapshotGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	scheduleCache := cache.NewScheduleCache(cfg)

	store := objectstore.New(cfg)
	mediaProcessor := media.NewProcessor(store)
	snapshotService := snapshot.NewService(snapshotRepo, store)

	gateway, err := payments.NewGateway(cfg.MercadoPagoAccessToken)
	if err != nil {
		log.Printf("payments disabled: %v", err)
	}

	aiClient := ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel)

	// ======================================================
	// USE CASES
	// ======================================================
	createUC := ucSchedule.NewCreateAppointment(scheduleRepo, auditDispatcher)
	updateUC := ucSchedule.NewUpdateAppointment(scheduleRepo, auditDispatcher)
	deleteUC := ucSchedule.NewDeleteAppointment(scheduleRepo, auditDispatcher)
	completeUC := ucSchedule.NewCompleteOccurrence(scheduleRepo, auditDispatcher)
	cancelUC := ucSchedule.NewCancelOccurrence(scheduleRepo, auditDispatcher)

	listDayUC := ucSchedule.NewListScheduleForDate(scheduleRepo, scheduleCache)
	rangeUC := ucSchedule.NewListScheduleForRange(scheduleRepo)
	monthUC := ucSchedule.NewListScheduleForMonth(rangeUC)

	availabilityUC := ucSchedule.NewGetAvailability(scheduleRepo)
	revenueUC := ucSchedule.NewGetRevenueReport(scheduleRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	businessHandler := handlers.NewBusinessHandler(db, mediaProcessor)

	serviceHandler := handlers.NewServiceHandler(db, mediaProcessor)
	clientHandler := handlers.NewClientHandler(db)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db)
	expenseHandler := handlers.NewExpenseHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		createUC,
		updateUC,
		deleteUC,
		completeUC,
		cancelUC,
		listDayUC,
		rangeUC,
		monthUC,
		scheduleCache,
	)

	reportHandler := handlers.NewReportHandler(revenueUC, rangeUC)
	snapshotHandler := handlers.NewSnapshotHandler(snapshotService)
	paymentHandler := handlers.NewPaymentHandler(db, gateway)
	aiHandler := handlers.NewAIHandler(db, aiClient, listDayUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, createUC, availabilityUC, scheduleCache)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/bookings", publicHandler.CreateBooking)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/me/business", businessHandler.GetMyBusiness)
			secured.PATCH("/me/business", businessHandler.UpdateMyBusiness)
			secured.POST("/me/business/logo", businessHandler.UploadLogo)

			secured.GET("/me/clients", clientHandler.List)
			secured.POST("/me/clients", clientHandler.Create)
			secured.PATCH("/me/clients/:id", clientHandler.Update)
			secured.DELETE("/me/clients/:id", clientHandler.Delete)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)
			secured.DELETE("/me/services/:id", serviceHandler.Deactivate)
			secured.POST("/me/services/:id/image", serviceHandler.UploadImage)

			secured.GET("/me/working-hours", workingHoursHandler.Get)
			secured.PUT("/me/working-hours", workingHoursHandler.Update)

			// ------------------------------
			// SCHEDULE
			// ------------------------------
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.PATCH("/me/appointments/:id", appointmentHandler.Update)
			secured.DELETE("/me/appointments/:id", appointmentHandler.Delete)
			secured.GET("/me/schedule", appointmentHandler.ScheduleForDate)
			secured.GET("/me/schedule/range", appointmentHandler.ScheduleForRange)
			secured.GET("/me/schedule/month", appointmentHandler.ScheduleForMonth)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)
			secured.POST("/me/appointments/:id/payment-link", paymentHandler.CreateDepositLink)

			secured.GET("/me/expenses", expenseHandler.List)
			secured.POST("/me/expenses", expenseHandler.Create)
			secured.PATCH("/me/expenses/:id", expenseHandler.Update)
			secured.DELETE("/me/expenses/:id", expenseHandler.Delete)

			secured.GET("/me/reports/revenue", reportHandler.Revenue)
			secured.GET("/me/reports/revenue.csv", reportHandler.RevenueCSV)
			secured.GET("/me/reports/schedule.csv", reportHandler.ScheduleCSV)

			secured.POST("/me/snapshots", snapshotHandler.Create)
			secured.GET("/me/snapshots", snapshotHandler.List)
			secured.GET("/me/snapshots/:key", snapshotHandler.Download)

			secured.GET("/me/briefing", aiHandler.DailyBriefing)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
