package app

import (
	"database/sql"
	"os"
	"path/filepath"

	"go-timetrack/internal/activitylog"
	"go-timetrack/internal/auth"
	"go-timetrack/internal/billing"
	"go-timetrack/internal/client"
	"go-timetrack/internal/company"
	"go-timetrack/internal/emailsuppression"
	"go-timetrack/internal/invoice"
	"go-timetrack/internal/messaging/kafka"
	"go-timetrack/internal/project"
	"go-timetrack/internal/rbac"
	"go-timetrack/internal/rbac/infra"
	"go-timetrack/internal/shared/counter"
	"go-timetrack/internal/timeentry"
	"go-timetrack/internal/timesheet"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	activityLogRepo := activitylog.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	billingRepo := billing.NewRepository(gormDB)
	clientRepo := client.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	emailSuppressionRepo := emailsuppression.NewRepository(gormDB)
	invoiceRepo := invoice.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	projectRepo := project.NewRepository(gormDB)
	timeEntryRepo := timeentry.NewRepository(gormDB)
	timesheetRepo := timesheet.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	activityLogService := activitylog.NewService(activityLogRepo)
	authService := auth.NewService(authRepo, companyRepo, rbacService, rdb)
	billingService := billing.NewService(db, billingRepo, companyRepo, outboxRepo)
	clientService := client.NewService(clientRepo)
	companyService := company.NewService(companyRepo)
	emailSuppressionService := emailsuppression.NewService(emailSuppressionRepo)
	invoiceService := invoice.NewService(db, invoiceRepo, timeEntryRepo, timesheetRepo, clientRepo, projectRepo, counterRepo)
	projectService := project.NewService(projectRepo, clientRepo, rdb)
	timeEntryService := timeentry.NewService(db, timeEntryRepo, projectRepo, outboxRepo)
	timesheetService := timesheet.NewService(db, timesheetRepo, timeEntryRepo, outboxRepo)

	// --- Handlers ---
	activityLogHandler := activitylog.NewHandler(activityLogService)
	authHandler := auth.NewHandler(authService)
	billingHandler := billing.NewHandler(billingService, os.Getenv("STRIPE_WEBHOOK_SECRET"))
	clientHandler := client.NewHandler(clientService)
	companyHandler := company.NewHandler(companyService)
	emailSuppressionHandler := emailsuppression.NewHandler(emailSuppressionService)
	invoiceHandler := invoice.NewHandlerWithRedis(invoiceService, rdb)
	projectHandler := project.NewHandler(projectService)
	timeEntryHandler := timeentry.NewHandler(timeEntryService)
	timesheetHandler := timesheet.NewHandler(timesheetService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		activitylog.RegisterRoutes(api, activityLogHandler, rbacService)
		auth.RegisterRoutes(api, authHandler)
		client.RegisterRoutes(api, clientHandler, rbacService)
		company.RegisterRoutes(api, companyHandler, rbacService)
		invoice.RegisterRoutes(api, invoiceHandler, rbacService, rdb)
		project.RegisterRoutes(api, projectHandler, rbacService)
		timeentry.RegisterRoutes(api, timeEntryHandler, rbacService)
		timesheet.RegisterRoutes(api, timesheetHandler, rbacService)
	}

	// Webhook, bounce, and refresh paths are pinned by external callers and
	// shipped clients, so they live at the root rather than under /api/v1.
	root := &router.RouterGroup
	auth.RegisterTokenRoutes(root, authHandler)
	billing.RegisterRoutes(root, billingHandler)
	emailsuppression.RegisterRoutes(root, emailSuppressionHandler)

	return nil
}
