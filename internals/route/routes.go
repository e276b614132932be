// file: internals/route/routes.go
package routes

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/raffayuda/lesson-app/internals/bot"
	appcache "github.com/raffayuda/lesson-app/internals/cache"
	databases "github.com/raffayuda/lesson-app/internals/databases"
	paymentRoute "github.com/raffayuda/lesson-app/internals/features/finance/payments/route"
	attendanceRoute "github.com/raffayuda/lesson-app/internals/features/school/attendance/route"
	materialRoute "github.com/raffayuda/lesson-app/internals/features/school/materials/route"
	scheduleRoute "github.com/raffayuda/lesson-app/internals/features/school/schedules/route"
	statsRoute "github.com/raffayuda/lesson-app/internals/features/school/stats/route"
	studentRoute "github.com/raffayuda/lesson-app/internals/features/school/students/route"
	authRoute "github.com/raffayuda/lesson-app/internals/features/users/auth/route"
	"github.com/raffayuda/lesson-app/internals/helpers/oss"
)

var startTime time.Time

// Deps: kolaborator eksternal hasil bootstrap, di-inject ke tiap feature.
// OSS dan Notifier boleh nil (fitur terkait degradasi dengan anggun).
type Deps struct {
	Cache    *appcache.Store
	OSS      *oss.Service
	Notifier *bot.Notifier
}

func SetupRoutes(app *fiber.App, db *gorm.DB, deps Deps) {
	startTime = time.Now()

	baseRoutes(app)

	api := app.Group("/api")

	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "lesson-app API",
			"status":  "running",
		})
	})

	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(api, db)

	log.Println("[INFO] Setting up StudentRoutes...")
	studentRoute.StudentRoutes(api, db, deps.Cache)

	log.Println("[INFO] Setting up ScheduleRoutes...")
	scheduleRoute.ScheduleRoutes(api, db, deps.Cache)

	log.Println("[INFO] Setting up AttendanceRoutes...")
	attendanceRoute.AttendanceRoutes(api, db)

	log.Println("[INFO] Setting up StatsRoutes...")
	statsRoute.StatsRoutes(api, db)

	log.Println("[INFO] Setting up MaterialRoutes...")
	materialRoute.MaterialRoutes(api, db, deps.OSS)

	log.Println("[INFO] Setting up PaymentRoutes...")
	paymentRoute.PaymentRoutes(api, db, deps.OSS, deps.Notifier)
}

func baseRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Fiber & PostgreSQL connected successfully 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := databases.DB.DB()
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		uptime := time.Since(startTime).Seconds()

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(uptime),
			"environment":    os.Getenv("RAILWAY_ENVIRONMENT"),
		})
	})
}
