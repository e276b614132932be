package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/raffayuda/lesson-app/internals/bot"
	appcache "github.com/raffayuda/lesson-app/internals/cache"
	"github.com/raffayuda/lesson-app/internals/configs"
	database "github.com/raffayuda/lesson-app/internals/databases"
	paymentModel "github.com/raffayuda/lesson-app/internals/features/finance/payments/model"
	paymentService "github.com/raffayuda/lesson-app/internals/features/finance/payments/service"
	attendanceModel "github.com/raffayuda/lesson-app/internals/features/school/attendance/model"
	materialModel "github.com/raffayuda/lesson-app/internals/features/school/materials/model"
	scheduleModel "github.com/raffayuda/lesson-app/internals/features/school/schedules/model"
	studentModel "github.com/raffayuda/lesson-app/internals/features/school/students/model"
	userModel "github.com/raffayuda/lesson-app/internals/features/users/user/model"
	"github.com/raffayuda/lesson-app/internals/helpers/oss"
	middlewares "github.com/raffayuda/lesson-app/internals/middlewares"
	routes "github.com/raffayuda/lesson-app/internals/route"
	"github.com/raffayuda/lesson-app/internals/seeds"
)

// Semua error *fiber.Error (termasuk dari middleware auth) keluar sebagai
// {"error": pesan} — kontrak yang sama dengan handler di controller.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	} else {
		log.Println("[ERROR] unhandled:", err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ErrorHandler:            customErrorHandler,
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		dur := time.Since(start)
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), dur)
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	if err := database.DB.AutoMigrate(
		&userModel.UserModel{},
		&studentModel.StudentModel{},
		&scheduleModel.ScheduleModel{},
		&scheduleModel.ScheduleStudentModel{},
		&attendanceModel.AttendanceModel{},
		&materialModel.MaterialSectionModel{},
		&materialModel.MaterialModel{},
		&paymentModel.PaymentModel{},
		&paymentModel.PaymentGatewayEventModel{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate gagal: %v", err)
	}

	seeds.Run(database.DB)

	// ☁️ OSS (opsional)
	ossService, err := oss.NewFromEnv()
	if err != nil {
		log.Println("⚠️ OSS nonaktif:", err)
	}

	// 🤖 Telegram notifier (opsional)
	var notifier *bot.Notifier
	if configs.TelegramBotToken != "" && configs.TelegramChatID != 0 {
		notifier = bot.NewNotifier(configs.TelegramBotToken, configs.TelegramChatID)
		notifier.Start()
	} else {
		log.Println("⚠️ Telegram notifier nonaktif (token/chat id kosong)")
	}

	// ✅ MIDTRANS
	if configs.MidtransServerKey != "" {
		paymentService.InitMidtrans(configs.MidtransServerKey, configs.GetEnvBool("MIDTRANS_PRODUCTION", false))
	} else {
		log.Println("⚠️ Midtrans nonaktif (server key kosong)")
	}

	store := appcache.New(time.Duration(configs.GetEnvInt("CACHE_TTL_SECONDS", 60)) * time.Second)

	// ✅ Routes
	routes.SetupRoutes(app, database.DB, routes.Deps{
		Cache:    store,
		OSS:      ossService,
		Notifier: notifier,
	})

	// 🔒 timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: server dulu, lalu notifier, lalu pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if notifier != nil {
		notifier.Stop()
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
