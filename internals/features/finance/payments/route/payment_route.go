package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/raffayuda/lesson-app/internals/bot"
	paymentController "github.com/raffayuda/lesson-app/internals/features/finance/payments/controller"
	"github.com/raffayuda/lesson-app/internals/helpers/oss"
	authMiddleware "github.com/raffayuda/lesson-app/internals/middlewares/auth"
)

func PaymentRoutes(api fiber.Router, db *gorm.DB, ossService *oss.Service, notifier *bot.Notifier) {
	ctrl := paymentController.NewPaymentController(db, ossService, notifier)

	// webhook Midtrans: tanpa auth, diverifikasi lewat signature
	api.Post("/payments/notification", ctrl.Notification)

	payments := api.Group("/payments", authMiddleware.AuthMiddleware(db))
	payments.Get("/", ctrl.List)
	payments.Post("/", ctrl.Create)
	payments.Get("/:id/proof", ctrl.GetProof)
	payments.Post("/:id/checkout", ctrl.Checkout)

	admin := api.Group("/payments", authMiddleware.AuthMiddleware(db), authMiddleware.AdminOnly())
	admin.Put("/:id/approve", ctrl.Approve)
	admin.Put("/:id/reject", ctrl.Reject)
	admin.Delete("/:id", ctrl.Delete)
}
