package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "github.com/raffayuda/lesson-app/internals/features/users/auth/controller"
	"github.com/raffayuda/lesson-app/internals/middlewares"
	authMiddleware "github.com/raffayuda/lesson-app/internals/middlewares/auth"
)

// AuthRoutes mendaftarkan rute autentikasi.
// Login & forgot-password publik (dengan rate limiter ketat), sisanya butuh token.
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	auth := api.Group("/auth")
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	auth.Post("/google", middlewares.LoginRateLimiter(), ctrl.LoginGoogle)
	auth.Post("/forgot-password", middlewares.ForgotPasswordRateLimiter(), ctrl.ForgotPassword)
	auth.Post("/reset-password", ctrl.ResetPassword)

	protected := api.Group("/auth", authMiddleware.AuthMiddleware(db))
	protected.Get("/me", ctrl.Me)
	protected.Put("/profile", ctrl.UpdateProfile)
}
