package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	statsController "github.com/raffayuda/lesson-app/internals/features/school/stats/controller"
	authMiddleware "github.com/raffayuda/lesson-app/internals/middlewares/auth"
)

func StatsRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := statsController.NewStatsController(db)

	stats := api.Group("/stats", authMiddleware.AuthMiddleware(db), authMiddleware.AdminOnly())
	stats.Get("/today", ctrl.Today)
}
