package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	appcache "github.com/raffayuda/lesson-app/internals/cache"
	scheduleController "github.com/raffayuda/lesson-app/internals/features/school/schedules/controller"
	authMiddleware "github.com/raffayuda/lesson-app/internals/middlewares/auth"
)

func ScheduleRoutes(api fiber.Router, db *gorm.DB, store *appcache.Store) {
	ctrl := scheduleController.NewScheduleController(db, store)

	schedules := api.Group("/schedules", authMiddleware.AuthMiddleware(db))
	schedules.Get("/", ctrl.List)
	schedules.Get("/today", ctrl.Today)
	schedules.Get("/:id", ctrl.GetByID)
	schedules.Get("/:id/students", ctrl.GetStudents)
	schedules.Get("/:id/qr", ctrl.QRCodePNG)

	admin := api.Group("/schedules", authMiddleware.AuthMiddleware(db), authMiddleware.AdminOnly())
	admin.Post("/", ctrl.Create)
	admin.Put("/:id", ctrl.Update)
	admin.Delete("/:id", ctrl.Delete)
	admin.Post("/:id/students", ctrl.AssignStudents)
}
