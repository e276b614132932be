package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	appcache "github.com/raffayuda/lesson-app/internals/cache"
	studentController "github.com/raffayuda/lesson-app/internals/features/school/students/controller"
	authMiddleware "github.com/raffayuda/lesson-app/internals/middlewares/auth"
)

// StudentRoutes: list/create/update/delete khusus admin; detail boleh semua
// user login (dipakai siswa melihat profilnya sendiri).
func StudentRoutes(api fiber.Router, db *gorm.DB, store *appcache.Store) {
	ctrl := studentController.NewStudentController(db, store)

	students := api.Group("/students", authMiddleware.AuthMiddleware(db))
	students.Get("/:id", ctrl.GetByID)
	students.Get("/:id/schedules", ctrl.GetSchedules)

	admin := api.Group("/students", authMiddleware.AuthMiddleware(db), authMiddleware.AdminOnly())
	admin.Get("/", ctrl.List)
	admin.Post("/", ctrl.Create)
	admin.Put("/:id", ctrl.Update)
	admin.Delete("/:id", ctrl.Delete)
}
