package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceController "github.com/raffayuda/lesson-app/internals/features/school/attendance/controller"
	authMiddleware "github.com/raffayuda/lesson-app/internals/middlewares/auth"
)

func AttendanceRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := attendanceController.NewAttendanceController(db)

	attendance := api.Group("/attendance", authMiddleware.AuthMiddleware(db))
	attendance.Get("/", ctrl.List)
	// scan QR oleh siswa yang login
	attendance.Post("/qr", ctrl.MarkByQR)

	admin := api.Group("/attendance", authMiddleware.AuthMiddleware(db), authMiddleware.AdminOnly())
	admin.Post("/manual", ctrl.MarkManual)
	admin.Put("/:id", ctrl.Update)
}
