package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	materialController "github.com/raffayuda/lesson-app/internals/features/school/materials/controller"
	"github.com/raffayuda/lesson-app/internals/helpers/oss"
	authMiddleware "github.com/raffayuda/lesson-app/internals/middlewares/auth"
)

func MaterialRoutes(api fiber.Router, db *gorm.DB, ossService *oss.Service) {
	ctrl := materialController.NewMaterialController(db, ossService)

	// section nested di bawah schedule
	schedules := api.Group("/schedules", authMiddleware.AuthMiddleware(db))
	schedules.Get("/:id/sections", ctrl.ListSections)

	schedulesAdmin := api.Group("/schedules", authMiddleware.AuthMiddleware(db), authMiddleware.AdminOnly())
	schedulesAdmin.Post("/:id/sections", ctrl.CreateSection)

	sectionsAdmin := api.Group("/sections", authMiddleware.AuthMiddleware(db), authMiddleware.AdminOnly())
	sectionsAdmin.Put("/:id", ctrl.UpdateSection)
	sectionsAdmin.Delete("/:id", ctrl.DeleteSection)
	sectionsAdmin.Post("/:id/materials", ctrl.CreateMaterial)

	materials := api.Group("/materials", authMiddleware.AuthMiddleware(db))
	materials.Get("/", ctrl.ListMaterials)
	materials.Get("/:id/download", ctrl.Download)

	materialsAdmin := api.Group("/materials", authMiddleware.AuthMiddleware(db), authMiddleware.AdminOnly())
	materialsAdmin.Delete("/:id", ctrl.DeleteMaterial)
}
