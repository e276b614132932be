// file: internals/helpers/auth/current_user.go
package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	studentModel "github.com/raffayuda/lesson-app/internals/features/school/students/model"
	userModel "github.com/raffayuda/lesson-app/internals/features/users/user/model"
)

// CurrentUser mengambil user yang sudah di-attach AuthMiddleware.
func CurrentUser(c *fiber.Ctx) (*userModel.UserModel, error) {
	user, ok := c.Locals("user").(*userModel.UserModel)
	if !ok || user == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authentication required")
	}
	return user, nil
}

// CurrentStudent me-resolve profil Student milik user login.
// 404 kalau user bukan siswa (tidak punya profil).
func CurrentStudent(db *gorm.DB, c *fiber.Ctx) (*studentModel.StudentModel, error) {
	user, err := CurrentUser(c)
	if err != nil {
		return nil, err
	}

	var student studentModel.StudentModel
	if err := db.First(&student, "student_user_id = ?", user.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Student profile not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
	}
	return &student, nil
}
