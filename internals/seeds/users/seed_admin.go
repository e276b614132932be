package users

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/raffayuda/lesson-app/internals/configs"
	"github.com/raffayuda/lesson-app/internals/constants"
	authService "github.com/raffayuda/lesson-app/internals/features/users/auth/service"
	"github.com/raffayuda/lesson-app/internals/features/users/user/model"
)

// SeedAdminUser memastikan minimal ada satu akun ADMIN.
// Idempotent: kalau email sudah terdaftar, tidak diubah.
func SeedAdminUser(db *gorm.DB) {
	email := configs.GetEnv("ADMIN_EMAIL", "admin@attendance.com")
	password := configs.GetEnv("ADMIN_PASSWORD", "admin123")

	var existing model.UserModel
	err := db.First(&existing, "user_email = ?", email).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("❌ Gagal cek admin user:", err)
		return
	}

	hashed, err := authService.HashPassword(password)
	if err != nil {
		log.Println("❌ Gagal hash password admin:", err)
		return
	}

	admin := model.UserModel{
		UserEmail:    email,
		UserPassword: hashed,
		UserName:     "Admin User",
		UserRole:     constants.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Println("❌ Gagal membuat admin user:", err)
		return
	}

	log.Println("✅ Admin user created:", email)
}
