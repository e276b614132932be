package seeds

import (
	"gorm.io/gorm"

	userSeed "github.com/raffayuda/lesson-app/internals/seeds/users"
)

// Run dipanggil setelah AutoMigrate; semua seeder idempotent.
func Run(db *gorm.DB) {
	userSeed.SeedAdminUser(db)
}
