package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`

	UserEmail    string `gorm:"size:255;not null;uniqueIndex;column:user_email" json:"user_email"`
	UserPassword string `gorm:"size:255;not null;column:user_password"          json:"-"`
	UserName     string `gorm:"size:100;not null;column:user_name"              json:"user_name"`

	// ADMIN | STUDENT
	UserRole string `gorm:"size:20;not null;default:STUDENT;column:user_role" json:"user_role"`

	UserResetToken       *string    `gorm:"size:64;index;column:user_reset_token" json:"-"`
	UserResetTokenExpiry *time.Time `gorm:"column:user_reset_token_expiry"        json:"-"`

	UserCreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}

func (u *UserModel) IsAdmin() bool { return u.UserRole == "ADMIN" }
