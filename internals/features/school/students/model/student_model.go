package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "github.com/raffayuda/lesson-app/internals/features/users/user/model"
)

// StudentModel: profil siswa, one-to-one dengan UserModel (role STUDENT).
// Hapus user → student ikut terhapus (FK cascade); hapus student dilakukan
// lewat hapus user pemiliknya (lihat controller).
type StudentModel struct {
	StudentID uuid.UUID `gorm:"type:uuid;primaryKey;column:student_id" json:"student_id"`

	StudentUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:student_user_id" json:"student_user_id"`

	// NIS / nomor induk — unik, dipakai juga untuk derivasi password default
	StudentNIS   string `gorm:"size:50;not null;uniqueIndex;column:student_nis"  json:"student_nis"`
	StudentClass string `gorm:"size:50;not null;column:student_class"            json:"student_class"`

	// kode scan per-siswa (paritas dengan kartu siswa lama)
	StudentQRCode string `gorm:"size:32;not null;column:student_qr_code" json:"student_qr_code"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`

	User *userModel.UserModel `gorm:"foreignKey:StudentUserID;references:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (StudentModel) TableName() string { return "students" }

func (s *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if s.StudentID == uuid.Nil {
		s.StudentID = uuid.New()
	}
	return nil
}
