package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	scheduleModel "github.com/raffayuda/lesson-app/internals/features/school/schedules/model"
	studentModel "github.com/raffayuda/lesson-app/internals/features/school/students/model"
	userModel "github.com/raffayuda/lesson-app/internals/features/users/user/model"
)

// AttendanceModel: satu record kehadiran per (schedule, student, tanggal).
//
// AttendanceDate adalah occurrence date-time slot jadwal (tanggal target +
// jam mulai jadwal) — INI yang dipakai untuk dedup harian dan statistik.
// AttendanceCheckedInAt adalah wall-clock saat record ditulis.
type AttendanceModel struct {
	AttendanceID uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_id" json:"attendance_id"`

	AttendanceScheduleID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_attendance_occurrence;column:attendance_schedule_id" json:"attendance_schedule_id"`
	AttendanceStudentID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_attendance_occurrence;column:attendance_student_id"  json:"attendance_student_id"`

	// PRESENT | SICK | PERMISSION | ABSENT
	AttendanceStatus string `gorm:"size:20;not null;column:attendance_status" json:"attendance_status"`
	// QR | MANUAL
	AttendanceMethod string  `gorm:"size:10;not null;column:attendance_method" json:"attendance_method"`
	AttendanceNotes  *string `gorm:"size:500;column:attendance_notes"          json:"attendance_notes,omitempty"`

	AttendanceDate        time.Time `gorm:"not null;uniqueIndex:uq_attendance_occurrence;index;column:attendance_date" json:"attendance_date"`
	AttendanceCheckedInAt time.Time `gorm:"not null;column:attendance_checked_in_at" json:"attendance_checked_in_at"`

	AttendanceMarkedByID *uuid.UUID `gorm:"type:uuid;column:attendance_marked_by_id" json:"attendance_marked_by_id,omitempty"`

	AttendanceCreatedAt time.Time `gorm:"column:attendance_created_at;autoCreateTime" json:"attendance_created_at"`
	AttendanceUpdatedAt time.Time `gorm:"column:attendance_updated_at;autoUpdateTime" json:"attendance_updated_at"`

	Schedule *scheduleModel.ScheduleModel `gorm:"foreignKey:AttendanceScheduleID;references:ScheduleID;constraint:OnDelete:CASCADE" json:"schedule,omitempty"`
	Student  *studentModel.StudentModel   `gorm:"foreignKey:AttendanceStudentID;references:StudentID;constraint:OnDelete:CASCADE"   json:"student,omitempty"`
	MarkedBy *userModel.UserModel         `gorm:"foreignKey:AttendanceMarkedByID;references:UserID;constraint:OnDelete:SET NULL"    json:"marked_by,omitempty"`
}

func (AttendanceModel) TableName() string { return "attendances" }

func (a *AttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if a.AttendanceID == uuid.Nil {
		a.AttendanceID = uuid.New()
	}
	return nil
}
