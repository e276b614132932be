package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	studentModel "github.com/raffayuda/lesson-app/internals/features/school/students/model"
)

// ScheduleModel: satu slot kelas/pelajaran.
//   - Berulang mingguan: ScheduleDay terisi nama hari, ScheduleSpecificDate nil.
//   - Sekali jalan (one-off): ScheduleSpecificDate terisi, ScheduleDay diabaikan.
type ScheduleModel struct {
	ScheduleID uuid.UUID `gorm:"type:uuid;primaryKey;column:schedule_id" json:"schedule_id"`

	ScheduleSubject string `gorm:"size:100;not null;column:schedule_subject" json:"schedule_subject"`
	ScheduleClass   string `gorm:"size:50;not null;column:schedule_class"    json:"schedule_class"`

	ScheduleDay          string     `gorm:"size:10;column:schedule_day;index"   json:"schedule_day"`
	ScheduleSpecificDate *time.Time `gorm:"type:date;column:schedule_specific_date" json:"schedule_specific_date,omitempty"`

	ScheduleStartTime   string `gorm:"size:5;not null;column:schedule_start_time" json:"schedule_start_time"` // "HH:MM"
	ScheduleEndTime     string `gorm:"size:5;not null;column:schedule_end_time"   json:"schedule_end_time"`
	ScheduleTeacherName string `gorm:"size:100;not null;column:schedule_teacher_name" json:"schedule_teacher_name"`
	ScheduleRoom        string `gorm:"size:50;not null;column:schedule_room"      json:"schedule_room"`

	// kode scan rahasia per-jadwal (di-render sebagai QR untuk check-in mandiri)
	ScheduleQRCode string `gorm:"size:32;not null;uniqueIndex;column:schedule_qr_code" json:"schedule_qr_code"`

	ScheduleCreatedAt time.Time `gorm:"column:schedule_created_at;autoCreateTime" json:"schedule_created_at"`
	ScheduleUpdatedAt time.Time `gorm:"column:schedule_updated_at;autoUpdateTime" json:"schedule_updated_at"`
}

func (ScheduleModel) TableName() string { return "schedules" }

func (s *ScheduleModel) BeforeCreate(tx *gorm.DB) error {
	if s.ScheduleID == uuid.Nil {
		s.ScheduleID = uuid.New()
	}
	return nil
}

// IsOneOff: jadwal terikat satu tanggal spesifik.
func (s *ScheduleModel) IsOneOff() bool { return s.ScheduleSpecificDate != nil }

// ScheduleStudentModel: relasi many-to-many jadwal ↔ siswa (roster).
type ScheduleStudentModel struct {
	ScheduleStudentID uuid.UUID `gorm:"type:uuid;primaryKey;column:schedule_student_id" json:"schedule_student_id"`

	ScheduleStudentScheduleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_schedule_student;column:schedule_student_schedule_id" json:"schedule_student_schedule_id"`
	ScheduleStudentStudentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_schedule_student;column:schedule_student_student_id"  json:"schedule_student_student_id"`

	ScheduleStudentCreatedAt time.Time `gorm:"column:schedule_student_created_at;autoCreateTime" json:"schedule_student_created_at"`

	Schedule *ScheduleModel             `gorm:"foreignKey:ScheduleStudentScheduleID;references:ScheduleID;constraint:OnDelete:CASCADE" json:"schedule,omitempty"`
	Student  *studentModel.StudentModel `gorm:"foreignKey:ScheduleStudentStudentID;references:StudentID;constraint:OnDelete:CASCADE"  json:"student,omitempty"`
}

func (ScheduleStudentModel) TableName() string { return "schedule_students" }

func (ss *ScheduleStudentModel) BeforeCreate(tx *gorm.DB) error {
	if ss.ScheduleStudentID == uuid.Nil {
		ss.ScheduleStudentID = uuid.New()
	}
	return nil
}
