package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	scheduleModel "github.com/raffayuda/lesson-app/internals/features/school/schedules/model"
)

// MaterialSectionModel: bab/bagian materi milik satu jadwal, berurutan.
type MaterialSectionModel struct {
	MaterialSectionID uuid.UUID `gorm:"type:uuid;primaryKey;column:material_section_id" json:"material_section_id"`

	MaterialSectionScheduleID uuid.UUID `gorm:"type:uuid;not null;index;column:material_section_schedule_id" json:"material_section_schedule_id"`
	MaterialSectionTitle      string    `gorm:"size:200;not null;column:material_section_title"    json:"material_section_title"`
	MaterialSectionPosition   int       `gorm:"not null;default:0;column:material_section_position" json:"material_section_position"`

	MaterialSectionCreatedAt time.Time `gorm:"column:material_section_created_at;autoCreateTime" json:"material_section_created_at"`
	MaterialSectionUpdatedAt time.Time `gorm:"column:material_section_updated_at;autoUpdateTime" json:"material_section_updated_at"`

	Schedule  *scheduleModel.ScheduleModel `gorm:"foreignKey:MaterialSectionScheduleID;references:ScheduleID;constraint:OnDelete:CASCADE" json:"schedule,omitempty"`
	Materials []MaterialModel              `gorm:"foreignKey:MaterialSectionID;references:MaterialSectionID" json:"materials,omitempty"`
}

func (MaterialSectionModel) TableName() string { return "material_sections" }

func (ms *MaterialSectionModel) BeforeCreate(tx *gorm.DB) error {
	if ms.MaterialSectionID == uuid.Nil {
		ms.MaterialSectionID = uuid.New()
	}
	return nil
}

// MaterialModel: satu file materi (PDF, gambar, audio, dst) di dalam section.
// File fisiknya di OSS; di DB hanya metadata + URL.
type MaterialModel struct {
	MaterialID uuid.UUID `gorm:"type:uuid;primaryKey;column:material_id" json:"material_id"`

	MaterialSectionID uuid.UUID `gorm:"type:uuid;not null;index;column:material_section_id" json:"material_section_id"`

	MaterialTitle    string `gorm:"size:200;not null;column:material_title"     json:"material_title"`
	MaterialFileName string `gorm:"size:255;not null;column:material_file_name" json:"material_file_name"`
	MaterialFileType string `gorm:"size:20;not null;column:material_file_type"  json:"material_file_type"`
	MaterialFileURL  string `gorm:"size:500;not null;column:material_file_url"  json:"material_file_url"`
	MaterialPosition int    `gorm:"not null;default:0;column:material_position" json:"material_position"`

	MaterialCreatedAt time.Time `gorm:"column:material_created_at;autoCreateTime" json:"material_created_at"`
	MaterialUpdatedAt time.Time `gorm:"column:material_updated_at;autoUpdateTime" json:"material_updated_at"`

	Section *MaterialSectionModel `gorm:"foreignKey:MaterialSectionID;references:MaterialSectionID;constraint:OnDelete:CASCADE" json:"section,omitempty"`
}

func (MaterialModel) TableName() string { return "materials" }

func (m *MaterialModel) BeforeCreate(tx *gorm.DB) error {
	if m.MaterialID == uuid.Nil {
		m.MaterialID = uuid.New()
	}
	return nil
}
