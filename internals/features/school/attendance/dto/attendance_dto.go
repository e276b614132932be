package dto

import "github.com/google/uuid"

type ManualAttendanceRequest struct {
	ScheduleID uuid.UUID `json:"schedule_id" validate:"required"`
	StudentID  uuid.UUID `json:"student_id"  validate:"required"`
	Status     string    `json:"status"      validate:"required,oneof=PRESENT SICK PERMISSION ABSENT"`
	Notes      *string   `json:"notes"       validate:"omitempty,max=500"`
	// "2006-01-02"; kosong = hari ini
	Date *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type QRAttendanceRequest struct {
	QRCode string `json:"qr_code" validate:"required"`
}

type UpdateAttendanceRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=PRESENT SICK PERMISSION ABSENT"`
	Notes  *string `json:"notes"  validate:"omitempty,max=500"`
}
