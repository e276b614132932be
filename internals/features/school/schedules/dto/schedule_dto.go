package dto

import "github.com/google/uuid"

// CreateScheduleRequest: jadwal berulang (day terisi) ATAU one-off
// (specific_date "YYYY-MM-DD" terisi) — salah satu wajib.
type CreateScheduleRequest struct {
	Subject      string      `json:"subject"       validate:"required"`
	Class        string      `json:"class"         validate:"required"`
	Day          string      `json:"day"           validate:"omitempty"`
	SpecificDate string      `json:"specific_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime    string      `json:"start_time"    validate:"required,datetime=15:04"`
	EndTime      string      `json:"end_time"      validate:"required,datetime=15:04"`
	TeacherName  string      `json:"teacher_name"  validate:"required"`
	Room         string      `json:"room"          validate:"required"`
	StudentIDs   []uuid.UUID `json:"student_ids"`
}

// UpdateScheduleRequest: partial merge. StudentIDs nil = roster tidak disentuh;
// [] = roster dikosongkan.
type UpdateScheduleRequest struct {
	Subject      string       `json:"subject"`
	Class        string       `json:"class"`
	Day          string       `json:"day"`
	SpecificDate string       `json:"specific_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime    string       `json:"start_time"    validate:"omitempty,datetime=15:04"`
	EndTime      string       `json:"end_time"      validate:"omitempty,datetime=15:04"`
	TeacherName  string       `json:"teacher_name"`
	Room         string       `json:"room"`
	StudentIDs   *[]uuid.UUID `json:"student_ids"`
}

type AssignStudentsRequest struct {
	StudentIDs []uuid.UUID `json:"student_ids" validate:"required"`
}
