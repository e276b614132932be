package service

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raffayuda/lesson-app/internals/constants"
	"github.com/raffayuda/lesson-app/internals/features/school/attendance/model"
	scheduleModel "github.com/raffayuda/lesson-app/internals/features/school/schedules/model"
	helper "github.com/raffayuda/lesson-app/internals/helpers"
	"github.com/raffayuda/lesson-app/internals/helpers/dbtime"
)

// CheckinService memegang invariant inti: maksimal SATU record kehadiran per
// (schedule, student, tanggal kalender). Dua jalur masuk — manual (admin) dan
// scan QR (siswa) — konvergen ke pengecekan day-window yang sama.
//
// Tanggal kanonis untuk dedup & statistik adalah attendance_date (occurrence
// slot jadwal), BUKAN waktu record ditulis. Pengecekan tetap read-then-write
// di dalam satu transaksi; scan ganda yang benar-benar bersamaan ditahan
// unique index (schedule, student, attendance_date) dan dipetakan ke 409.
type CheckinService struct {
	DB *gorm.DB
}

func NewCheckinService(db *gorm.DB) *CheckinService {
	return &CheckinService{DB: db}
}

type ManualMarkInput struct {
	ScheduleID uuid.UUID
	StudentID  uuid.UUID
	Status     string
	Notes      *string
	// Tanggal target; nil = hari ini
	Date       *time.Time
	MarkedByID uuid.UUID
}

// MarkManual: admin menandai kehadiran. Kalau sudah ada record di window
// harinya → overwrite (status, notes, pencatat, occurrence); kalau belum →
// insert baru method MANUAL. Return kedua: true bila record baru dibuat.
func (s *CheckinService) MarkManual(in ManualMarkInput) (*model.AttendanceModel, bool, error) {
	if !constants.IsValidAttendanceStatus(in.Status) {
		return nil, false, fiber.NewError(fiber.StatusBadRequest, "Invalid attendance status")
	}

	var schedule scheduleModel.ScheduleModel
	if err := s.DB.First(&schedule, "schedule_id = ?", in.ScheduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fiber.NewError(fiber.StatusNotFound, "Schedule not found")
		}
		return nil, false, err
	}

	targetDate := time.Now()
	if in.Date != nil {
		targetDate = *in.Date
	}

	occurrence, err := dbtime.CombineDateTime(targetDate, schedule.ScheduleStartTime)
	if err != nil {
		return nil, false, fiber.NewError(fiber.StatusInternalServerError, "Schedule has invalid start time")
	}
	windowStart, windowEnd := dbtime.DayWindow(targetDate)

	var attendance model.AttendanceModel
	created := false

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.AttendanceModel
		err := tx.
			Where("attendance_schedule_id = ? AND attendance_student_id = ?", in.ScheduleID, in.StudentID).
			Where("attendance_date >= ? AND attendance_date < ?", windowStart, windowEnd).
			First(&existing).Error

		switch {
		case err == nil:
			// overwrite record yang sudah ada, jangan bikin duplikat
			updates := map[string]interface{}{
				"attendance_status":       in.Status,
				"attendance_notes":        in.Notes,
				"attendance_marked_by_id": in.MarkedByID,
				"attendance_date":         occurrence,
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
			attendance = existing
			attendance.AttendanceStatus = in.Status
			attendance.AttendanceNotes = in.Notes
			attendance.AttendanceMarkedByID = &in.MarkedByID
			attendance.AttendanceDate = occurrence
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			attendance = model.AttendanceModel{
				AttendanceScheduleID:  in.ScheduleID,
				AttendanceStudentID:   in.StudentID,
				AttendanceStatus:      in.Status,
				AttendanceMethod:      constants.MethodManual,
				AttendanceNotes:       in.Notes,
				AttendanceDate:        occurrence,
				AttendanceCheckedInAt: time.Now(),
				AttendanceMarkedByID:  &in.MarkedByID,
			}
			if err := tx.Create(&attendance).Error; err != nil {
				return err
			}
			created = true
			return nil

		default:
			return err
		}
	})
	if txErr != nil {
		if helper.IsUniqueViolation(txErr) {
			return nil, false, fiber.NewError(fiber.StatusConflict, "Attendance already marked for this date")
		}
		return nil, false, txErr
	}

	return &attendance, created, nil
}

type QRMarkInput struct {
	QRCode string
	// siswa yang login
	StudentID uuid.UUID
	UserID    uuid.UUID
}

// MarkByQR: check-in mandiri siswa via scan code.
// Urutan penolakan: kode tidak dikenal (404) → belum terdaftar di jadwal (403)
// → tanggal/hari tidak cocok (400) → sudah absen hari ini (409).
func (s *CheckinService) MarkByQR(in QRMarkInput) (*model.AttendanceModel, error) {
	var schedule scheduleModel.ScheduleModel
	if err := s.DB.First(&schedule, "schedule_qr_code = ?", in.QRCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Invalid QR code")
		}
		return nil, err
	}

	// scan code bersifat schedule-scoped: punya kode jadwal lain tidak berarti
	// boleh check-in di sini
	var assignment scheduleModel.ScheduleStudentModel
	err := s.DB.
		Where("schedule_student_schedule_id = ? AND schedule_student_student_id = ?",
			schedule.ScheduleID, in.StudentID).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusForbidden, "You are not enrolled in this schedule")
		}
		return nil, err
	}

	now := time.Now()

	// Tentukan tanggal berlaku: one-off harus tepat di tanggal spesifiknya,
	// jadwal berulang harus cocok nama harinya.
	if schedule.IsOneOff() {
		if !dbtime.SameDate(now, *schedule.ScheduleSpecificDate) {
			return nil, fiber.NewError(fiber.StatusBadRequest,
				"This schedule is not held today")
		}
	} else if dbtime.DayName(now) != schedule.ScheduleDay {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			"This schedule is not held today")
	}

	occurrence, err := dbtime.CombineDateTime(now, schedule.ScheduleStartTime)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Schedule has invalid start time")
	}
	windowStart, windowEnd := dbtime.DayWindow(now)

	var attendance model.AttendanceModel

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.AttendanceModel
		err := tx.
			Where("attendance_schedule_id = ? AND attendance_student_id = ?",
				schedule.ScheduleID, in.StudentID).
			Where("attendance_date >= ? AND attendance_date < ?", windowStart, windowEnd).
			First(&existing).Error
		if err == nil {
			return fiber.NewError(fiber.StatusConflict,
				"You have already marked attendance for this schedule today")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		attendance = model.AttendanceModel{
			AttendanceScheduleID:  schedule.ScheduleID,
			AttendanceStudentID:   in.StudentID,
			AttendanceStatus:      constants.AttendancePresent,
			AttendanceMethod:      constants.MethodQR,
			AttendanceDate:        occurrence,
			AttendanceCheckedInAt: now,
			AttendanceMarkedByID:  &in.UserID,
		}
		return tx.Create(&attendance).Error
	})
	if txErr != nil {
		if helper.IsUniqueViolation(txErr) {
			return nil, fiber.NewError(fiber.StatusConflict,
				"You have already marked attendance for this schedule today")
		}
		return nil, txErr
	}

	return &attendance, nil
}
