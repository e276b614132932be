package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raffayuda/lesson-app/internals/constants"
	"github.com/raffayuda/lesson-app/internals/features/school/attendance/dto"
	"github.com/raffayuda/lesson-app/internals/features/school/attendance/model"
	"github.com/raffayuda/lesson-app/internals/features/school/attendance/service"
	helper "github.com/raffayuda/lesson-app/internals/helpers"
	authHelper "github.com/raffayuda/lesson-app/internals/helpers/auth"
	"github.com/raffayuda/lesson-app/internals/helpers/dbtime"
)

type AttendanceController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Checkin  *service.CheckinService
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{
		DB:       db,
		Validate: validator.New(),
		Checkin:  service.NewCheckinService(db),
	}
}

// =============================
// 📒 GET /api/attendance
// =============================
// Filter: schedule_id, student_id, date (YYYY-MM-DD), status.
// Siswa hanya bisa melihat record miliknya sendiri — filter student_id
// dari query diabaikan dan dipaksa ke profilnya.
func (ctrl *AttendanceController) List(c *fiber.Ctx) error {
	user, err := authHelper.CurrentUser(c)
	if err != nil {
		return err
	}

	q := ctrl.DB.Model(&model.AttendanceModel{}).
		Preload("Schedule").
		Preload("Student").
		Preload("Student.User")

	if !user.IsAdmin() {
		student, err := authHelper.CurrentStudent(ctrl.DB, c)
		if err != nil {
			return err
		}
		q = q.Where("attendance_student_id = ?", student.StudentID)
	} else if raw := c.Query("student_id"); raw != "" {
		studentID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student_id")
		}
		q = q.Where("attendance_student_id = ?", studentID)
	}

	if raw := c.Query("schedule_id"); raw != "" {
		scheduleID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid schedule_id")
		}
		q = q.Where("attendance_schedule_id = ?", scheduleID)
	}

	if status := c.Query("status"); status != "" {
		if !constants.IsValidAttendanceStatus(status) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attendance status")
		}
		q = q.Where("attendance_status = ?", status)
	}

	if raw := c.Query("date"); raw != "" {
		date, err := time.ParseInLocation("2006-01-02", raw, dbtime.AppLocation())
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		}
		start, end := dbtime.DayWindow(date)
		q = q.Where("attendance_date >= ? AND attendance_date < ?", start, end)
	}

	var attendances []model.AttendanceModel
	if err := q.Order("attendance_date DESC").Find(&attendances).Error; err != nil {
		log.Println("[ERROR] gagal ambil attendance:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch attendance")
	}

	return helper.JsonOK(c, attendances)
}

// =============================
// ✍️ POST /api/attendance/manual (admin)
// =============================
func (ctrl *AttendanceController) MarkManual(c *fiber.Ctx) error {
	user, err := authHelper.CurrentUser(c)
	if err != nil {
		return err
	}

	var req dto.ManualAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	in := service.ManualMarkInput{
		ScheduleID: req.ScheduleID,
		StudentID:  req.StudentID,
		Status:     req.Status,
		Notes:      req.Notes,
		MarkedByID: user.UserID,
	}
	if req.Date != nil {
		date, err := time.ParseInLocation("2006-01-02", *req.Date, dbtime.AppLocation())
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		}
		in.Date = &date
	}

	attendance, created, err := ctrl.Checkin.MarkManual(in)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		log.Println("[ERROR] gagal simpan attendance manual:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save attendance")
	}

	if created {
		return helper.JsonCreated(c, attendance)
	}
	return helper.JsonOK(c, attendance)
}

// =============================
// 📱 POST /api/attendance/qr (siswa)
// =============================
func (ctrl *AttendanceController) MarkByQR(c *fiber.Ctx) error {
	user, err := authHelper.CurrentUser(c)
	if err != nil {
		return err
	}
	student, err := authHelper.CurrentStudent(ctrl.DB, c)
	if err != nil {
		return err
	}

	var req dto.QRAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	attendance, err := ctrl.Checkin.MarkByQR(service.QRMarkInput{
		QRCode:    req.QRCode,
		StudentID: student.StudentID,
		UserID:    user.UserID,
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		log.Println("[ERROR] gagal check-in QR:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save attendance")
	}

	return helper.JsonCreated(c, attendance)
}

// =============================
// 🔄 PUT /api/attendance/:id (admin)
// =============================
func (ctrl *AttendanceController) Update(c *fiber.Ctx) error {
	user, err := authHelper.CurrentUser(c)
	if err != nil {
		return err
	}

	attendanceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid attendance ID")
	}

	var req dto.UpdateAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var attendance model.AttendanceModel
	if err := ctrl.DB.First(&attendance, "attendance_id = ?", attendanceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Attendance not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	updates := map[string]interface{}{
		"attendance_marked_by_id": user.UserID,
	}
	if req.Status != nil {
		updates["attendance_status"] = *req.Status
		attendance.AttendanceStatus = *req.Status
	}
	if req.Notes != nil {
		updates["attendance_notes"] = req.Notes
		attendance.AttendanceNotes = req.Notes
	}

	if err := ctrl.DB.Model(&attendance).Updates(updates).Error; err != nil {
		log.Println("[ERROR] gagal update attendance:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update attendance")
	}
	attendance.AttendanceMarkedByID = &user.UserID

	return helper.JsonOK(c, attendance)
}
