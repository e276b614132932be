package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	attendanceModel "github.com/raffayuda/lesson-app/internals/features/school/attendance/model"
	"github.com/raffayuda/lesson-app/internals/features/school/schedules/dto"
	"github.com/raffayuda/lesson-app/internals/features/school/schedules/model"
	appcache "github.com/raffayuda/lesson-app/internals/cache"
	"github.com/raffayuda/lesson-app/internals/constants"
	helper "github.com/raffayuda/lesson-app/internals/helpers"
	"github.com/raffayuda/lesson-app/internals/helpers/dbtime"
)

const cacheEntity = "schedules"

type ScheduleController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Cache    *appcache.Store
}

func NewScheduleController(db *gorm.DB, store *appcache.Store) *ScheduleController {
	return &ScheduleController{DB: db, Validate: validator.New(), Cache: store}
}

func (ctrl *ScheduleController) withAttendanceCounts(schedules []model.ScheduleModel) ([]fiber.Map, error) {
	type countRow struct {
		ScheduleID uuid.UUID `gorm:"column:attendance_schedule_id"`
		Total      int64     `gorm:"column:total"`
	}
	var rows []countRow
	if err := ctrl.DB.Model(&attendanceModel.AttendanceModel{}).
		Select("attendance_schedule_id, COUNT(*) AS total").
		Group("attendance_schedule_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.ScheduleID] = r.Total
	}

	resp := make([]fiber.Map, 0, len(schedules))
	for i := range schedules {
		resp = append(resp, fiber.Map{
			"schedule":         schedules[i],
			"attendance_count": counts[schedules[i].ScheduleID],
		})
	}
	return resp, nil
}

/* ===================== LIST ===================== */
// GET /api/schedules?day=&class=
func (ctrl *ScheduleController) List(c *fiber.Ctx) error {
	day := c.Query("day")
	className := c.Query("class")

	key := appcache.Key(cacheEntity,
		appcache.FilterKey("day", day), appcache.FilterKey("class", className))
	if cached, ok := ctrl.Cache.Get(key); ok {
		return helper.JsonOK(c, cached)
	}

	q := ctrl.DB.Model(&model.ScheduleModel{})
	if day != "" {
		q = q.Where("schedule_day = ?", day)
	}
	if className != "" {
		q = q.Where("schedule_class = ?", className)
	}

	var schedules []model.ScheduleModel
	if err := q.Order("schedule_day ASC, schedule_start_time ASC").Find(&schedules).Error; err != nil {
		log.Println("[ERROR] list schedules:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch schedules")
	}

	resp, err := ctrl.withAttendanceCounts(schedules)
	if err != nil {
		log.Println("[ERROR] count attendances:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch schedules")
	}

	ctrl.Cache.Set(key, resp)
	return helper.JsonOK(c, resp)
}

/* ===================== TODAY ===================== */
// GET /api/schedules/today — jadwal berulang yang harinya cocok + one-off
// yang tanggal spesifiknya hari ini.
func (ctrl *ScheduleController) Today(c *fiber.Ctx) error {
	now := time.Now()
	dayName := dbtime.DayName(now)
	start, end := dbtime.DayWindow(now)

	var schedules []model.ScheduleModel
	err := ctrl.DB.
		Where("(schedule_specific_date IS NULL AND schedule_day = ?)", dayName).
		Or("(schedule_specific_date >= ? AND schedule_specific_date < ?)", start, end).
		Order("schedule_start_time ASC").
		Find(&schedules).Error
	if err != nil {
		log.Println("[ERROR] today schedules:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch schedules")
	}

	resp, err := ctrl.withAttendanceCounts(schedules)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch schedules")
	}
	return helper.JsonOK(c, resp)
}

/* ===================== GET BY ID ===================== */
// GET /api/schedules/:id — termasuk daftar kehadiran + siswanya
func (ctrl *ScheduleController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid schedule id")
	}

	var schedule model.ScheduleModel
	if err := ctrl.DB.First(&schedule, "schedule_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Schedule not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch schedule")
	}

	var attendances []attendanceModel.AttendanceModel
	if err := ctrl.DB.Preload("Student").Preload("Student.User").
		Where("attendance_schedule_id = ?", id).
		Order("attendance_checked_in_at DESC").
		Find(&attendances).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch schedule")
	}

	return helper.JsonOK(c, fiber.Map{
		"schedule":    schedule,
		"attendances": attendances,
	})
}

/* ===================== CREATE ===================== */
// POST /api/schedules — generate scan code + assign roster dalam satu tx
func (ctrl *ScheduleController) Create(c *fiber.Ctx) error {
	var req dto.CreateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if req.Day == "" && req.SpecificDate == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Either day or specific_date is required")
	}
	if req.Day != "" && !constants.IsValidDay(req.Day) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid day name")
	}

	var specificDate *time.Time
	if req.SpecificDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.SpecificDate, dbtime.AppLocation())
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid specific_date")
		}
		specificDate = &parsed
	}

	schedule := model.ScheduleModel{
		ScheduleSubject:      req.Subject,
		ScheduleClass:        req.Class,
		ScheduleDay:          req.Day,
		ScheduleSpecificDate: specificDate,
		ScheduleStartTime:    req.StartTime,
		ScheduleEndTime:      req.EndTime,
		ScheduleTeacherName:  req.TeacherName,
		ScheduleRoom:         req.Room,
		ScheduleQRCode:       helper.GenerateScanCode(req.Subject, req.Class, req.Day, req.StartTime),
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&schedule).Error; err != nil {
			return err
		}
		return replaceRoster(tx, schedule.ScheduleID, req.StudentIDs, false)
	})
	if err != nil {
		log.Println("[ERROR] create schedule:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create schedule")
	}

	ctrl.Cache.InvalidateEntity(cacheEntity)
	return helper.JsonCreated(c, schedule)
}

/* ===================== UPDATE ===================== */
// PUT /api/schedules/:id — partial merge; roster diganti bila student_ids dikirim
func (ctrl *ScheduleController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid schedule id")
	}

	var req dto.UpdateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.Day != "" && !constants.IsValidDay(req.Day) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid day name")
	}

	var schedule model.ScheduleModel
	if err := ctrl.DB.First(&schedule, "schedule_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Schedule not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update schedule")
	}

	updates := map[string]interface{}{}
	if req.Subject != "" {
		updates["schedule_subject"] = req.Subject
	}
	if req.Class != "" {
		updates["schedule_class"] = req.Class
	}
	if req.Day != "" {
		updates["schedule_day"] = req.Day
		updates["schedule_specific_date"] = nil
	}
	if req.SpecificDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.SpecificDate, dbtime.AppLocation())
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid specific_date")
		}
		updates["schedule_specific_date"] = parsed
	}
	if req.StartTime != "" {
		updates["schedule_start_time"] = req.StartTime
	}
	if req.EndTime != "" {
		updates["schedule_end_time"] = req.EndTime
	}
	if req.TeacherName != "" {
		updates["schedule_teacher_name"] = req.TeacherName
	}
	if req.Room != "" {
		updates["schedule_room"] = req.Room
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&schedule).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.StudentIDs != nil {
			return replaceRoster(tx, schedule.ScheduleID, *req.StudentIDs, true)
		}
		return nil
	})
	if err != nil {
		log.Println("[ERROR] update schedule:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update schedule")
	}

	if err := ctrl.DB.First(&schedule, "schedule_id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update schedule")
	}

	ctrl.Cache.InvalidateEntity(cacheEntity)
	return helper.JsonOK(c, schedule)
}

/* ===================== DELETE ===================== */
// DELETE /api/schedules/:id — roster & attendance ikut lewat FK cascade
func (ctrl *ScheduleController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid schedule id")
	}

	res := ctrl.DB.Delete(&model.ScheduleModel{}, "schedule_id = ?", id)
	if res.Error != nil {
		log.Println("[ERROR] delete schedule:", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete schedule")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Schedule not found")
	}

	ctrl.Cache.InvalidateEntity(cacheEntity)
	return helper.JsonMessage(c, fiber.StatusOK, "Schedule deleted successfully")
}

/* ===================== ROSTER ===================== */
// POST /api/schedules/:id/students {student_ids} — replace seluruh roster
func (ctrl *ScheduleController) AssignStudents(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid schedule id")
	}

	var req dto.AssignStudentsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_ids must be an array")
	}
	if req.StudentIDs == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_ids must be an array")
	}

	var schedule model.ScheduleModel
	if err := ctrl.DB.First(&schedule, "schedule_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Schedule not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to assign students")
	}

	if err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		return replaceRoster(tx, id, req.StudentIDs, true)
	}); err != nil {
		log.Println("[ERROR] assign students:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to assign students")
	}

	ctrl.Cache.InvalidateEntity(cacheEntity)
	return helper.JsonOK(c, fiber.Map{
		"message": "Students assigned successfully",
		"count":   len(req.StudentIDs),
	})
}

// GET /api/schedules/:id/students
func (ctrl *ScheduleController) GetStudents(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid schedule id")
	}

	var assignments []model.ScheduleStudentModel
	if err := ctrl.DB.Preload("Student").Preload("Student.User").
		Where("schedule_student_schedule_id = ?", id).
		Find(&assignments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch students")
	}

	students := make([]interface{}, 0, len(assignments))
	for _, a := range assignments {
		if a.Student != nil {
			students = append(students, a.Student)
		}
	}
	return helper.JsonOK(c, students)
}

/* ===================== QR PNG ===================== */
// GET /api/schedules/:id/qr — render scan code sebagai PNG
func (ctrl *ScheduleController) QRCodePNG(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid schedule id")
	}

	var schedule model.ScheduleModel
	if err := ctrl.DB.First(&schedule, "schedule_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Schedule not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to render QR")
	}

	png, err := qrcode.Encode(schedule.ScheduleQRCode, qrcode.Medium, 256)
	if err != nil {
		log.Println("[ERROR] encode QR:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to render QR")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

// replaceRoster mengganti isi roster. skipDuplicates setara Prisma createMany
// {skipDuplicates:true}: id ganda dalam payload tidak bikin error.
func replaceRoster(tx *gorm.DB, scheduleID uuid.UUID, studentIDs []uuid.UUID, wipe bool) error {
	if wipe {
		if err := tx.Delete(&model.ScheduleStudentModel{},
			"schedule_student_schedule_id = ?", scheduleID).Error; err != nil {
			return err
		}
	}

	seen := make(map[uuid.UUID]struct{}, len(studentIDs))
	for _, sid := range studentIDs {
		if _, dup := seen[sid]; dup {
			continue
		}
		seen[sid] = struct{}{}

		assignment := model.ScheduleStudentModel{
			ScheduleStudentScheduleID: scheduleID,
			ScheduleStudentStudentID:  sid,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}
	}
	return nil
}
