package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	appcache "github.com/raffayuda/lesson-app/internals/cache"
	attendanceModel "github.com/raffayuda/lesson-app/internals/features/school/attendance/model"
	scheduleModel "github.com/raffayuda/lesson-app/internals/features/school/schedules/model"
	"github.com/raffayuda/lesson-app/internals/features/school/students/dto"
	"github.com/raffayuda/lesson-app/internals/features/school/students/model"
	authService "github.com/raffayuda/lesson-app/internals/features/users/auth/service"
	userModel "github.com/raffayuda/lesson-app/internals/features/users/user/model"
	helper "github.com/raffayuda/lesson-app/internals/helpers"
)

const cacheEntity = "students"

type StudentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Cache    *appcache.Store
}

func NewStudentController(db *gorm.DB, store *appcache.Store) *StudentController {
	return &StudentController{DB: db, Validate: validator.New(), Cache: store}
}

/* ===================== LIST ===================== */
// GET /api/students?class=
func (ctrl *StudentController) List(c *fiber.Ctx) error {
	className := c.Query("class")

	key := appcache.Key(cacheEntity, appcache.FilterKey("class", className))
	if cached, ok := ctrl.Cache.Get(key); ok {
		return helper.JsonOK(c, cached)
	}

	q := ctrl.DB.Model(&model.StudentModel{}).Preload("User")
	if className != "" {
		q = q.Where("student_class = ?", className)
	}

	var students []model.StudentModel
	if err := q.Order("student_created_at DESC").Find(&students).Error; err != nil {
		log.Println("[ERROR] list students:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch students")
	}

	// hitung kehadiran per siswa dalam satu query
	type countRow struct {
		StudentID uuid.UUID `gorm:"column:attendance_student_id"`
		Total     int64     `gorm:"column:total"`
	}
	var rows []countRow
	if err := ctrl.DB.Model(&attendanceModel.AttendanceModel{}).
		Select("attendance_student_id, COUNT(*) AS total").
		Group("attendance_student_id").
		Find(&rows).Error; err != nil {
		log.Println("[ERROR] count attendances:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch students")
	}
	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.StudentID] = r.Total
	}

	resp := make([]fiber.Map, 0, len(students))
	for i := range students {
		resp = append(resp, fiber.Map{
			"student":          students[i],
			"attendance_count": counts[students[i].StudentID],
		})
	}

	ctrl.Cache.Set(key, resp)
	return helper.JsonOK(c, resp)
}

/* ===================== GET BY ID ===================== */
// GET /api/students/:id — profil + 20 kehadiran terakhir
func (ctrl *StudentController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id")
	}

	var student model.StudentModel
	if err := ctrl.DB.Preload("User").First(&student, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch student")
	}

	var attendances []attendanceModel.AttendanceModel
	if err := ctrl.DB.Preload("Schedule").
		Where("attendance_student_id = ?", id).
		Order("attendance_checked_in_at DESC").
		Limit(20).
		Find(&attendances).Error; err != nil {
		log.Println("[ERROR] fetch attendances:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch student")
	}

	return helper.JsonOK(c, fiber.Map{
		"student":     student,
		"attendances": attendances,
	})
}

/* ===================== SCHEDULES OF STUDENT ===================== */
// GET /api/students/:id/schedules
func (ctrl *StudentController) GetSchedules(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id")
	}

	var assignments []scheduleModel.ScheduleStudentModel
	if err := ctrl.DB.Preload("Schedule").
		Where("schedule_student_student_id = ?", id).
		Find(&assignments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch schedules")
	}

	schedules := make([]scheduleModel.ScheduleModel, 0, len(assignments))
	for _, a := range assignments {
		if a.Schedule != nil {
			schedules = append(schedules, *a.Schedule)
		}
	}
	return helper.JsonOK(c, schedules)
}

/* ===================== CREATE ===================== */
// POST /api/students — buat user + student dalam satu transaksi
func (ctrl *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Name, email, NIS, and class are required")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	password := req.Password
	if password == "" {
		password = authService.DefaultStudentPassword(req.NIS)
	}
	hashed, err := authService.HashPassword(password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create student")
	}

	var student model.StudentModel
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		user := userModel.UserModel{
			UserEmail:    req.Email,
			UserPassword: hashed,
			UserName:     req.Name,
			UserRole:     "STUDENT",
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		student = model.StudentModel{
			StudentUserID: user.UserID,
			StudentNIS:    req.NIS,
			StudentClass:  req.Class,
			StudentQRCode: helper.GenerateScanCode(req.NIS, req.Name),
		}
		if err := tx.Create(&student).Error; err != nil {
			return err
		}
		student.User = &user
		return nil
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email or NIS already exists")
		}
		log.Println("[ERROR] create student:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create student")
	}

	ctrl.Cache.InvalidateEntity(cacheEntity)
	return helper.JsonCreated(c, student)
}

/* ===================== UPDATE ===================== */
// PUT /api/students/:id — partial merge lintas user+student, satu transaksi
func (ctrl *StudentController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id")
	}

	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var student model.StudentModel
	if err := ctrl.DB.First(&student, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update student")
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		userUpdates := map[string]interface{}{}
		if req.Name != "" {
			userUpdates["user_name"] = req.Name
		}
		if req.Email != "" {
			userUpdates["user_email"] = req.Email
		}
		if len(userUpdates) > 0 {
			if err := tx.Model(&userModel.UserModel{}).
				Where("user_id = ?", student.StudentUserID).
				Updates(userUpdates).Error; err != nil {
				return err
			}
		}

		studentUpdates := map[string]interface{}{}
		if req.NIS != "" {
			studentUpdates["student_nis"] = req.NIS
		}
		if req.Class != "" {
			studentUpdates["student_class"] = req.Class
		}
		if len(studentUpdates) > 0 {
			if err := tx.Model(&student).Updates(studentUpdates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email or NIS already exists")
		}
		log.Println("[ERROR] update student:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update student")
	}

	if err := ctrl.DB.Preload("User").First(&student, "student_id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update student")
	}

	ctrl.Cache.InvalidateEntity(cacheEntity)
	return helper.JsonOK(c, student)
}

/* ===================== DELETE ===================== */
// DELETE /api/students/:id — hapus user pemilik; student, roster, dan
// attendance ikut lewat FK cascade.
func (ctrl *StudentController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id")
	}

	var student model.StudentModel
	if err := ctrl.DB.First(&student, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete student")
	}

	if err := ctrl.DB.Delete(&userModel.UserModel{}, "user_id = ?", student.StudentUserID).Error; err != nil {
		log.Println("[ERROR] delete student:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete student")
	}

	ctrl.Cache.InvalidateEntity(cacheEntity)
	return helper.JsonMessage(c, fiber.StatusOK, "Student deleted successfully")
}
