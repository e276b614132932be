package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/raffayuda/lesson-app/internals/constants"
	attendanceModel "github.com/raffayuda/lesson-app/internals/features/school/attendance/model"
	scheduleModel "github.com/raffayuda/lesson-app/internals/features/school/schedules/model"
	studentModel "github.com/raffayuda/lesson-app/internals/features/school/students/model"
	helper "github.com/raffayuda/lesson-app/internals/helpers"
	"github.com/raffayuda/lesson-app/internals/helpers/dbtime"
)

type StatsController struct {
	DB *gorm.DB
}

func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{DB: db}
}

// =============================
// 📊 GET /api/stats/today (admin)
// =============================
// Kehadiran "hari ini" dihitung dari attendance_date (occurrence slot
// jadwal) di dalam window [00:00, 24:00) timezone aplikasi.
func (ctrl *StatsController) Today(c *fiber.Ctx) error {
	windowStart, windowEnd := dbtime.DayWindow(time.Now())

	var totalStudents, totalSchedules int64
	if err := ctrl.DB.Model(&studentModel.StudentModel{}).Count(&totalStudents).Error; err != nil {
		log.Println("[ERROR] gagal hitung siswa:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch statistics")
	}
	if err := ctrl.DB.Model(&scheduleModel.ScheduleModel{}).Count(&totalSchedules).Error; err != nil {
		log.Println("[ERROR] gagal hitung jadwal:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch statistics")
	}

	// satu query GROUP BY untuk semua status, bukan empat COUNT terpisah
	type statusRow struct {
		Status string `gorm:"column:attendance_status"`
		Total  int64  `gorm:"column:total"`
	}
	var rows []statusRow
	err := ctrl.DB.Model(&attendanceModel.AttendanceModel{}).
		Select("attendance_status, COUNT(*) AS total").
		Where("attendance_date >= ? AND attendance_date < ?", windowStart, windowEnd).
		Group("attendance_status").
		Scan(&rows).Error
	if err != nil {
		log.Println("[ERROR] gagal hitung kehadiran hari ini:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch statistics")
	}

	byStatus := make(map[string]int64, len(rows))
	var todayAttendance int64
	for _, r := range rows {
		byStatus[r.Status] = r.Total
		todayAttendance += r.Total
	}

	return helper.JsonOK(c, fiber.Map{
		"totalStudents":   totalStudents,
		"totalSchedules":  totalSchedules,
		"todayAttendance": todayAttendance,
		"presentCount":    byStatus[constants.AttendancePresent],
		"sickCount":       byStatus[constants.AttendanceSick],
		"permissionCount": byStatus[constants.AttendancePermission],
		"absentCount":     byStatus[constants.AttendanceAbsent],
	})
}
