package controller_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/raffayuda/lesson-app/internals/configs"
	"github.com/raffayuda/lesson-app/internals/constants"
	attendanceModel "github.com/raffayuda/lesson-app/internals/features/school/attendance/model"
	scheduleModel "github.com/raffayuda/lesson-app/internals/features/school/schedules/model"
	statsRoute "github.com/raffayuda/lesson-app/internals/features/school/stats/route"
	studentModel "github.com/raffayuda/lesson-app/internals/features/school/students/model"
	authService "github.com/raffayuda/lesson-app/internals/features/users/auth/service"
	userModel "github.com/raffayuda/lesson-app/internals/features/users/user/model"
	"github.com/raffayuda/lesson-app/internals/helpers/dbtime"
)

type todayStats struct {
	TotalStudents   int64 `json:"totalStudents"`
	TotalSchedules  int64 `json:"totalSchedules"`
	TodayAttendance int64 `json:"todayAttendance"`
	PresentCount    int64 `json:"presentCount"`
	SickCount       int64 `json:"sickCount"`
	PermissionCount int64 `json:"permissionCount"`
	AbsentCount     int64 `json:"absentCount"`
}

func setupStats(t *testing.T) (*fiber.App, *gorm.DB, string) {
	t.Helper()
	configs.JWTSecret = "test-secret"

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&studentModel.StudentModel{},
		&scheduleModel.ScheduleModel{},
		&attendanceModel.AttendanceModel{},
	))

	app := fiber.New()
	statsRoute.StatsRoutes(app.Group("/api"), db)

	admin := userModel.UserModel{
		UserEmail:    "admin@attendance.com",
		UserPassword: "hash",
		UserName:     "Admin User",
		UserRole:     constants.RoleAdmin,
	}
	require.NoError(t, db.Create(&admin).Error)
	token, err := authService.GenerateAccessToken(admin.UserID)
	require.NoError(t, err)

	return app, db, token
}

func seedStatsStudent(t *testing.T, db *gorm.DB, n int) *studentModel.StudentModel {
	t.Helper()
	user := userModel.UserModel{
		UserEmail:    fmt.Sprintf("stat%d@example.com", n),
		UserPassword: "hash",
		UserName:     fmt.Sprintf("Stat %d", n),
		UserRole:     constants.RoleStudent,
	}
	require.NoError(t, db.Create(&user).Error)
	student := studentModel.StudentModel{
		StudentUserID: user.UserID,
		StudentNIS:    fmt.Sprintf("40%04d", n),
		StudentClass:  "4",
		StudentQRCode: fmt.Sprintf("statqr%010d", n),
	}
	require.NoError(t, db.Create(&student).Error)
	return &student
}

func seedAttendanceAt(t *testing.T, db *gorm.DB, schedule *scheduleModel.ScheduleModel,
	student *studentModel.StudentModel, status string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&attendanceModel.AttendanceModel{
		AttendanceScheduleID:  schedule.ScheduleID,
		AttendanceStudentID:   student.StudentID,
		AttendanceStatus:      status,
		AttendanceMethod:      constants.MethodManual,
		AttendanceDate:        at,
		AttendanceCheckedInAt: time.Now(),
	}).Error)
}

func TestStatsTodayCounts(t *testing.T) {
	app, db, token := setupStats(t)

	schedule := scheduleModel.ScheduleModel{
		ScheduleSubject:     "IPS",
		ScheduleClass:       "4",
		ScheduleDay:         dbtime.DayName(time.Now()),
		ScheduleStartTime:   "10:00",
		ScheduleEndTime:     "11:30",
		ScheduleTeacherName: "Bu Ani",
		ScheduleRoom:        "R-104",
		ScheduleQRCode:      "statsjadwal00001",
	}
	require.NoError(t, db.Create(&schedule).Error)

	s1 := seedStatsStudent(t, db, 1)
	s2 := seedStatsStudent(t, db, 2)
	s3 := seedStatsStudent(t, db, 3)

	occurrence, err := dbtime.CombineDateTime(time.Now(), schedule.ScheduleStartTime)
	require.NoError(t, err)

	seedAttendanceAt(t, db, &schedule, s1, constants.AttendancePresent, occurrence)
	seedAttendanceAt(t, db, &schedule, s2, constants.AttendanceSick, occurrence)
	// kemarin: tidak boleh ikut terhitung
	seedAttendanceAt(t, db, &schedule, s3, constants.AttendancePresent, occurrence.AddDate(0, 0, -1))

	req := httptest.NewRequest(http.MethodGet, "/api/stats/today", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats todayStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))

	require.EqualValues(t, 3, stats.TotalStudents)
	require.EqualValues(t, 1, stats.TotalSchedules)
	require.EqualValues(t, 2, stats.TodayAttendance)
	require.EqualValues(t, 1, stats.PresentCount)
	require.EqualValues(t, 1, stats.SickCount)
	require.EqualValues(t, 0, stats.PermissionCount)
	require.EqualValues(t, 0, stats.AbsentCount)

	// total = jumlah per-status
	sum := stats.PresentCount + stats.SickCount + stats.PermissionCount + stats.AbsentCount
	require.Equal(t, stats.TodayAttendance, sum)
}

func TestStatsTodayAdminOnly(t *testing.T) {
	app, db, _ := setupStats(t)

	user := userModel.UserModel{
		UserEmail:    "bukan-admin@example.com",
		UserPassword: "hash",
		UserName:     "Siswa",
		UserRole:     constants.RoleStudent,
	}
	require.NoError(t, db.Create(&user).Error)
	token, err := authService.GenerateAccessToken(user.UserID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/stats/today", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
