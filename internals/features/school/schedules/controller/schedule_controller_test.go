package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	appcache "github.com/raffayuda/lesson-app/internals/cache"
	"github.com/raffayuda/lesson-app/internals/configs"
	"github.com/raffayuda/lesson-app/internals/constants"
	attendanceModel "github.com/raffayuda/lesson-app/internals/features/school/attendance/model"
	"github.com/raffayuda/lesson-app/internals/features/school/schedules/model"
	scheduleRoute "github.com/raffayuda/lesson-app/internals/features/school/schedules/route"
	studentModel "github.com/raffayuda/lesson-app/internals/features/school/students/model"
	authService "github.com/raffayuda/lesson-app/internals/features/users/auth/service"
	userModel "github.com/raffayuda/lesson-app/internals/features/users/user/model"
	"github.com/raffayuda/lesson-app/internals/helpers/dbtime"
)

var schedSeq int

func setupScheduleApp(t *testing.T) (*fiber.App, *gorm.DB, string) {
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
		&model.ScheduleModel{},
		&model.ScheduleStudentModel{},
		&attendanceModel.AttendanceModel{},
	))

	app := fiber.New()
	scheduleRoute.ScheduleRoutes(app.Group("/api"), db, appcache.New(time.Minute))

	schedSeq++
	admin := userModel.UserModel{
		UserEmail:    fmt.Sprintf("admin-jadwal%d@attendance.com", schedSeq),
		UserPassword: "hash",
		UserName:     "Admin User",
		UserRole:     constants.RoleAdmin,
	}
	require.NoError(t, db.Create(&admin).Error)
	token, err := authService.GenerateAccessToken(admin.UserID)
	require.NoError(t, err)

	return app, db, token
}

func mkSchedule(t *testing.T, db *gorm.DB, day string, specificDate *time.Time) *model.ScheduleModel {
	t.Helper()
	schedSeq++
	s := model.ScheduleModel{
		ScheduleSubject:      "Bahasa",
		ScheduleClass:        "5",
		ScheduleDay:          day,
		ScheduleSpecificDate: specificDate,
		ScheduleStartTime:    "08:00",
		ScheduleEndTime:      "09:30",
		ScheduleTeacherName:  "Bu Rina",
		ScheduleRoom:         "R-101",
		ScheduleQRCode:       fmt.Sprintf("jadwalqr%08d", schedSeq),
	}
	require.NoError(t, db.Create(&s).Error)
	return &s
}

func getJSON(t *testing.T, app *fiber.App, path, token string, out interface{}) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestTodayFiltersSchedules(t *testing.T) {
	app, db, token := setupScheduleApp(t)

	now := time.Now()
	today := dbtime.DayName(now)
	tomorrow := dbtime.DayName(now.AddDate(0, 0, 1))
	yesterday := now.AddDate(0, 0, -1)

	matchRecurring := mkSchedule(t, db, today, nil)
	mkSchedule(t, db, tomorrow, nil)
	matchOneOff := mkSchedule(t, db, "", &now)
	mkSchedule(t, db, "", &yesterday)

	var rows []struct {
		Schedule model.ScheduleModel `json:"schedule"`
	}
	status := getJSON(t, app, "/api/schedules/today", token, &rows)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, rows, 2)

	got := map[uuid.UUID]bool{}
	for _, r := range rows {
		got[r.Schedule.ScheduleID] = true
	}
	require.True(t, got[matchRecurring.ScheduleID])
	require.True(t, got[matchOneOff.ScheduleID])
}

func TestListFiltersByDayAndClass(t *testing.T) {
	app, db, token := setupScheduleApp(t)

	monday := mkSchedule(t, db, "Monday", nil)
	mkSchedule(t, db, "Tuesday", nil)

	var rows []struct {
		Schedule model.ScheduleModel `json:"schedule"`
	}
	status := getJSON(t, app, "/api/schedules/?day=Monday", token, &rows)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, rows, 1)
	require.Equal(t, monday.ScheduleID, rows[0].Schedule.ScheduleID)
}

func TestAssignStudentsReplacesRoster(t *testing.T) {
	app, db, token := setupScheduleApp(t)
	schedule := mkSchedule(t, db, "Monday", nil)

	var students []studentModel.StudentModel
	for i := 0; i < 3; i++ {
		schedSeq++
		user := userModel.UserModel{
			UserEmail:    fmt.Sprintf("roster%d@example.com", schedSeq),
			UserPassword: "hash",
			UserName:     fmt.Sprintf("Roster %d", schedSeq),
			UserRole:     constants.RoleStudent,
		}
		require.NoError(t, db.Create(&user).Error)
		s := studentModel.StudentModel{
			StudentUserID: user.UserID,
			StudentNIS:    fmt.Sprintf("50%04d", schedSeq),
			StudentClass:  "5",
			StudentQRCode: fmt.Sprintf("rosterqr%08d", schedSeq),
		}
		require.NoError(t, db.Create(&s).Error)
		students = append(students, s)
	}

	assign := func(ids []uuid.UUID) int {
		raw, err := json.Marshal(map[string]interface{}{"student_ids": ids})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost,
			"/api/schedules/"+schedule.ScheduleID.String()+"/students", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
		require.NoError(t, err)
		return resp.StatusCode
	}

	// duplikat dalam payload tidak boleh bikin error ataupun row ganda
	require.Equal(t, http.StatusOK, assign([]uuid.UUID{
		students[0].StudentID, students[1].StudentID, students[0].StudentID,
	}))

	var count int64
	db.Model(&model.ScheduleStudentModel{}).
		Where("schedule_student_schedule_id = ?", schedule.ScheduleID).Count(&count)
	require.EqualValues(t, 2, count)

	// assign ulang = replace, bukan append
	require.Equal(t, http.StatusOK, assign([]uuid.UUID{students[2].StudentID}))

	var remaining []model.ScheduleStudentModel
	require.NoError(t, db.Find(&remaining,
		"schedule_student_schedule_id = ?", schedule.ScheduleID).Error)
	require.Len(t, remaining, 1)
	require.Equal(t, students[2].StudentID, remaining[0].ScheduleStudentStudentID)
}

func TestDeleteScheduleNotFound(t *testing.T) {
	app, _, token := setupScheduleApp(t)

	req := httptest.NewRequest(http.MethodDelete,
		"/api/schedules/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestQRCodePNG(t *testing.T) {
	app, db, token := setupScheduleApp(t)
	schedule := mkSchedule(t, db, "Monday", nil)

	req := httptest.NewRequest(http.MethodGet,
		"/api/schedules/"+schedule.ScheduleID.String()+"/qr", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}
