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
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	appcache "github.com/raffayuda/lesson-app/internals/cache"
	"github.com/raffayuda/lesson-app/internals/configs"
	"github.com/raffayuda/lesson-app/internals/constants"
	attendanceModel "github.com/raffayuda/lesson-app/internals/features/school/attendance/model"
	scheduleModel "github.com/raffayuda/lesson-app/internals/features/school/schedules/model"
	"github.com/raffayuda/lesson-app/internals/features/school/students/model"
	studentRoute "github.com/raffayuda/lesson-app/internals/features/school/students/route"
	authService "github.com/raffayuda/lesson-app/internals/features/users/auth/service"
	userModel "github.com/raffayuda/lesson-app/internals/features/users/user/model"
)

var testSeq int

func setupApp(t *testing.T) (*fiber.App, *gorm.DB, string) {
	t.Helper()
	configs.JWTSecret = "test-secret"

	// foreign_keys aktif supaya cascade user → student benar-benar dites
	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&model.StudentModel{},
		&scheduleModel.ScheduleModel{},
		&scheduleModel.ScheduleStudentModel{},
		&attendanceModel.AttendanceModel{},
	))

	app := fiber.New()
	api := app.Group("/api")
	studentRoute.StudentRoutes(api, db, appcache.New(time.Minute))

	testSeq++
	admin := userModel.UserModel{
		UserEmail:    fmt.Sprintf("admin%d@attendance.com", testSeq),
		UserPassword: "hash",
		UserName:     "Admin User",
		UserRole:     constants.RoleAdmin,
	}
	require.NoError(t, db.Create(&admin).Error)
	token, err := authService.GenerateAccessToken(admin.UserID)
	require.NoError(t, err)

	return app, db, token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	return resp
}

func TestCreateStudentDefaultPassword(t *testing.T) {
	app, db, token := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/students/", token, map[string]string{
		"name":  "Budi",
		"email": "budi@example.com",
		"nis":   "202401",
		"class": "5",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var student model.StudentModel
	require.NoError(t, db.Preload("User").First(&student, "student_nis = ?", "202401").Error)
	require.Equal(t, "5", student.StudentClass)
	require.Len(t, student.StudentQRCode, 16)

	// tanpa password eksplisit → "student" + NIS
	require.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(student.User.UserPassword), []byte("student202401")))
	require.Equal(t, constants.RoleStudent, student.User.UserRole)
}

func TestCreateStudentDuplicateNIS(t *testing.T) {
	app, _, token := setupApp(t)

	body := map[string]string{
		"name":  "Budi",
		"email": "budi@example.com",
		"nis":   "202401",
		"class": "5",
	}
	resp := doJSON(t, app, http.MethodPost, "/api/students/", token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body["email"] = "budi2@example.com"
	resp = doJSON(t, app, http.MethodPost, "/api/students/", token, body)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDeleteStudentCascadesBothDirections(t *testing.T) {
	app, db, token := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/students/", token, map[string]string{
		"name":  "Sari",
		"email": "sari@example.com",
		"nis":   "202402",
		"class": "6",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var student model.StudentModel
	require.NoError(t, db.First(&student, "student_nis = ?", "202402").Error)

	// daftarkan ke satu jadwal supaya cascade roster ikut teruji
	schedule := scheduleModel.ScheduleModel{
		ScheduleSubject:     "IPA",
		ScheduleClass:       "6",
		ScheduleDay:         "Monday",
		ScheduleStartTime:   "07:30",
		ScheduleEndTime:     "09:00",
		ScheduleTeacherName: "Pak Joko",
		ScheduleRoom:        "R-202",
		ScheduleQRCode:      "jadwalipa6pagi00",
	}
	require.NoError(t, db.Create(&schedule).Error)
	require.NoError(t, db.Create(&scheduleModel.ScheduleStudentModel{
		ScheduleStudentScheduleID: schedule.ScheduleID,
		ScheduleStudentStudentID:  student.StudentID,
	}).Error)

	resp = doJSON(t, app, http.MethodDelete, "/api/students/"+student.StudentID.String(), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var userCount, studentCount, assignmentCount int64
	db.Model(&userModel.UserModel{}).Where("user_id = ?", student.StudentUserID).Count(&userCount)
	db.Model(&model.StudentModel{}).Where("student_id = ?", student.StudentID).Count(&studentCount)
	db.Model(&scheduleModel.ScheduleStudentModel{}).
		Where("schedule_student_student_id = ?", student.StudentID).Count(&assignmentCount)

	require.Zero(t, userCount, "user pemilik harus ikut terhapus")
	require.Zero(t, studentCount, "student harus terhapus lewat cascade")
	require.Zero(t, assignmentCount, "roster harus ikut terhapus")
}

func TestGetStudentNotFound(t *testing.T) {
	app, _, token := setupApp(t)
	resp := doJSON(t, app, http.MethodGet, "/api/students/8b36cdc2-3f36-41b2-a6a5-2872cf9ed939", token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
