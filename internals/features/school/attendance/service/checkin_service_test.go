package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/raffayuda/lesson-app/internals/constants"
	"github.com/raffayuda/lesson-app/internals/features/school/attendance/model"
	scheduleModel "github.com/raffayuda/lesson-app/internals/features/school/schedules/model"
	studentModel "github.com/raffayuda/lesson-app/internals/features/school/students/model"
	userModel "github.com/raffayuda/lesson-app/internals/features/users/user/model"
	"github.com/raffayuda/lesson-app/internals/helpers/dbtime"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&studentModel.StudentModel{},
		&scheduleModel.ScheduleModel{},
		&scheduleModel.ScheduleStudentModel{},
		&model.AttendanceModel{},
	))
	return db
}

var seedSeq int

func seedStudent(t *testing.T, db *gorm.DB) *studentModel.StudentModel {
	t.Helper()
	seedSeq++

	user := userModel.UserModel{
		UserEmail:    fmt.Sprintf("siswa%d@example.com", seedSeq),
		UserPassword: "hash",
		UserName:     fmt.Sprintf("Siswa %d", seedSeq),
		UserRole:     constants.RoleStudent,
	}
	require.NoError(t, db.Create(&user).Error)

	student := studentModel.StudentModel{
		StudentUserID: user.UserID,
		StudentNIS:    fmt.Sprintf("20240%d", seedSeq),
		StudentClass:  "5",
		StudentQRCode: fmt.Sprintf("studentcode%04d", seedSeq),
	}
	require.NoError(t, db.Create(&student).Error)
	return &student
}

func seedRecurringSchedule(t *testing.T, db *gorm.DB, day string) *scheduleModel.ScheduleModel {
	t.Helper()
	seedSeq++

	schedule := scheduleModel.ScheduleModel{
		ScheduleSubject:     "Matematika",
		ScheduleClass:       "5",
		ScheduleDay:         day,
		ScheduleStartTime:   "08:00",
		ScheduleEndTime:     "09:30",
		ScheduleTeacherName: "Bu Rina",
		ScheduleRoom:        "R-101",
		ScheduleQRCode:      fmt.Sprintf("schedcode%07d", seedSeq),
	}
	require.NoError(t, db.Create(&schedule).Error)
	return &schedule
}

func seedOneOffSchedule(t *testing.T, db *gorm.DB, date time.Time) *scheduleModel.ScheduleModel {
	t.Helper()
	schedule := seedRecurringSchedule(t, db, "")
	require.NoError(t, db.Model(schedule).Update("schedule_specific_date", date).Error)
	schedule.ScheduleSpecificDate = &date
	return schedule
}

func enroll(t *testing.T, db *gorm.DB, scheduleID, studentID uuid.UUID) {
	t.Helper()
	require.NoError(t, db.Create(&scheduleModel.ScheduleStudentModel{
		ScheduleStudentScheduleID: scheduleID,
		ScheduleStudentStudentID:  studentID,
	}).Error)
}

func countAttendances(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.AttendanceModel{}).Count(&n).Error)
	return n
}

func requireFiberCode(t *testing.T, err error, want int) {
	t.Helper()
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe), "expected *fiber.Error, got %v", err)
	require.Equal(t, want, fe.Code)
}

func todayName() string { return dbtime.DayName(time.Now()) }

func TestMarkManualCreatesThenOverwrites(t *testing.T) {
	db := setupDB(t)
	svc := NewCheckinService(db)

	student := seedStudent(t, db)
	schedule := seedRecurringSchedule(t, db, todayName())
	admin := uuid.New()

	first, created, err := svc.MarkManual(ManualMarkInput{
		ScheduleID: schedule.ScheduleID,
		StudentID:  student.StudentID,
		Status:     constants.AttendanceSick,
		MarkedByID: admin,
	})
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, constants.AttendanceSick, first.AttendanceStatus)
	require.Equal(t, constants.MethodManual, first.AttendanceMethod)

	notes := "sudah sembuh"
	second, created, err := svc.MarkManual(ManualMarkInput{
		ScheduleID: schedule.ScheduleID,
		StudentID:  student.StudentID,
		Status:     constants.AttendancePresent,
		Notes:      &notes,
		MarkedByID: admin,
	})
	require.NoError(t, err)
	require.False(t, created, "re-mark harus overwrite, bukan insert")
	require.Equal(t, first.AttendanceID, second.AttendanceID)
	require.Equal(t, constants.AttendancePresent, second.AttendanceStatus)

	require.EqualValues(t, 1, countAttendances(t, db))
}

func TestMarkManualOccurrenceDateFollowsSchedule(t *testing.T) {
	db := setupDB(t)
	svc := NewCheckinService(db)

	student := seedStudent(t, db)
	schedule := seedRecurringSchedule(t, db, todayName())

	target := time.Now().AddDate(0, 0, -3)
	att, _, err := svc.MarkManual(ManualMarkInput{
		ScheduleID: schedule.ScheduleID,
		StudentID:  student.StudentID,
		Status:     constants.AttendanceAbsent,
		Date:       &target,
		MarkedByID: uuid.New(),
	})
	require.NoError(t, err)

	want, err := dbtime.CombineDateTime(target, schedule.ScheduleStartTime)
	require.NoError(t, err)
	require.Equal(t, want.UTC(), att.AttendanceDate.UTC())

	// tanggal berbeda = occurrence berbeda, boleh dua row
	_, created, err := svc.MarkManual(ManualMarkInput{
		ScheduleID: schedule.ScheduleID,
		StudentID:  student.StudentID,
		Status:     constants.AttendancePresent,
		MarkedByID: uuid.New(),
	})
	require.NoError(t, err)
	require.True(t, created)
	require.EqualValues(t, 2, countAttendances(t, db))
}

func TestMarkManualUnknownSchedule(t *testing.T) {
	db := setupDB(t)
	svc := NewCheckinService(db)

	_, _, err := svc.MarkManual(ManualMarkInput{
		ScheduleID: uuid.New(),
		StudentID:  uuid.New(),
		Status:     constants.AttendancePresent,
		MarkedByID: uuid.New(),
	})
	requireFiberCode(t, err, fiber.StatusNotFound)
}

func TestMarkByQRHappyPath(t *testing.T) {
	db := setupDB(t)
	svc := NewCheckinService(db)

	student := seedStudent(t, db)
	schedule := seedRecurringSchedule(t, db, todayName())
	enroll(t, db, schedule.ScheduleID, student.StudentID)

	att, err := svc.MarkByQR(QRMarkInput{
		QRCode:    schedule.ScheduleQRCode,
		StudentID: student.StudentID,
		UserID:    student.StudentUserID,
	})
	require.NoError(t, err)
	require.Equal(t, constants.AttendancePresent, att.AttendanceStatus)
	require.Equal(t, constants.MethodQR, att.AttendanceMethod)
}

func TestMarkByQRUnknownCode(t *testing.T) {
	db := setupDB(t)
	svc := NewCheckinService(db)

	_, err := svc.MarkByQR(QRMarkInput{
		QRCode:    "tidak-terdaftar",
		StudentID: uuid.New(),
		UserID:    uuid.New(),
	})
	requireFiberCode(t, err, fiber.StatusNotFound)
}

func TestMarkByQRNotEnrolled(t *testing.T) {
	db := setupDB(t)
	svc := NewCheckinService(db)

	enrolled := seedStudent(t, db)
	outsider := seedStudent(t, db)
	schedule := seedRecurringSchedule(t, db, todayName())
	enroll(t, db, schedule.ScheduleID, enrolled.StudentID)

	// kode valid, tapi bukan roster jadwal ini
	_, err := svc.MarkByQR(QRMarkInput{
		QRCode:    schedule.ScheduleQRCode,
		StudentID: outsider.StudentID,
		UserID:    outsider.StudentUserID,
	})
	requireFiberCode(t, err, fiber.StatusForbidden)
	require.EqualValues(t, 0, countAttendances(t, db))
}

func TestMarkByQRRecurringWrongDay(t *testing.T) {
	db := setupDB(t)
	svc := NewCheckinService(db)

	student := seedStudent(t, db)
	tomorrow := dbtime.DayName(time.Now().AddDate(0, 0, 1))
	schedule := seedRecurringSchedule(t, db, tomorrow)
	enroll(t, db, schedule.ScheduleID, student.StudentID)

	_, err := svc.MarkByQR(QRMarkInput{
		QRCode:    schedule.ScheduleQRCode,
		StudentID: student.StudentID,
		UserID:    student.StudentUserID,
	})
	requireFiberCode(t, err, fiber.StatusBadRequest)
}

func TestMarkByQROneOffDateCheck(t *testing.T) {
	db := setupDB(t)
	svc := NewCheckinService(db)

	student := seedStudent(t, db)
	yesterday := seedOneOffSchedule(t, db, time.Now().AddDate(0, 0, -1))
	enroll(t, db, yesterday.ScheduleID, student.StudentID)

	_, err := svc.MarkByQR(QRMarkInput{
		QRCode:    yesterday.ScheduleQRCode,
		StudentID: student.StudentID,
		UserID:    student.StudentUserID,
	})
	requireFiberCode(t, err, fiber.StatusBadRequest)

	today := seedOneOffSchedule(t, db, time.Now())
	enroll(t, db, today.ScheduleID, student.StudentID)

	att, err := svc.MarkByQR(QRMarkInput{
		QRCode:    today.ScheduleQRCode,
		StudentID: student.StudentID,
		UserID:    student.StudentUserID,
	})
	require.NoError(t, err)
	require.Equal(t, constants.MethodQR, att.AttendanceMethod)
}

func TestMarkByQRDuplicateSameDay(t *testing.T) {
	db := setupDB(t)
	svc := NewCheckinService(db)

	student := seedStudent(t, db)
	schedule := seedRecurringSchedule(t, db, todayName())
	enroll(t, db, schedule.ScheduleID, student.StudentID)

	_, err := svc.MarkByQR(QRMarkInput{
		QRCode:    schedule.ScheduleQRCode,
		StudentID: student.StudentID,
		UserID:    student.StudentUserID,
	})
	require.NoError(t, err)

	_, err = svc.MarkByQR(QRMarkInput{
		QRCode:    schedule.ScheduleQRCode,
		StudentID: student.StudentID,
		UserID:    student.StudentUserID,
	})
	requireFiberCode(t, err, fiber.StatusConflict)
	require.EqualValues(t, 1, countAttendances(t, db))
}

func TestManualThenQRSameDayConflicts(t *testing.T) {
	db := setupDB(t)
	svc := NewCheckinService(db)

	student := seedStudent(t, db)
	schedule := seedRecurringSchedule(t, db, todayName())
	enroll(t, db, schedule.ScheduleID, student.StudentID)

	_, _, err := svc.MarkManual(ManualMarkInput{
		ScheduleID: schedule.ScheduleID,
		StudentID:  student.StudentID,
		Status:     constants.AttendancePresent,
		MarkedByID: uuid.New(),
	})
	require.NoError(t, err)

	_, err = svc.MarkByQR(QRMarkInput{
		QRCode:    schedule.ScheduleQRCode,
		StudentID: student.StudentID,
		UserID:    student.StudentUserID,
	})
	requireFiberCode(t, err, fiber.StatusConflict)
	require.EqualValues(t, 1, countAttendances(t, db))
}
