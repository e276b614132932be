package constants

// Role user pada aplikasi (single-tenant, dua role saja)
const (
	RoleAdmin   = "ADMIN"
	RoleStudent = "STUDENT"
)

// Status kehadiran
const (
	AttendancePresent    = "PRESENT"
	AttendanceSick       = "SICK"
	AttendancePermission = "PERMISSION"
	AttendanceAbsent     = "ABSENT"
)

// Metode pencatatan kehadiran
const (
	MethodQR     = "QR"
	MethodManual = "MANUAL"
)

// Status pembayaran SPP
const (
	PaymentPending  = "PENDING"
	PaymentApproved = "APPROVED"
	PaymentRejected = "REJECTED"
)

// Nama hari sesuai yang disimpan di kolom schedule_day.
// Mengikuti time.Weekday.String() supaya pencocokan jadwal berulang konsisten.
var DayNames = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

func IsValidDay(day string) bool {
	for _, d := range DayNames {
		if d == day {
			return true
		}
	}
	return false
}

func IsValidAttendanceStatus(s string) bool {
	switch s {
	case AttendancePresent, AttendanceSick, AttendancePermission, AttendanceAbsent:
		return true
	}
	return false
}
