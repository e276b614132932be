// file: internals/helpers/dbtime/day_window.go
package dbtime

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

var (
	appLoc     *time.Location
	appLocOnce sync.Once
)

// AppLocation mengembalikan zona waktu aplikasi:
// 1) env APP_TIMEZONE (mis. "Asia/Jakarta")
// 2) fallback: Asia/Jakarta
// 3) fallback terakhir: time.UTC
func AppLocation() *time.Location {
	appLocOnce.Do(func() {
		tz := strings.TrimSpace(os.Getenv("APP_TIMEZONE"))
		if tz == "" {
			tz = "Asia/Jakarta"
		}
		loc, err := time.LoadLocation(tz)
		if err != nil {
			loc = time.UTC
		}
		appLoc = loc
	})
	return appLoc
}

// DayWindow menghitung rentang satu hari kalender [00:00, +24 jam) di zona
// waktu aplikasi. Semua pengecekan "sudah absen hari ini?" dan statistik
// harian memakai window ini.
func DayWindow(t time.Time) (start, end time.Time) {
	t = t.In(AppLocation())
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end = start.Add(24 * time.Hour)
	return start, end
}

// CombineDateTime menggabungkan tanggal target dengan jam mulai jadwal
// ("HH:MM") menjadi waktu occurrence slot tersebut.
func CombineDateTime(date time.Time, hhmm string) (time.Time, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return time.Time{}, fmt.Errorf("jam tidak valid %q: %w", hhmm, err)
	}
	date = date.In(AppLocation())
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}

// SameDate: apakah dua waktu jatuh di tanggal kalender yang sama (zona app).
func SameDate(a, b time.Time) bool {
	a, b = a.In(AppLocation()), b.In(AppLocation())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayName mengembalikan nama hari sesuai kolom schedule_day ("Monday", dst).
func DayName(t time.Time) string {
	return t.In(AppLocation()).Weekday().String()
}
