package service

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword: bcrypt cost 10, sama dengan backend lama.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), 10)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// DefaultStudentPassword: aturan derivasi password default saat admin membuat
// siswa tanpa password eksplisit — "student" + NIS.
func DefaultStudentPassword(nis string) string {
	return "student" + nis
}
