package helper

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateScanCode membuat kode scan 16 hex dari field identitas + waktu saat
// ini. Kode ini rahasia per-jadwal/per-siswa, yang nantinya dirender sebagai QR.
func GenerateScanCode(parts ...string) string {
	data := fmt.Sprintf("%s-%d", strings.Join(parts, "-"), time.Now().UnixNano())
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])[:16]
}

// GenerateResetToken membuat token reset password acak (32 byte hex).
func GenerateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
