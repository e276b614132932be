package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/raffayuda/lesson-app/internals/features/finance/payments/model"
	"github.com/raffayuda/lesson-app/internals/helpers/dbtime"
)

// NewPaymentMessage menyusun pesan Telegram (Markdown) untuk setoran baru.
// Payment harus sudah Preload Student.User.
func NewPaymentMessage(p *model.PaymentModel) string {
	studentName := ""
	studentNIS := ""
	if p.Student != nil {
		studentNIS = p.Student.StudentNIS
		if p.Student.User != nil {
			studentName = p.Student.User.UserName
		}
	}

	loc := dbtime.AppLocation()
	lines := []string{
		"🔔 *New Payment Submission*",
		"",
		fmt.Sprintf("👤 *Student:* %s", studentName),
		fmt.Sprintf("🆔 *Student ID:* %s", studentNIS),
		fmt.Sprintf("💰 *Amount:* Rp %s", FormatRupiah(p.PaymentAmount)),
		fmt.Sprintf("👨‍💼 *Payer:* %s", p.PaymentPayerName),
		fmt.Sprintf("📅 *Date:* %s", p.PaymentDate.In(loc).Format("02/01/2006")),
		fmt.Sprintf("📝 *Description:* %s", p.PaymentDescription),
		fmt.Sprintf("⏰ *Submitted:* %s", time.Now().In(loc).Format("02/01/2006 15:04:05")),
		"",
		"Status: ⏳ *PENDING APPROVAL*",
	}
	return strings.Join(lines, "\n")
}

// FormatRupiah: pemisah ribuan titik gaya id-ID (1234567.89 → "1.234.567,89").
func FormatRupiah(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', -1, 64)
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	var b strings.Builder
	n := len(intPart)
	for i, ch := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}
