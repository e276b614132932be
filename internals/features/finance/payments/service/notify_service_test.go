package service

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/raffayuda/lesson-app/internals/features/finance/payments/model"
	studentModel "github.com/raffayuda/lesson-app/internals/features/school/students/model"
	userModel "github.com/raffayuda/lesson-app/internals/features/users/user/model"
)

func TestFormatRupiah(t *testing.T) {
	require.Equal(t, "150.000", FormatRupiah(150000))
	require.Equal(t, "1.234.567", FormatRupiah(1234567))
	require.Equal(t, "1.234.567,89", FormatRupiah(1234567.89))
	require.Equal(t, "999", FormatRupiah(999))
	require.Equal(t, "0", FormatRupiah(0))
}

func TestNewPaymentMessage(t *testing.T) {
	p := &model.PaymentModel{
		PaymentAmount:      150000,
		PaymentPayerName:   "Ibu Sari",
		PaymentDate:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		PaymentDescription: "SPP Maret",
		Student: &studentModel.StudentModel{
			StudentNIS: "202401",
			User:       &userModel.UserModel{UserName: "Budi"},
		},
	}

	msg := NewPaymentMessage(p)
	require.True(t, strings.HasPrefix(msg, "🔔 *New Payment Submission*"))
	require.Contains(t, msg, "*Student:* Budi")
	require.Contains(t, msg, "*Student ID:* 202401")
	require.Contains(t, msg, "Rp 150.000")
	require.Contains(t, msg, "*Payer:* Ibu Sari")
	require.Contains(t, msg, "PENDING APPROVAL")
}

func TestVerifySignature(t *testing.T) {
	InitMidtrans("server-key-test", false)

	sum := sha512.Sum512([]byte("ORDER-1" + "200" + "150000.00" + "server-key-test"))
	valid := hex.EncodeToString(sum[:])

	require.True(t, VerifySignature("ORDER-1", "200", "150000.00", valid))
	require.False(t, VerifySignature("ORDER-1", "200", "150000.00", "palsu"))
	require.False(t, VerifySignature("ORDER-2", "200", "150000.00", valid))
}
