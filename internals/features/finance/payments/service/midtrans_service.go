package service

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/raffayuda/lesson-app/internals/features/finance/payments/model"
)

/* =========================================================
   Midtrans Client
========================================================= */

var SnapClient snap.Client

var midtransServerKey string

// InitMidtrans dipanggil sekali saat bootstrap.
// useProduction=false → Sandbox.
func InitMidtrans(serverKey string, useProduction bool) {
	midtransServerKey = serverKey
	if useProduction {
		SnapClient.New(serverKey, midtrans.Production)
	} else {
		SnapClient.New(serverKey, midtrans.Sandbox)
	}
}

func MidtransEnabled() bool { return midtransServerKey != "" }

type CustomerInput struct {
	Name  string
	Email string
}

/* =========================================================
   Generate Snap Token
========================================================= */

func GenerateSnapToken(p model.PaymentModel, cust CustomerInput) (string, string, error) {
	if p.PaymentAmount <= 0 {
		return "", "", errors.New("invalid payment_amount")
	}
	if p.PaymentOrderID == nil || *p.PaymentOrderID == "" {
		return "", "", errors.New("payment_order_id is required")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  *p.PaymentOrderID,
			GrossAmt: int64(p.PaymentAmount),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.Name,
			Email: cust.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       *p.PaymentOrderID,
				Price:    int64(p.PaymentAmount),
				Qty:      1,
				Name:     truncate(p.PaymentDescription, 50),
				Category: "SPP",
			},
		},
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}

// VerifySignature mencocokkan signature_key notifikasi Midtrans:
// sha512(order_id + status_code + gross_amount + server_key).
func VerifySignature(orderID, statusCode, grossAmount, signatureKey string) bool {
	if midtransServerKey == "" {
		return false
	}
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + midtransServerKey))
	return hex.EncodeToString(sum[:]) == signatureKey
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
