package dto

type CreatePaymentRequest struct {
	Amount      float64 `json:"amount"       validate:"required,gt=0"`
	PayerName   string  `json:"payer_name"   validate:"required,max=100"`
	PaymentDate string  `json:"payment_date" validate:"required,datetime=2006-01-02"`
	Description string  `json:"description"  validate:"required,max=500"`
	// bukti transfer, base64 (boleh data-URL). Wajib untuk method TRANSFER.
	ProofImage *string `json:"proof_image" validate:"omitempty"`
	// TRANSFER (default) | GATEWAY
	Method *string `json:"method" validate:"omitempty,oneof=TRANSFER GATEWAY"`
}

type RejectPaymentRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// Body notifikasi HTTP Midtrans; field lain dari payload mentah ikut
// tersimpan sebagai JSON di payment_gateway_events.
type MidtransNotificationRequest struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}
