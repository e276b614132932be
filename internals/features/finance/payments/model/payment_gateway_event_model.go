// file: internals/features/finance/payments/model/payment_gateway_event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
  payment_gateway_events = LOG WEBHOOK / CALLBACK MIDTRANS
  - Bisa banyak row per 1 payment (tiap notifikasi).
  - Nyimpen raw payload buat debug / replay.
*/

type PaymentGatewayEventModel struct {
	GatewayEventID uuid.UUID `gorm:"type:uuid;primaryKey;column:gateway_event_id" json:"gateway_event_id"`

	GatewayEventOrderID           string         `gorm:"size:64;not null;index;column:gateway_event_order_id" json:"gateway_event_order_id"`
	GatewayEventTransactionStatus string         `gorm:"size:30;not null;column:gateway_event_transaction_status" json:"gateway_event_transaction_status"`
	GatewayEventPayload           datatypes.JSON `gorm:"column:gateway_event_payload" json:"gateway_event_payload"`

	GatewayEventReceivedAt time.Time `gorm:"not null;column:gateway_event_received_at;autoCreateTime" json:"gateway_event_received_at"`
}

func (PaymentGatewayEventModel) TableName() string { return "payment_gateway_events" }

func (e *PaymentGatewayEventModel) BeforeCreate(tx *gorm.DB) error {
	if e.GatewayEventID == uuid.Nil {
		e.GatewayEventID = uuid.New()
	}
	return nil
}
