package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	studentModel "github.com/raffayuda/lesson-app/internals/features/school/students/model"
	userModel "github.com/raffayuda/lesson-app/internals/features/users/user/model"
)

/* ===================== Enums (string) ===================== */

const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusApproved = "APPROVED"
	PaymentStatusRejected = "REJECTED"
)

const (
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCash     = "CASH"
	PaymentMethodGateway  = "GATEWAY"
)

/* ===================== Model ===================== */

// PaymentModel: setoran SPP dari siswa. Bukti transfer disimpan sebagai URL
// OSS (bukan base64 di DB). Transisi status hanya lewat approve/reject.
type PaymentModel struct {
	PaymentID uuid.UUID `gorm:"type:uuid;primaryKey;column:payment_id" json:"payment_id"`

	PaymentStudentID uuid.UUID `gorm:"type:uuid;not null;index;column:payment_student_id" json:"payment_student_id"`

	PaymentAmount      float64   `gorm:"not null;column:payment_amount"            json:"payment_amount"`
	PaymentPayerName   string    `gorm:"size:100;not null;column:payment_payer_name" json:"payment_payer_name"`
	PaymentDate        time.Time `gorm:"not null;column:payment_date"              json:"payment_date"`
	PaymentDescription string    `gorm:"size:500;not null;column:payment_description" json:"payment_description"`
	PaymentMethod      string    `gorm:"size:20;not null;default:TRANSFER;column:payment_method" json:"payment_method"`

	PaymentProofURL string `gorm:"size:500;column:payment_proof_url" json:"payment_proof_url"`

	// PENDING | APPROVED | REJECTED
	PaymentStatus          string     `gorm:"size:20;not null;default:PENDING;index;column:payment_status" json:"payment_status"`
	PaymentRejectionReason *string    `gorm:"size:500;column:payment_rejection_reason" json:"payment_rejection_reason,omitempty"`
	PaymentApprovedByID    *uuid.UUID `gorm:"type:uuid;column:payment_approved_by_id"  json:"payment_approved_by_id,omitempty"`
	PaymentApprovedAt      *time.Time `gorm:"column:payment_approved_at"               json:"payment_approved_at,omitempty"`

	// order id Midtrans (hanya terisi kalau siswa memilih bayar via gateway)
	PaymentOrderID *string `gorm:"size:64;uniqueIndex;column:payment_order_id" json:"payment_order_id,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`

	Student  *studentModel.StudentModel `gorm:"foreignKey:PaymentStudentID;references:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Approver *userModel.UserModel       `gorm:"foreignKey:PaymentApprovedByID;references:UserID;constraint:OnDelete:SET NULL" json:"approver,omitempty"`
}

func (PaymentModel) TableName() string { return "payments" }

func (p *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}
