package controller

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/raffayuda/lesson-app/internals/bot"
	"github.com/raffayuda/lesson-app/internals/features/finance/payments/dto"
	"github.com/raffayuda/lesson-app/internals/features/finance/payments/model"
	"github.com/raffayuda/lesson-app/internals/features/finance/payments/service"
	helper "github.com/raffayuda/lesson-app/internals/helpers"
	authHelper "github.com/raffayuda/lesson-app/internals/helpers/auth"
	"github.com/raffayuda/lesson-app/internals/helpers/dbtime"
	"github.com/raffayuda/lesson-app/internals/helpers/oss"
)

type PaymentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	// keduanya boleh nil; fitur terkait dimatikan dengan anggun
	OSS      *oss.Service
	Notifier *bot.Notifier
}

func NewPaymentController(db *gorm.DB, ossService *oss.Service, notifier *bot.Notifier) *PaymentController {
	return &PaymentController{
		DB:       db,
		Validate: validator.New(),
		OSS:      ossService,
		Notifier: notifier,
	}
}

func (ctrl *PaymentController) withPreloads(db *gorm.DB) *gorm.DB {
	return db.Preload("Student").Preload("Student.User").Preload("Approver")
}

// =============================
// 💳 GET /api/payments
// =============================
// Admin: semua, bisa filter student_id / status / start_date / end_date.
// Siswa: hanya setoran miliknya.
func (ctrl *PaymentController) List(c *fiber.Ctx) error {
	user, err := authHelper.CurrentUser(c)
	if err != nil {
		return err
	}

	q := ctrl.withPreloads(ctrl.DB.Model(&model.PaymentModel{}))

	if !user.IsAdmin() {
		student, err := authHelper.CurrentStudent(ctrl.DB, c)
		if err != nil {
			return err
		}
		q = q.Where("payment_student_id = ?", student.StudentID)
	} else if raw := c.Query("student_id"); raw != "" {
		studentID, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student_id")
		}
		q = q.Where("payment_student_id = ?", studentID)
	}

	if status := c.Query("status"); status != "" {
		switch status {
		case model.PaymentStatusPending, model.PaymentStatusApproved, model.PaymentStatusRejected:
			q = q.Where("payment_status = ?", status)
		default:
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payment status")
		}
	}

	if raw := c.Query("start_date"); raw != "" {
		start, err := time.ParseInLocation("2006-01-02", raw, dbtime.AppLocation())
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid start_date format, expected YYYY-MM-DD")
		}
		q = q.Where("payment_date >= ?", start)
	}
	if raw := c.Query("end_date"); raw != "" {
		end, err := time.ParseInLocation("2006-01-02", raw, dbtime.AppLocation())
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid end_date format, expected YYYY-MM-DD")
		}
		// inklusif sampai akhir hari
		q = q.Where("payment_date < ?", end.AddDate(0, 0, 1))
	}

	var payments []model.PaymentModel
	if err := q.Order("payment_created_at DESC").Find(&payments).Error; err != nil {
		log.Println("[ERROR] gagal ambil payments:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch payments")
	}

	return helper.JsonOK(c, payments)
}

// =============================
// 💸 POST /api/payments (siswa)
// =============================
func (ctrl *PaymentController) Create(c *fiber.Ctx) error {
	user, err := authHelper.CurrentUser(c)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return helper.JsonError(c, fiber.StatusForbidden, "Only students can submit payments")
	}
	student, err := authHelper.CurrentStudent(ctrl.DB, c)
	if err != nil {
		return err
	}

	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	method := model.PaymentMethodTransfer
	if req.Method != nil {
		method = *req.Method
	}
	if method == model.PaymentMethodTransfer && req.ProofImage == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Proof image is required")
	}

	paymentDate, err := time.ParseInLocation("2006-01-02", req.PaymentDate, dbtime.AppLocation())
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payment_date format, expected YYYY-MM-DD")
	}

	proofURL := ""
	if req.ProofImage != nil {
		if ctrl.OSS == nil {
			return helper.JsonError(c, fiber.StatusServiceUnavailable, "File storage is not configured")
		}
		url, err := ctrl.OSS.UploadImageBase64("payment-proofs", student.StudentNIS, *req.ProofImage)
		if err != nil {
			log.Println("[ERROR] gagal upload bukti transfer:", err)
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid proof image")
		}
		proofURL = url
	}

	payment := model.PaymentModel{
		PaymentStudentID:   student.StudentID,
		PaymentAmount:      req.Amount,
		PaymentPayerName:   req.PayerName,
		PaymentDate:        paymentDate,
		PaymentDescription: req.Description,
		PaymentMethod:      method,
		PaymentProofURL:    proofURL,
		PaymentStatus:      model.PaymentStatusPending,
	}

	if err := ctrl.DB.Create(&payment).Error; err != nil {
		log.Println("[ERROR] gagal simpan payment:", err)
		if proofURL != "" && ctrl.OSS != nil {
			_ = ctrl.OSS.DeleteByURL(proofURL)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create payment")
	}

	if err := ctrl.withPreloads(ctrl.DB).First(&payment, "payment_id = ?", payment.PaymentID).Error; err != nil {
		log.Println("[WARN] gagal reload payment:", err)
	}

	// notifikasi best-effort, jangan gagalkan setoran
	if ctrl.Notifier != nil {
		ctrl.Notifier.Notify(service.NewPaymentMessage(&payment))
	}

	return helper.JsonCreated(c, payment)
}

// =============================
// 🧾 GET /api/payments/:id/proof
// =============================
// Redirect ke URL bukti transfer. Pemilik atau admin saja.
func (ctrl *PaymentController) GetProof(c *fiber.Ctx) error {
	user, err := authHelper.CurrentUser(c)
	if err != nil {
		return err
	}

	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payment ID")
	}

	var payment model.PaymentModel
	if err := ctrl.DB.First(&payment, "payment_id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Payment not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if !user.IsAdmin() {
		student, err := authHelper.CurrentStudent(ctrl.DB, c)
		if err != nil {
			return err
		}
		if payment.PaymentStudentID != student.StudentID {
			return helper.JsonError(c, fiber.StatusForbidden, "Access denied")
		}
	}

	if payment.PaymentProofURL == "" {
		return helper.JsonError(c, fiber.StatusNotFound, "Payment has no proof image")
	}

	return c.Redirect(payment.PaymentProofURL, fiber.StatusFound)
}

// =============================
// ✅ PUT /api/payments/:id/approve (admin)
// =============================
// Hanya dari PENDING; approve/reject kedua kali → 409.
func (ctrl *PaymentController) Approve(c *fiber.Ctx) error {
	user, err := authHelper.CurrentUser(c)
	if err != nil {
		return err
	}

	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payment ID")
	}

	var payment model.PaymentModel
	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, "payment_id = ?", paymentID).Error; err != nil {
			return err
		}
		if payment.PaymentStatus != model.PaymentStatusPending {
			return fiber.NewError(fiber.StatusConflict, "Payment is not pending")
		}

		now := time.Now()
		return tx.Model(&payment).Updates(map[string]interface{}{
			"payment_status":           model.PaymentStatusApproved,
			"payment_approved_by_id":   user.UserID,
			"payment_approved_at":      now,
			"payment_rejection_reason": nil,
		}).Error
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Payment not found")
		}
		var fe *fiber.Error
		if errors.As(txErr, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		log.Println("[ERROR] gagal approve payment:", txErr)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to approve payment")
	}

	ctrl.withPreloads(ctrl.DB).First(&payment, "payment_id = ?", paymentID)
	return helper.JsonOK(c, payment)
}

// =============================
// ❌ PUT /api/payments/:id/reject (admin)
// =============================
func (ctrl *PaymentController) Reject(c *fiber.Ctx) error {
	user, err := authHelper.CurrentUser(c)
	if err != nil {
		return err
	}

	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payment ID")
	}

	var req dto.RejectPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var payment model.PaymentModel
	txErr := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, "payment_id = ?", paymentID).Error; err != nil {
			return err
		}
		if payment.PaymentStatus != model.PaymentStatusPending {
			return fiber.NewError(fiber.StatusConflict, "Payment is not pending")
		}

		now := time.Now()
		return tx.Model(&payment).Updates(map[string]interface{}{
			"payment_status":           model.PaymentStatusRejected,
			"payment_approved_by_id":   user.UserID,
			"payment_approved_at":      now,
			"payment_rejection_reason": req.Reason,
		}).Error
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Payment not found")
		}
		var fe *fiber.Error
		if errors.As(txErr, &fe) {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		log.Println("[ERROR] gagal reject payment:", txErr)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reject payment")
	}

	ctrl.withPreloads(ctrl.DB).First(&payment, "payment_id = ?", paymentID)
	return helper.JsonOK(c, payment)
}

// =============================
// 🗑️ DELETE /api/payments/:id (admin)
// =============================
func (ctrl *PaymentController) Delete(c *fiber.Ctx) error {
	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payment ID")
	}

	var payment model.PaymentModel
	if err := ctrl.DB.First(&payment, "payment_id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Payment not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	if err := ctrl.DB.Delete(&payment).Error; err != nil {
		log.Println("[ERROR] gagal hapus payment:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete payment")
	}

	if payment.PaymentProofURL != "" && ctrl.OSS != nil {
		if err := ctrl.OSS.DeleteByURL(payment.PaymentProofURL); err != nil {
			log.Println("[WARN] gagal hapus bukti transfer di OSS:", err)
		}
	}

	return helper.JsonMessage(c, fiber.StatusOK, "Payment deleted successfully")
}

// =============================
// 🛒 POST /api/payments/:id/checkout (siswa)
// =============================
// Minta Snap token Midtrans untuk setoran PENDING milik sendiri.
func (ctrl *PaymentController) Checkout(c *fiber.Ctx) error {
	if !service.MidtransEnabled() {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Payment gateway is not configured")
	}

	student, err := authHelper.CurrentStudent(ctrl.DB, c)
	if err != nil {
		return err
	}

	paymentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payment ID")
	}

	var payment model.PaymentModel
	if err := ctrl.withPreloads(ctrl.DB).First(&payment, "payment_id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Payment not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
	if payment.PaymentStudentID != student.StudentID {
		return helper.JsonError(c, fiber.StatusForbidden, "Access denied")
	}
	if payment.PaymentStatus != model.PaymentStatusPending {
		return helper.JsonError(c, fiber.StatusConflict, "Payment is not pending")
	}

	if payment.PaymentOrderID == nil {
		orderID := fmt.Sprintf("SPP-%s", payment.PaymentID)
		updates := map[string]interface{}{
			"payment_order_id": orderID,
			"payment_method":   model.PaymentMethodGateway,
		}
		if err := ctrl.DB.Model(&payment).Updates(updates).Error; err != nil {
			log.Println("[ERROR] gagal set order id:", err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to start checkout")
		}
		payment.PaymentOrderID = &orderID
		payment.PaymentMethod = model.PaymentMethodGateway
	}

	cust := service.CustomerInput{}
	if payment.Student != nil && payment.Student.User != nil {
		cust.Name = payment.Student.User.UserName
		cust.Email = payment.Student.User.UserEmail
	}

	token, redirectURL, err := service.GenerateSnapToken(payment, cust)
	if err != nil {
		log.Println("[ERROR] gagal buat snap token:", err)
		return helper.JsonError(c, fiber.StatusBadGateway, "Failed to create payment transaction")
	}

	return helper.JsonOK(c, fiber.Map{
		"order_id":     *payment.PaymentOrderID,
		"token":        token,
		"redirect_url": redirectURL,
	})
}

// =============================
// 📨 POST /api/payments/notification (webhook publik)
// =============================
// Verifikasi signature, simpan raw event, settle → approve otomatis.
func (ctrl *PaymentController) Notification(c *fiber.Ctx) error {
	var req dto.MidtransNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.OrderID == "" || req.TransactionStatus == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Missing order_id or transaction_status")
	}

	if !service.VerifySignature(req.OrderID, req.StatusCode, req.GrossAmount, req.SignatureKey) {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid signature")
	}

	event := model.PaymentGatewayEventModel{
		GatewayEventOrderID:           req.OrderID,
		GatewayEventTransactionStatus: req.TransactionStatus,
		GatewayEventPayload:           datatypes.JSON(c.Body()),
	}
	if err := ctrl.DB.Create(&event).Error; err != nil {
		log.Println("[ERROR] gagal simpan gateway event:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to record notification")
	}

	var payment model.PaymentModel
	if err := ctrl.DB.First(&payment, "payment_order_id = ?", req.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Payment not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	settled := req.TransactionStatus == "settlement" ||
		(req.TransactionStatus == "capture" && req.FraudStatus == "accept")
	failed := req.TransactionStatus == "deny" ||
		req.TransactionStatus == "cancel" ||
		req.TransactionStatus == "expire"

	if payment.PaymentStatus == model.PaymentStatusPending {
		now := time.Now()
		var updErr error
		switch {
		case settled:
			updErr = ctrl.DB.Model(&payment).Updates(map[string]interface{}{
				"payment_status":      model.PaymentStatusApproved,
				"payment_approved_at": now,
			}).Error
		case failed:
			reason := "Gateway transaction " + req.TransactionStatus
			updErr = ctrl.DB.Model(&payment).Updates(map[string]interface{}{
				"payment_status":           model.PaymentStatusRejected,
				"payment_approved_at":      now,
				"payment_rejection_reason": reason,
			}).Error
		}
		if updErr != nil {
			log.Println("[ERROR] gagal update status payment dari webhook:", updErr)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process notification")
		}
	}

	return helper.JsonMessage(c, fiber.StatusOK, "Notification processed")
}
