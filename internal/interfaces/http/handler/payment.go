package handler

import (
	"time"

	billingapp "github.com/boardinghouse/backend/internal/application/billing"
	"github.com/boardinghouse/backend/internal/domain/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles billing API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
	rentService    *billingapp.RentService
	sweepService   *billingapp.SweepService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(
	paymentService *billingapp.PaymentService,
	rentService *billingapp.RentService,
	sweepService *billingapp.SweepService,
) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		rentService:    rentService,
		sweepService:   sweepService,
	}
}

// CreatePaymentRequest represents a request to record a manual payment
type CreatePaymentRequest struct {
	TenantID string `json:"tenant_id" binding:"required,uuid"`
	Amount   string `json:"amount" binding:"required"`
	Type     string `json:"type" binding:"required,oneof=rent deposit utility maintenance penalty other"`
	DueDate  string `json:"due_date" binding:"required"`
	Notes    string `json:"notes" binding:"max=2000"`
}

// MarkPaidRequest represents a request to settle a payment
type MarkPaidRequest struct {
	TransactionRef string `json:"transaction_ref" binding:"max=128"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID             string     `json:"id"`
	TenantID       string     `json:"tenant_id"`
	RoomID         *string    `json:"room_id,omitempty"`
	Amount         string     `json:"amount"`
	Type           string     `json:"type"`
	Status         string     `json:"status"`
	Method         string     `json:"method"`
	DueDate        time.Time  `json:"due_date"`
	PaymentDate    *time.Time `json:"payment_date,omitempty"`
	Period         string     `json:"period,omitempty"`
	ReceiptNumber  string     `json:"receipt_number,omitempty"`
	IsLatePayment  bool       `json:"is_late_payment"`
	TransactionRef string     `json:"transaction_ref,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toPaymentResponse(p *billing.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:             p.ID.String(),
		TenantID:       p.TenantID.String(),
		Amount:         p.Amount.StringFixed(2),
		Type:           p.Type.String(),
		Status:         p.Status.String(),
		Method:         string(p.Method),
		DueDate:        p.DueDate,
		PaymentDate:    p.PaymentDate,
		ReceiptNumber:  p.ReceiptNumber,
		IsLatePayment:  p.LateFee.IsLate,
		TransactionRef: p.TransactionReference,
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.RoomID != nil {
		roomID := p.RoomID.String()
		resp.RoomID = &roomID
	}
	if period := p.Period(); period != nil {
		resp.Period = period.Label()
	}
	return resp
}

func toPaymentResponses(payments []*billing.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, toPaymentResponse(p))
	}
	return responses
}

// Create records a manual payment
func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.BadRequest(c, "Invalid amount")
		return
	}
	dueDate, err := time.ParseInLocation("2006-01-02", req.DueDate, time.Local)
	if err != nil {
		h.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
		return
	}

	var recordedBy *uuid.UUID
	if actorID, err := getActorID(c); err == nil {
		recordedBy = &actorID
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), billingapp.CreatePaymentInput{
		TenantID:   tenantID,
		Amount:     amount,
		Type:       billing.PaymentType(req.Type),
		DueDate:    dueDate,
		Notes:      req.Notes,
		RecordedBy: recordedBy,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toPaymentResponse(payment))
}

// Get returns a single payment
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPaymentResponse(payment))
}

// MarkPaid settles a payment
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	// Body is optional; settling without a transaction reference is common
	var req MarkPaidRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "X-Actor-ID header is required")
		return
	}

	payment, err := h.paymentService.MarkPaymentPaid(c.Request.Context(), id, actorID, req.TransactionRef)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPaymentResponse(payment))
}

// ListForTenant returns a tenant's payments, newest due first
func (h *PaymentHandler) ListForTenant(c *gin.Context) {
	tenantID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	payments, err := h.paymentService.ListTenantPayments(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPaymentResponses(payments))
}

// GenerateRent triggers rent generation for the given month (default: current)
func (h *PaymentHandler) GenerateRent(c *gin.Context) {
	target := time.Now()
	if month := c.Query("month"); month != "" {
		parsed, err := billing.ParseMonthLabel(month)
		if err != nil {
			h.BadRequest(c, "Invalid month, expected YYYY-MM")
			return
		}
		target = parsed
	}

	var recordedBy *uuid.UUID
	if actorID, err := getActorID(c); err == nil {
		recordedBy = &actorID
	}

	summary, err := h.rentService.GenerateMonthly(c.Request.Context(), target, recordedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// RunOverdueSweep marks past-due pending payments overdue
func (h *PaymentHandler) RunOverdueSweep(c *gin.Context) {
	summary, err := h.sweepService.RunOverdueSweep(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// RunReminderSweep emits due-soon reminders for upcoming payments
func (h *PaymentHandler) RunReminderSweep(c *gin.Context) {
	summary, err := h.sweepService.RunReminderSweep(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// BackfillDeposits creates missing deposit charges for housed tenants
func (h *PaymentHandler) BackfillDeposits(c *gin.Context) {
	var recordedBy *uuid.UUID
	if actorID, err := getActorID(c); err == nil {
		recordedBy = &actorID
	}

	summary, err := h.paymentService.BackfillDeposits(c.Request.Context(), recordedBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// RegisterRoutes registers billing routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/billing")
	{
		group.POST("/payments", h.Create)
		group.GET("/payments/:id", h.Get)
		group.POST("/payments/:id/pay", h.MarkPaid)
		group.GET("/tenants/:id/payments", h.ListForTenant)
		group.POST("/rent/generate", h.GenerateRent)
		group.POST("/sweeps/overdue", h.RunOverdueSweep)
		group.POST("/sweeps/reminders", h.RunReminderSweep)
		group.POST("/deposits/backfill", h.BackfillDeposits)
	}
}
