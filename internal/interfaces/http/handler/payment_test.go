package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	billingapp "github.com/boardinghouse/backend/internal/application/billing"
	"github.com/boardinghouse/backend/internal/domain/billing"
	"github.com/boardinghouse/backend/internal/domain/housing"
	"github.com/boardinghouse/backend/internal/domain/shared/valueobject"
	"github.com/boardinghouse/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type billingTestEnv struct {
	payments *MockPaymentRepository
	tenants  *MockTenantRepository
	rooms    *MockRoomRepository
	router   *gin.Engine
}

func newBillingTestEnv(t *testing.T) *billingTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	payments := new(MockPaymentRepository)
	tenants := new(MockTenantRepository)
	rooms := new(MockRoomRepository)
	events := new(MockEventPublisher)
	events.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	logger := zap.NewNop()
	rentService := billingapp.NewRentService(payments, tenants, rooms, events, logger)
	paymentService := billingapp.NewPaymentService(payments, tenants, rooms, rentService, events, logger)
	sweepService := billingapp.NewSweepService(payments, events, logger)

	router := gin.New()
	api := router.Group("/api/v1")
	NewPaymentHandler(paymentService, rentService, sweepService).RegisterRoutes(api)

	return &billingTestEnv{
		payments: payments,
		tenants:  tenants,
		rooms:    rooms,
		router:   router,
	}
}

func (e *billingTestEnv) do(t *testing.T, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp dto.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func pendingTestPayment(t *testing.T, due time.Time) *billing.Payment {
	t.Helper()
	amount := valueobject.NewMoneyPHP(decimal.RequireFromString("6000"))
	payment, err := billing.NewDepositPayment(uuid.New(), nil, amount, due, nil)
	require.NoError(t, err)
	payment.ClearDomainEvents()
	return payment
}

func TestPaymentHandler_Get(t *testing.T) {
	t.Run("returns the payment", func(t *testing.T) {
		env := newBillingTestEnv(t)
		payment := pendingTestPayment(t, time.Now().AddDate(0, 0, 7))
		env.payments.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)

		w, resp := env.do(t, http.MethodGet, "/api/v1/billing/payments/"+payment.ID.String(), nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, payment.ID.String(), data["id"])
		assert.Equal(t, "6000.00", data["amount"])
		assert.Equal(t, "pending", data["status"])
	})

	t.Run("unknown payment is a 404", func(t *testing.T) {
		env := newBillingTestEnv(t)
		env.payments.On("FindByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil, nil)

		w, resp := env.do(t, http.MethodGet, "/api/v1/billing/payments/"+uuid.NewString(), nil, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("malformed ID is a 400", func(t *testing.T) {
		env := newBillingTestEnv(t)

		w, resp := env.do(t, http.MethodGet, "/api/v1/billing/payments/not-a-uuid", nil, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	})
}

func TestPaymentHandler_MarkPaid(t *testing.T) {
	actorID := uuid.New()

	t.Run("settles the payment", func(t *testing.T) {
		env := newBillingTestEnv(t)
		payment := pendingTestPayment(t, time.Now().AddDate(0, 0, 7))
		env.payments.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)
		env.payments.On("Update", mock.Anything, payment).Return(nil)
		// Deposit settlement triggers rent generation for the tenant.
		env.tenants.On("FindByID", mock.Anything, payment.TenantID).Return(nil, nil)

		w, resp := env.do(t, http.MethodPost, "/api/v1/billing/payments/"+payment.ID.String()+"/pay",
			MarkPaidRequest{TransactionRef: "GCASH-1234"},
			map[string]string{"X-Actor-ID": actorID.String()},
		)

		assert.Equal(t, http.StatusOK, w.Code)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "paid", data["status"])
		assert.NotEmpty(t, data["receipt_number"])
		assert.Equal(t, "GCASH-1234", data["transaction_ref"])
	})

	t.Run("no actor header is a 400", func(t *testing.T) {
		env := newBillingTestEnv(t)

		w, _ := env.do(t, http.MethodPost, "/api/v1/billing/payments/"+uuid.NewString()+"/pay", nil, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env.payments.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("double settlement is a 422", func(t *testing.T) {
		env := newBillingTestEnv(t)
		payment := pendingTestPayment(t, time.Now().AddDate(0, 0, 7))
		require.NoError(t, payment.MarkPaid(time.Now(), nil, ""))
		payment.ClearDomainEvents()
		env.payments.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)

		w, resp := env.do(t, http.MethodPost, "/api/v1/billing/payments/"+payment.ID.String()+"/pay",
			nil, map[string]string{"X-Actor-ID": actorID.String()},
		)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
	})
}

func TestPaymentHandler_Create(t *testing.T) {
	t.Run("records a utility charge", func(t *testing.T) {
		env := newBillingTestEnv(t)
		tenant := housing.NewTenant("Ana Reyes", "", "")
		tenant.ClearDomainEvents()
		env.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
		env.payments.On("Save", mock.Anything, mock.AnythingOfType("*billing.Payment")).Return(nil)

		w, resp := env.do(t, http.MethodPost, "/api/v1/billing/payments", CreatePaymentRequest{
			TenantID: tenant.ID.String(),
			Amount:   "850.50",
			Type:     "utility",
			DueDate:  "2024-02-15",
			Notes:    "Electric bill, February",
		}, nil)

		assert.Equal(t, http.StatusCreated, w.Code)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "850.50", data["amount"])
		assert.Equal(t, "utility", data["type"])
	})

	t.Run("rejects an unknown payment type", func(t *testing.T) {
		env := newBillingTestEnv(t)

		w, _ := env.do(t, http.MethodPost, "/api/v1/billing/payments", CreatePaymentRequest{
			TenantID: uuid.NewString(),
			Amount:   "100",
			Type:     "bribery",
			DueDate:  "2024-02-15",
		}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPaymentHandler_GenerateRent(t *testing.T) {
	t.Run("generates for the requested month", func(t *testing.T) {
		env := newBillingTestEnv(t)
		env.tenants.On("FindActive", mock.Anything).Return([]*housing.Tenant{}, nil)

		w, resp := env.do(t, http.MethodPost, "/api/v1/billing/rent/generate?month=2024-02", nil, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "2024-02", data["month"])
		assert.Equal(t, float64(0), data["created"])
	})

	t.Run("rejects a malformed month", func(t *testing.T) {
		env := newBillingTestEnv(t)

		w, _ := env.do(t, http.MethodPost, "/api/v1/billing/rent/generate?month=February", nil, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPaymentHandler_ListForTenant(t *testing.T) {
	env := newBillingTestEnv(t)
	tenantID := uuid.New()
	payment := pendingTestPayment(t, time.Now().AddDate(0, 0, 7))
	env.payments.On("FindByTenant", mock.Anything, tenantID).Return([]*billing.Payment{payment}, nil)

	w, resp := env.do(t, http.MethodGet, "/api/v1/billing/tenants/"+tenantID.String()+"/payments", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	items := resp.Data.([]any)
	require.Len(t, items, 1)
}
