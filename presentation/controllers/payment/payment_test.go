package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	paymentUseCase "github.com/anjaliconnect/api/application/usecases/payment"
	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/notification/notificationtest"
	"github.com/anjaliconnect/api/domain/repository/repositorytest"
	"github.com/anjaliconnect/api/infrastructure/logger"
	"github.com/anjaliconnect/api/infrastructure/metrics"
	"github.com/anjaliconnect/api/presentation/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.opentelemetry.io/otel/metric/noop"
)

var now = time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	binding.Validator = new(middlewares.DefaultValidator)
	os.Exit(m.Run())
}

type fixture struct {
	payments *repositorytest.PaymentStore
	sender   *notificationtest.Sender
	router   *gin.Engine
}

func newFixture(payments ...model.Payment) *fixture {
	f := &fixture{
		payments: repositorytest.NewPaymentStore(payments...),
		sender:   &notificationtest.Sender{},
	}
	log := logger.NewNop()
	controller := NewPaymentController(paymentUseCase.NewPaymentUseCase(
		f.payments,
		repositorytest.NewMemberStore(),
		f.sender,
		&notificationtest.Renderer{},
		metrics.NewMetricsManager(noop.NewMeterProvider().Meter("test"), log),
		fixedClock{},
		log,
	))

	f.router = gin.New()
	f.router.POST("/payments", controller.RecordIntent)
	f.router.POST("/payments/:id/settlement", controller.Settle)
	f.router.GET("/admin/payments", controller.ListPayments)
	f.router.GET("/admin/payments/summary", controller.Summary)
	f.router.GET("/admin/payments/:id", controller.GetPayment)
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func payment(id string, status model.PaymentStatus, amount int) model.Payment {
	return model.Payment{
		ID:        id,
		Name:      "Meera",
		Email:     "meera@example.com",
		Phone:     "9830000001",
		Amount:    amount,
		Type:      model.PaymentOneTime,
		Status:    status,
		CreatedAt: now.Add(-time.Hour),
	}
}

func TestRecordIntentAmountBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount int
		status int
	}{
		{50, http.StatusBadRequest},
		{99, http.StatusBadRequest},
		{100, http.StatusCreated},
		{2500, http.StatusCreated},
	}

	for _, tt := range tests {
		f := newFixture()
		body := `{"name":"Meera","email":"meera@example.com","phone":"9830000001","type":"one-time","amount":` +
			strconv.Itoa(tt.amount) + `}`
		rec := f.do(http.MethodPost, "/payments", body)
		if rec.Code != tt.status {
			t.Fatalf("amount %d: status = %d, want %d (body %s)", tt.amount, rec.Code, tt.status, rec.Body)
		}
	}
}

func TestRecordIntentReturnsPendingPayment(t *testing.T) {
	t.Parallel()

	f := newFixture()
	rec := f.do(http.MethodPost, "/payments",
		`{"name":"Meera","email":"meera@example.com","phone":"9830000001","type":"monthly","amount":500,"message":"for the school"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp PaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "pending" || resp.Amount != 500 || resp.Message == nil {
		t.Fatalf("response = %+v", resp)
	}
}

func TestSettleKeepsFirstFinalStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(payment("p1", model.PaymentPending, 500))

	for i, body := range []string{
		`{"status":"completed","gateway_reference":"pay_123"}`,
		`{"status":"failed","gateway_reference":"pay_123"}`,
	} {
		rec := f.do(http.MethodPost, "/payments/p1/settlement", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d: status = %d, body %s", i, rec.Code, rec.Body)
		}
	}

	if sent := f.sender.Sent(); len(sent) != 1 || sent[0].To != "meera@example.com" {
		t.Fatalf("receipts = %+v, want exactly one", sent)
	}
	if stored, _ := f.payments.GetByID(context.Background(), "p1"); stored.Status != model.PaymentCompleted {
		t.Fatalf("status = %s, want completed", stored.Status)
	}
}

func TestSettleRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"unknown payment", "/payments/ghost/settlement", `{"status":"completed"}`, http.StatusNotFound},
		{"non terminal status", "/payments/p1/settlement", `{"status":"pending"}`, http.StatusBadRequest},
		{"missing status", "/payments/p1/settlement", `{}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(payment("p1", model.PaymentPending, 500))
			if rec := f.do(http.MethodPost, tt.path, tt.body); rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if len(f.sender.Sent()) != 0 {
				t.Fatal("rejected settlement sent a receipt")
			}
		})
	}
}

func TestListAndSummary(t *testing.T) {
	t.Parallel()

	f := newFixture(
		payment("p1", model.PaymentCompleted, 500),
		payment("p2", model.PaymentPending, 300),
		payment("p3", model.PaymentCompleted, 1000),
	)

	rec := f.do(http.MethodGet, "/admin/payments?status=completed", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list []PaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("completed payments = %d, want 2", len(list))
	}

	if rec := f.do(http.MethodGet, "/admin/payments?status=refunded", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad filter status = %d, want 400", rec.Code)
	}

	rec = f.do(http.MethodGet, "/admin/payments/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
	var summary SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	want := SummaryResponse{TotalAmount: 1800, CompletedAmount: 1500, CompletedCount: 2, PendingCount: 1}
	if summary != want {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}
}

func TestGetPaymentNotFound(t *testing.T) {
	t.Parallel()

	if rec := newFixture().do(http.MethodGet, "/admin/payments/ghost", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
