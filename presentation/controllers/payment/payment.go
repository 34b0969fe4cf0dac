package payment

import (
	"net/http"

	paymentUseCase "github.com/anjaliconnect/api/application/usecases/payment"
	"github.com/anjaliconnect/api/presentation/controllers/common"
	"github.com/gin-gonic/gin"
)

type PaymentController interface {
	RecordIntent(ctx *gin.Context)
	Settle(ctx *gin.Context)
	GetPayment(ctx *gin.Context)
	ListPayments(ctx *gin.Context)
	Summary(ctx *gin.Context)
}

type paymentController struct {
	usecase paymentUseCase.PaymentUseCase
}

func NewPaymentController(usecase paymentUseCase.PaymentUseCase) PaymentController {
	return &paymentController{
		usecase: usecase,
	}
}

func (c *paymentController) RecordIntent(ctx *gin.Context) {
	var req RecordPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		common.WriteBindError(ctx, err)
		return
	}

	payment, err := c.usecase.RecordIntent(ctx.Request.Context(), paymentUseCase.RecordIntentInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Amount:   req.Amount,
		Type:     req.Type,
		Message:  req.Message,
		MemberID: req.MemberID,
	})
	if err != nil {
		common.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toPaymentResponse(payment))
}

// Settle is the gateway webhook. A repeated event for an already final
// payment is acknowledged with 200.
func (c *paymentController) Settle(ctx *gin.Context) {
	var req SettlementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		common.WriteBindError(ctx, err)
		return
	}

	err := c.usecase.Settle(ctx.Request.Context(), paymentUseCase.SettlementEvent{
		PaymentID:        ctx.Param("id"),
		Status:           req.Status,
		GatewayReference: req.GatewayReference,
	})
	if err != nil {
		common.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, common.SuccessResponse{Message: "settlement recorded"})
}

func (c *paymentController) GetPayment(ctx *gin.Context) {
	payment, err := c.usecase.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		common.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toPaymentResponse(payment))
}

func (c *paymentController) ListPayments(ctx *gin.Context) {
	var query ListPaymentsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		common.WriteBindError(ctx, err)
		return
	}

	payments, err := c.usecase.List(ctx.Request.Context(), paymentUseCase.ListFilter{
		Status: query.Status,
		Type:   query.Type,
		Limit:  query.Limit,
	})
	if err != nil {
		common.WriteError(ctx, err)
		return
	}

	resp := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, toPaymentResponse(&payments[i]))
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *paymentController) Summary(ctx *gin.Context) {
	totals, err := c.usecase.Summary(ctx.Request.Context())
	if err != nil {
		common.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toSummaryResponse(totals))
}
