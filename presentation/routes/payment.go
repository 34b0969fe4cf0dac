package routes

import (
	"github.com/anjaliconnect/api/presentation/controllers/payment"
	"github.com/gin-gonic/gin"
)

// PaymentRoutes registers donation intake on public, the gateway callback on
// webhook and the ledger views on admin.
func PaymentRoutes(public, webhook, admin *gin.RouterGroup, controller payment.PaymentController) {
	public.POST("/payments", controller.RecordIntent)
	webhook.POST("/payments/:id/settlement", controller.Settle)

	payments := admin.Group("/payments")
	{
		payments.GET("", controller.ListPayments)
		payments.GET("/summary", controller.Summary)
		payments.GET("/:id", controller.GetPayment)
	}
}
