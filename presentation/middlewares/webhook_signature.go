package middlewares

import (
	"bytes"
	"io"
	"net/http"

	"github.com/anjaliconnect/api/infrastructure/logger"
	"github.com/anjaliconnect/api/infrastructure/sign"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SignatureHeader = "X-Signature"

	maxWebhookBody = 64 << 10
)

// WebhookSignature verifies the gateway's HMAC over the raw body and puts the
// body back for the handler to bind.
func WebhookSignature(signer sign.ISign, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "failed to read request body",
			})
			c.Abort()
			return
		}
		if len(body) > maxWebhookBody {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":   "invalid_request",
				"message": "request body too large",
			})
			c.Abort()
			return
		}

		if err := signer.Verify(body, c.GetHeader(SignatureHeader)); err != nil {
			logger.Warn("webhook signature rejected",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_signature",
				"message": err.Error(),
			})
			c.Abort()
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Next()
	}
}
