package middlewares

import (
	"net/http"
	"strings"

	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const CallerContextKey = "caller"

// TokenVerifier resolves a bearer token into the administrator it was issued to.
type TokenVerifier interface {
	Verify(token string) (model.Caller, error)
}

// AdminAuth resolves the Authorization header into a Caller. It never
// rejects the request itself; handlers decide whether an anonymous caller
// is acceptable.
func AdminAuth(verifier TokenVerifier, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Set(CallerContextKey, model.AnonymousCaller())
			c.Next()
			return
		}

		caller, err := verifier.Verify(token)
		if err != nil {
			logger.Warn("rejected admin token",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			caller = model.AnonymousCaller()
		}

		c.Set(CallerContextKey, caller)
		c.Next()
	}
}

// RequireAdmin aborts with 401 unless AdminAuth resolved an authenticated caller.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if caller := GetCallerFromContext(c); !caller.Authenticated {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthenticated",
				"message": "a valid administrator token is required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetCallerFromContext(c *gin.Context) model.Caller {
	value, exists := c.Get(CallerContextKey)
	if !exists {
		return model.AnonymousCaller()
	}

	caller, ok := value.(model.Caller)
	if !ok {
		return model.AnonymousCaller()
	}
	return caller
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
