package dependency

import (
	"net/http"
	"time"

	"github.com/anjaliconnect/api/infrastructure/cache"
	"github.com/anjaliconnect/api/infrastructure/metrics"
	"github.com/anjaliconnect/api/infrastructure/persistence/database"
	"github.com/anjaliconnect/api/presentation/controllers/application"
	"github.com/anjaliconnect/api/presentation/controllers/dashboard"
	"github.com/anjaliconnect/api/presentation/controllers/member"
	"github.com/anjaliconnect/api/presentation/controllers/payment"
	"github.com/anjaliconnect/api/presentation/controllers/reminder"
	"github.com/anjaliconnect/api/presentation/middlewares"
	"github.com/anjaliconnect/api/presentation/routes"
	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

func (c *Container) initControllers() {
	c.ApplicationController = application.NewApplicationController(c.ApplicationUC)
	c.MemberController = member.NewMemberController(c.MemberUC)
	c.PaymentController = payment.NewPaymentController(c.PaymentUC)
	c.ReminderController = reminder.NewReminderController(c.ReminderUC)
	c.DashboardController = dashboard.NewDashboardController(c.DashboardUC)

	c.Logger.Info("Controllers initialized successfully")
}

func (c *Container) SetupRouter() *gin.Engine {
	switch c.Config.Server.RunMode {
	case "release", "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	binding.Validator = new(middlewares.DefaultValidator)

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         5 * time.Second,
	}))

	if c.Config.IsProduction() {
		router.Use(middlewares.ForceHttps(c.Config))
	}

	router.Use(middlewares.GinLogger(c.Logger))
	router.Use(middlewares.CorsMiddleware(c.Config))

	router.GET("/health", c.healthCheckHandler)

	c.registerObservabilityRoutes(router)

	c.registerAPIRoutes(router)

	c.Logger.Info("Router configured successfully")

	return router
}

func (c *Container) registerAPIRoutes(router *gin.Engine) {
	redisClient := cache.GetRedis()

	v1 := router.Group("/api/v1")
	v1.Use(metrics.RequestMetrics(c.MetricsManager))

	public := v1.Group("")
	public.Use(middlewares.RateLimiterMiddleware(redisClient, c.Logger, middlewares.StrictRateLimiterConfig()))

	webhook := v1.Group("")
	if c.WebhookSigner != nil {
		webhook.Use(middlewares.WebhookSignature(c.WebhookSigner, c.Logger))
	} else {
		c.Logger.Warn("auth.webhookSecret not set, settlement webhook rejects every request")
		webhook.Use(func(ctx *gin.Context) {
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error":   "webhook_disabled",
				"message": "settlement webhook is not configured",
			})
		})
	}

	admin := v1.Group("/admin")
	admin.Use(middlewares.AdminAuth(c.TokenVerifier, c.Logger))
	admin.Use(middlewares.RequireAdmin())
	admin.Use(middlewares.RateLimiterMiddleware(redisClient, c.Logger, middlewares.ModerateRateLimiterConfig()))
	admin.Use(func(ctx *gin.Context) {
		if hub := sentrygin.GetHubFromContext(ctx); hub != nil {
			caller := middlewares.GetCallerFromContext(ctx)
			hub.Scope().SetUser(sentry.User{
				Email:     caller.Identity,
				IPAddress: ctx.ClientIP(),
			})
			hub.Scope().SetTag("user_type", "admin")
		}
		ctx.Next()
	})

	routes.ApplicationRoutes(public, admin, c.ApplicationController)
	routes.PaymentRoutes(public, webhook, admin, c.PaymentController)
	routes.ReminderRoutes(admin, c.ReminderController)
	routes.MemberRoutes(admin, c.MemberController)
	routes.DashboardRoutes(admin, c.DashboardController)
}

func (c *Container) healthCheckHandler(ctx *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	}

	if db, err := database.GetDb().DB(); err != nil || db.PingContext(ctx.Request.Context()) != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["database"] = "unreachable"
	}

	ctx.JSON(status, body)
}

func (c *Container) registerObservabilityRoutes(router *gin.Engine) {
	metricsGroup := router.Group("/observability")
	{
		metrics.GetHandler(metricsGroup, c.MetricsManager)
	}
}

func (c *Container) Shutdown() error {
	c.Logger.Info("Shutting down dependencies...")

	if c.cancel != nil {
		c.cancel()
	}

	if c.ReminderJob != nil {
		c.ReminderJob.Stop()
	}

	if c.RabbitMQ != nil {
		c.RabbitMQ.Close()
	}

	if c.Mailer != nil {
		if err := c.Mailer.Close(); err != nil {
			c.Logger.Error("failed to close SMTP sender", zap.Error(err))
		}
	}

	c.shutdownTelemetry()

	if err := cache.CloseRedis(); err != nil {
		c.Logger.Error("failed to close redis", zap.Error(err))
	}

	database.CloseDb()

	c.Logger.Info("Dependencies shut down successfully")

	if err := c.Logger.Log.Sync(); err != nil {
		c.Logger.Error("failed to sync logger", zap.Error(err))
	}

	return nil
}
