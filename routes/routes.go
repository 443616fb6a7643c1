package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"deal-detector/config"
	"deal-detector/domain/coupon"
	"deal-detector/domain/sync"
	"deal-detector/middleware"
)

// RegisterRoutes wires the HTTP surface. The webhook endpoint is
// unauthenticated because the push sender carries no user token; the
// read API and manual resync sit behind JWT auth.
func RegisterRoutes(e *echo.Echo, webhook *sync.WebhookHandler, coupons *coupon.Handler) {
	e.GET("/health", healthCheck)

	e.POST("/webhooks/gmail", webhook.HandleNotification)

	api := e.Group("", middleware.JWTMiddleware())
	api.GET("/coupons", coupons.ListCoupons)
	api.GET("/coupons/:message_id", coupons.GetCoupon)
	api.POST("/sync/resync", webhook.TriggerResync)
}

func healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	status := http.StatusOK
	if err := config.DB.PingContext(ctx); err != nil {
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, map[string]string{
		"status":   "ok",
		"database": dbStatus,
	})
}
