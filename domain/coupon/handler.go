package coupon

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"deal-detector/pkg/apperrors"
)

// Handler serves the coupon read API. The mailbox comes from the JWT
// middleware; only fully assembled records are visible.
type Handler struct {
	store *Store
}

// NewHandler creates the coupon API handler.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// ListCoupons returns every assembled record for the caller's mailbox.
func (h *Handler) ListCoupons(c echo.Context) error {
	mailbox, _ := c.Get("mailbox").(string)
	if mailbox == "" {
		return apperrors.NewUnauthorized(apperrors.ErrCodeTokenInvalid, "No mailbox in session")
	}

	records, err := h.store.ListByMailbox(c.Request().Context(), mailbox)
	if err != nil {
		return apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to list coupons", err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"coupons": records,
		"count":   len(records),
	})
}

// GetCoupon returns one record by message id.
func (h *Handler) GetCoupon(c echo.Context) error {
	mailbox, _ := c.Get("mailbox").(string)
	if mailbox == "" {
		return apperrors.NewUnauthorized(apperrors.ErrCodeTokenInvalid, "No mailbox in session")
	}

	messageID := c.Param("message_id")
	if messageID == "" {
		return apperrors.NewBadRequest(apperrors.ErrCodeInvalidInput, "Missing message id")
	}

	rec, err := h.store.GetByMessageID(c.Request().Context(), mailbox, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFound(apperrors.ErrCodeCouponNotFound, "Coupon not found")
		}
		return apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to fetch coupon", err)
	}

	return c.JSON(http.StatusOK, rec)
}
