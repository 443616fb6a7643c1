package coupon

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"deal-detector/pkg/apperrors"
)

func couponRequest(t *testing.T, mailbox, messageID string) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/coupons", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if mailbox != "" {
		c.Set("mailbox", mailbox)
	}
	if messageID != "" {
		c.SetParamNames("message_id")
		c.SetParamValues(messageID)
	}
	return c
}

func TestListCouponsRequiresMailbox(t *testing.T) {
	handler := NewHandler(nil)

	err := handler.ListCoupons(couponRequest(t, "", ""))
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.HTTPStatus != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 AppError", err)
	}
}

func TestGetCouponRequiresMailbox(t *testing.T) {
	handler := NewHandler(nil)

	err := handler.GetCoupon(couponRequest(t, "", "msg-1"))
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.HTTPStatus != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 AppError", err)
	}
}

func TestGetCouponRejectsEmptyMessageID(t *testing.T) {
	handler := NewHandler(nil)

	err := handler.GetCoupon(couponRequest(t, "user@example.com", ""))
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400 AppError", err)
	}
	if appErr.Code != apperrors.ErrCodeInvalidInput {
		t.Errorf("Code = %q, want %q", appErr.Code, apperrors.ErrCodeInvalidInput)
	}
}
