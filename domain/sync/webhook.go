package sync

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"deal-detector/pkg/apperrors"
	"deal-detector/pkg/logger"
)

// DefaultAckWindow bounds how long the push endpoint waits for a batch
// before acknowledging the delivery, staying under the sender's ack
// deadline.
const DefaultAckWindow = 20 * time.Second

// pubSubEnvelope is the push delivery wrapper. The payload itself lives
// base64-encoded inside message.data.
type pubSubEnvelope struct {
	Message struct {
		Data      string `json:"data"`
		MessageID string `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// mailboxNotification is the decoded payload: which mailbox changed and
// the history token current at notification time.
type mailboxNotification struct {
	EmailAddress string      `json:"emailAddress"`
	HistoryID    json.Number `json:"historyId"`
}

// Syncer is the engine surface the webhook drives.
type Syncer interface {
	HandleNotification(ctx context.Context, mailbox string, newHistoryID uint64) error
	FullSync(ctx context.Context, mailbox string) error
}

// WebhookHandler receives push notifications and hands them to the sync
// engine.
type WebhookHandler struct {
	engine    Syncer
	ackWindow time.Duration
	log       logger.Logger
}

// NewWebhookHandler creates the webhook handler. ackWindow caps how
// long a push delivery blocks on its batch before being acknowledged.
func NewWebhookHandler(engine Syncer, ackWindow time.Duration) *WebhookHandler {
	if ackWindow <= 0 {
		ackWindow = DefaultAckWindow
	}
	return &WebhookHandler{
		engine:    engine,
		ackWindow: ackWindow,
		log:       logger.Get().WithComponent("webhook"),
	}
}

// HandleNotification is the push endpoint. Malformed deliveries are
// acknowledged with 200 and dropped, because the sender would otherwise
// redeliver garbage forever. Processing failures return 500 so the
// delivery is retried; the cursor has not advanced in that case.
//
// A batch that outruns the ack window is acknowledged early and keeps
// running in the background. If the sender redelivers anyway, the
// per-mailbox lock queues the duplicate behind the running batch and
// the stale-token check then drops it.
func (h *WebhookHandler) HandleNotification(c echo.Context) error {
	var envelope pubSubEnvelope
	if err := c.Bind(&envelope); err != nil {
		h.log.Warn("Dropping unparseable push delivery", logger.Err(err))
		return c.JSON(http.StatusOK, map[string]string{"status": "dropped"})
	}

	payload, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
	if err != nil {
		h.log.Warn("Dropping push delivery with bad base64 payload", logger.Err(err))
		return c.JSON(http.StatusOK, map[string]string{"status": "dropped"})
	}

	var notification mailboxNotification
	if err := json.Unmarshal(payload, &notification); err != nil {
		h.log.Warn("Dropping push delivery with bad payload", logger.Err(err))
		return c.JSON(http.StatusOK, map[string]string{"status": "dropped"})
	}

	historyID, err := strconv.ParseUint(notification.HistoryID.String(), 10, 64)
	if notification.EmailAddress == "" || err != nil {
		h.log.Warn("Dropping incomplete notification",
			logger.Mailbox(notification.EmailAddress),
			logger.String("history_id", notification.HistoryID.String()),
		)
		return c.JSON(http.StatusOK, map[string]string{"status": "dropped"})
	}

	mailbox := notification.EmailAddress
	done := make(chan error, 1)
	go func() {
		// Detached from the request context so an early ack does not
		// cancel the batch mid-flight.
		err := h.engine.HandleNotification(context.Background(), mailbox, historyID)
		if err != nil {
			h.log.Error("Notification processing failed", err, logger.Mailbox(mailbox))
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return apperrors.NewInternal(apperrors.ErrCodeMailSourceError, "Failed to process notification", err)
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "success"})
	case <-time.After(h.ackWindow):
		h.log.Info("Batch still running at ack deadline, acknowledging early",
			logger.Mailbox(mailbox),
			logger.HistoryID(historyID),
		)
		return c.JSON(http.StatusOK, map[string]string{"status": "processing"})
	}
}

// TriggerResync forces a full listing scan for the caller's mailbox.
func (h *WebhookHandler) TriggerResync(c echo.Context) error {
	mailbox, _ := c.Get("mailbox").(string)
	if mailbox == "" {
		return apperrors.NewUnauthorized(apperrors.ErrCodeTokenInvalid, "No mailbox in session")
	}

	if err := h.engine.FullSync(c.Request().Context(), mailbox); err != nil {
		return apperrors.NewInternal(apperrors.ErrCodeMailSourceError, "Full resync failed", err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "success",
		"mailbox": mailbox,
	})
}
