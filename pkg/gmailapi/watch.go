package gmailapi

import (
	"context"
	"fmt"

	"google.golang.org/api/gmail/v1"

	"deal-detector/pkg/logger"
)

// StartWatch registers push notifications for a mailbox's promotional
// label onto the given Pub/Sub topic. Returns the history token current
// at registration and the registration expiry in unix milliseconds; the
// watch must be renewed before then (the API caps it at seven days).
func (c *Client) StartWatch(ctx context.Context, mailbox, topic string) (uint64, int64, error) {
	resp, err := c.svc.Users.Watch(mailbox, &gmail.WatchRequest{
		LabelIds:  []string{PromotionalLabel},
		TopicName: topic,
	}).Context(ctx).Do()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to register watch for %s: %w", mailbox, err)
	}

	c.log.Info("Watch registered",
		logger.Mailbox(mailbox),
		logger.HistoryID(resp.HistoryId),
		logger.Int64("expiration", resp.Expiration),
	)
	return resp.HistoryId, resp.Expiration, nil
}

// StopWatch cancels push notifications for a mailbox.
func (c *Client) StopWatch(ctx context.Context, mailbox string) error {
	if err := c.svc.Users.Stop(mailbox).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to stop watch for %s: %w", mailbox, err)
	}
	c.log.Info("Watch stopped", logger.Mailbox(mailbox))
	return nil
}
