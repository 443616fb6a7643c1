package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"deal-detector/pkg/logger"
)

// Notifier sends a short digest email when a sync batch stores new
// deals for a mailbox.
type Notifier struct {
	client *resend.Client
	from   string
	log    logger.Logger
}

// NewNotifier creates a Resend-backed notifier. from is the digest
// sender address.
func NewNotifier(apiKey, from string) *Notifier {
	return &Notifier{
		client: resend.NewClient(apiKey),
		from:   from,
		log:    logger.Get().WithComponent("notify"),
	}
}

// NotifyNewDeals sends the digest to the mailbox owner.
func (n *Notifier) NotifyNewDeals(ctx context.Context, mailbox string, newRecords int) error {
	noun := "deals"
	if newRecords == 1 {
		noun = "deal"
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{mailbox},
		Subject: fmt.Sprintf("%d new %s found in your inbox", newRecords, noun),
		Html: fmt.Sprintf(
			"<p>We found <strong>%d new %s</strong> in your promotional mail. "+
				"Open the app to see the details before they expire.</p>",
			newRecords, noun,
		),
	}

	sent, err := n.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send digest to %s: %w", mailbox, err)
	}

	n.log.Info("Digest sent",
		logger.Mailbox(mailbox),
		logger.Count(newRecords),
		logger.String("email_id", sent.Id),
	)
	return nil
}
