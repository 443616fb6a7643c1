package sync

import (
	"context"
	"errors"

	"deal-detector/domain/extract"
)

// ErrHistoryExpired is returned by HistoryDiff when the stored cursor is
// outside the mail source's retained history window. It is the only
// pipeline error that changes control flow: the engine must fall back to
// a full listing resync.
var ErrHistoryExpired = errors.New("history cursor outside retained window")

// HistoryEntry is one "message added" change record from the mail
// source's history feed.
type HistoryEntry struct {
	MessageID string
	Labels    []string
}

// MailSource is the external mail store, seen through its collaborator
// contract. Implemented for Gmail in pkg/gmailapi.
type MailSource interface {
	// ListPromotional returns the promotional message ids of a mailbox
	// together with the history token current at the time of the scan.
	ListPromotional(ctx context.Context, mailbox string) ([]string, uint64, error)

	// GetMessage fetches one message with its decoded MIME tree.
	GetMessage(ctx context.Context, mailbox, id string) (*extract.RawMessage, error)

	// HistoryDiff returns the "message added" change records between two
	// history tokens, oldest first. Returns ErrHistoryExpired when
	// fromToken is older than the retained history log.
	HistoryDiff(ctx context.Context, mailbox string, fromToken, toToken uint64) ([]HistoryEntry, error)
}
