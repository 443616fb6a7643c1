package logger

// Context keys for storing values
type contextKey string

const (
	// ContextKeyRequestID is the context key for request ID
	ContextKeyRequestID contextKey = "request_id"
	// ContextKeyMailbox is the context key for the mailbox address
	ContextKeyMailbox contextKey = "mailbox"
)
