package logger

import "time"

// Common field constructors for structured logging

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Duration creates a duration field in milliseconds
func Duration(key string, d time.Duration) Field {
	return Field{Key: key, Value: d.Milliseconds()}
}

// Any creates a field with any value
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// --- Domain-specific field helpers ---

// Mailbox creates a mailbox field
func Mailbox(mailbox string) Field {
	return Field{Key: "mailbox", Value: mailbox}
}

// MessageID creates a message_id field
func MessageID(id string) Field {
	return Field{Key: "message_id", Value: id}
}

// HistoryID creates a history_id field
func HistoryID(id uint64) Field {
	return Field{Key: "history_id", Value: id}
}

// Sender creates a sender field
func Sender(sender string) Field {
	return Field{Key: "sender", Value: sender}
}

// Subject creates a subject field
func Subject(subject string) Field {
	return Field{Key: "subject", Value: subject}
}

// OfferCount creates an offer_count field
func OfferCount(count int) Field {
	return Field{Key: "offer_count", Value: count}
}

// ImageCount creates an image_count field
func ImageCount(count int) Field {
	return Field{Key: "image_count", Value: count}
}

// BatchSize creates a batch_size field
func BatchSize(size int) Field {
	return Field{Key: "batch_size", Value: size}
}

// ProcessedCount creates a processed_count field
func ProcessedCount(count int) Field {
	return Field{Key: "processed_count", Value: count}
}

// FailedCount creates a failed_count field
func FailedCount(count int) Field {
	return Field{Key: "failed_count", Value: count}
}

// Count creates a count field
func Count(count int) Field {
	return Field{Key: "count", Value: count}
}

// Status creates a status field
func Status(status int) Field {
	return Field{Key: "status", Value: status}
}

// Method creates an HTTP method field
func Method(method string) Field {
	return Field{Key: "method", Value: method}
}

// Path creates an HTTP path field
func Path(path string) Field {
	return Field{Key: "path", Value: path}
}

// RemoteIP creates a remote_ip field
func RemoteIP(ip string) Field {
	return Field{Key: "remote_ip", Value: ip}
}

// ImageURL creates an image_url field
func ImageURL(url string) Field {
	return Field{Key: "image_url", Value: url}
}

// Domain creates a domain field
func Domain(domain string) Field {
	return Field{Key: "domain", Value: domain}
}
