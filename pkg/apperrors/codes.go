package apperrors

// Error codes - organized by domain

// Authentication errors (AUTH_*)
const (
	ErrCodeTokenExpired   = "AUTH_TOKEN_EXPIRED"
	ErrCodeTokenInvalid   = "AUTH_TOKEN_INVALID"
	ErrCodeTokenMalformed = "AUTH_TOKEN_MALFORMED"
)

// Validation errors (VALIDATION_*)
const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInvalidInput     = "VALIDATION_INVALID_INPUT"
	ErrCodeInvalidMailbox   = "VALIDATION_INVALID_MAILBOX"
)

// Resource errors (RESOURCE_*)
const (
	ErrCodeMailboxNotFound = "RESOURCE_MAILBOX_NOT_FOUND"
	ErrCodeCouponNotFound  = "RESOURCE_COUPON_NOT_FOUND"
	ErrCodeCursorNotFound  = "RESOURCE_CURSOR_NOT_FOUND"
)

// Sync errors (SYNC_*)
const (
	ErrCodeHistoryExpired = "SYNC_HISTORY_EXPIRED"
	ErrCodeSyncInProgress = "SYNC_IN_PROGRESS"
	ErrCodeWatchFailed    = "SYNC_WATCH_FAILED"
)

// Internal errors (INTERNAL_*)
const (
	ErrCodeDatabaseError   = "INTERNAL_DATABASE_ERROR"
	ErrCodeMailSourceError = "INTERNAL_MAIL_SOURCE_ERROR"
	ErrCodeParseError      = "INTERNAL_PARSE_ERROR"
	ErrCodeUnexpectedError = "INTERNAL_UNEXPECTED_ERROR"
)
