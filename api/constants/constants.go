package constants

// Common error messages
const (
	ErrInvalidJSON        = "invalid json or missing fields"
	ErrInvalidRequestBody = "Invalid request body"
	ErrMethodNotAllowed   = "Method Not Allowed"
	ErrDB                 = "DB error"
	ErrMissingFile        = "Missing file in upload"
	ErrUnknownDialect     = "Unknown source dialect"
	ErrFailedToQuery      = "Failed to query"
)

// Content Types
const (
	ContentTypeHeader = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Date formats
const (
	DateTimeFormat = "2006-01-02 15:04:05"
	DateFormat     = "2006-01-02"
	DateFormatEU   = "02/01/2006"
	DateFormatUS   = "01/02/2006"
	DateFormatDash = "02-01-2006"
)

// NBSP is the non-breaking space that Excel exports tend to hide inside cells.
const NBSP = " "

// DefaultOrigin is the airport code assumed when a source omits the origin.
const DefaultOrigin = "BOG"

// Order lifecycle statuses as stored in sales_orders.status.
const (
	StatusConfirmed = "Confirmed"
	StatusArchived  = "Archived"
)
