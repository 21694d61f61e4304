package constants

import "fmt"

// ============================================================================
// FILE UPLOAD ERRORS
// ============================================================================

const (
	ErrFileUploadFailed  = "File upload failed. Please check the file format and try again"
	ErrInvalidFileFormat = "Invalid file format. Please upload a valid file"
	ErrFileTooLarge      = "File size exceeds the maximum limit"
	ErrFileParsingFailed = "Failed to parse file contents. Please check the file format"
	ErrEmptyFile         = "Uploaded file is empty"
	ErrInvalidHeaders    = "File has invalid or missing column headers"
	ErrInvalidDataRow    = "Invalid data found in row %d: %s"
)

// ============================================================================
// INGESTION ERRORS
// ============================================================================

const (
	ErrNoHeaderRow       = "No header row matching the selected source could be found"
	ErrNoBusinessKey     = "No business key column could be identified in the header row"
	ErrNoOrdersFound     = "No orders found matching your criteria"
	ErrDialectRequired   = "Source dialect is required"
	ErrReuploadDuplicate = "This file was already ingested; the earlier batch id is returned"
)

// ============================================================================
// DATABASE OPERATION ERRORS
// ============================================================================

const (
	ErrDatabaseConnection      = "Database connection failed. Please try again later"
	ErrQueryFailed             = "Database query failed. Please contact support if this persists"
	ErrTransactionFailed       = "Transaction failed. Please try again"
	ErrDuplicateEntry          = "This entry already exists in the system"
	ErrConstraintViolation     = "Operation violates data constraints"
	ErrRecordNotFound          = "Record not found in the database"
	ErrTransactionCommitFailed = "Failed to save changes. Please try again"
)

// ============================================================================
// GENERAL ERRORS
// ============================================================================

const (
	ErrInternalServer  = "Internal server error. Please contact support"
	ErrOperationFailed = "Operation failed. Please try again"
	ErrNoDataFound     = "No data found matching your criteria"
	ErrInvalidRequest  = "Invalid request. Please check your input"
)

// ============================================================================
// SUCCESS MESSAGES
// ============================================================================

const (
	SuccessUploaded = "File uploaded successfully. %d records processed"
)

// ============================================================================
// HELPER FUNCTIONS TO FORMAT ERRORS WITH CONTEXT
// ============================================================================

// FormatError formats an error message with additional context
func FormatError(baseError string, context ...interface{}) string {
	if len(context) == 0 {
		return baseError
	}
	return fmt.Sprintf(baseError, context...)
}

// FormatRowError formats an error for a specific data row
func FormatRowError(rowNum int, reason string) string {
	return fmt.Sprintf(ErrInvalidDataRow, rowNum, reason)
}
