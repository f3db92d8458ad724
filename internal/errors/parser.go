package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a storage error translated for the client
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts storage-layer errors into safe client-facing codes and
// messages. Constraint names and driver details are never passed through.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal error occurred",
		}
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: notFoundMessage(context),
		}
	}

	// Unique constraint violation (Postgres 23505, SQLite "UNIQUE constraint failed")
	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: duplicateMessage(context),
		}
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errStr, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The referenced record does not exist or is still in use",
		}
	}

	// Not-null constraint violation (23502)
	if strings.Contains(errStr, "null value") && strings.Contains(errStr, "not-null constraint") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	// Connectivity failures
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "The storage backend is unavailable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "An internal error occurred. Please try again later",
	}
}

func notFoundMessage(context string) string {
	switch context {
	case "product":
		return "Product not found"
	case "category":
		return "Category not found"
	case "cart":
		return "Cart item not found"
	case "order":
		return "Order not found"
	case "user":
		return "User not found"
	default:
		return "Resource not found"
	}
}

func duplicateMessage(context string) string {
	switch context {
	case "user":
		return "Username or email is already registered"
	default:
		return "The record already exists"
	}
}
