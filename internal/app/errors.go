package app

import (
	"errors"
	"fmt"
	"net/http"

	"giganticwit/api/internal/export"
	"giganticwit/api/internal/kvstore"
	"giganticwit/api/internal/ocr"
)

type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	switch {
	case errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", "format must be 'pdf', 'docx' or 'md'", nil
	case errors.Is(err, export.ErrPDFDependencyMissing), errors.Is(err, export.ErrDOCXDependencyMissing):
		return http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", err.Error(), nil
	case errors.Is(err, ocr.ErrNoImage):
		return http.StatusBadRequest, "NO_IMAGE", "No image uploaded", nil
	case errors.Is(err, kvstore.ErrQuotaExceeded):
		return http.StatusInsufficientStorage, "STORAGE_FULL", "Local storage is full", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
