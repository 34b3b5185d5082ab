// Package respond writes JSON responses and maps application errors onto
// HTTP status codes.
package respond

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"barbershop/internal/dto"
	apperrors "barbershop/internal/errors"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeStorage      = "STORAGE_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

func JSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func Message(w http.ResponseWriter, logger *zap.Logger, message string) {
	JSON(w, logger, http.StatusOK, dto.MessageResponse{Message: message})
}

func Validation(w http.ResponseWriter, logger *zap.Logger, traceID, message string, details ...apperrors.ValidationDetail) {
	JSON(w, logger, http.StatusBadRequest, dto.ErrorResponse{
		TraceID: traceID,
		Error:   CodeValidation,
		Message: message,
		Details: details,
	})
}

// Error writes err using the status code of its type. Storage failures and
// unknown errors are logged and reported with a generic message.
func Error(w http.ResponseWriter, logger *zap.Logger, traceID string, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		Validation(w, logger, traceID, ve.Message, ve.Details...)
		return
	}

	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		JSON(w, logger, http.StatusNotFound, dto.ErrorResponse{TraceID: traceID, Error: CodeNotFound, Message: nfe.Message})
		return
	}

	if ae, ok := apperrors.IsAuthorizationError(err); ok {
		JSON(w, logger, http.StatusUnauthorized, dto.ErrorResponse{TraceID: traceID, Error: CodeUnauthorized, Message: ae.Message})
		return
	}

	if _, ok := apperrors.IsStorageError(err); ok {
		logger.Error("storage failure", zap.String("traceId", traceID), zap.Error(err))
		JSON(w, logger, http.StatusInternalServerError, dto.ErrorResponse{TraceID: traceID, Error: CodeStorage, Message: "failed to save data"})
		return
	}

	logger.Error("unexpected error", zap.String("traceId", traceID), zap.Error(err))
	JSON(w, logger, http.StatusInternalServerError, dto.ErrorResponse{TraceID: traceID, Error: CodeInternal, Message: "an unexpected error occurred"})
}
