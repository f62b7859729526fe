package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/textwave/ai-api-service/services/dispatch"
	"github.com/textwave/ai-api-service/utils"
)

// statusClientClosedRequest is the nginx convention for a caller that went
// away before the response was ready.
const statusClientClosedRequest = 499

// HandleDispatchError maps dispatch-layer errors to HTTP responses. Raw
// provider bodies never reach the caller; total failure enumerates every
// attempted provider with its failure class.
func HandleDispatchError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	requestID := middleware.GetReqID(r.Context())

	var verr *dispatch.ValidationError
	var aerr *dispatch.AllProvidersFailed

	switch {
	case errors.As(err, &verr):
		details := map[string]interface{}{verr.Field: verr.Message}
		if err := utils.WriteBadRequest(w, verr.Error(), details); err != nil {
			logger.Error("failed to write bad request response", zap.Error(err))
		}

	case errors.As(err, &aerr):
		attempts := make([]map[string]interface{}, len(aerr.Attempts))
		for i, attempt := range aerr.Attempts {
			attempts[i] = map[string]interface{}{
				"provider":      attempt.Provider,
				"failure_class": string(attempt.Class),
				"message":       attempt.Message,
			}
		}
		logger.Error("all providers failed",
			zap.String("request_id", requestID),
			zap.Int("attempts", len(aerr.Attempts)))
		if err := utils.WriteBadGateway(w, "All providers failed", map[string]interface{}{
			"attempts": attempts,
		}); err != nil {
			logger.Error("failed to write bad gateway response", zap.Error(err))
		}

	case errors.Is(err, dispatch.ErrTimedOut):
		if err := utils.WriteGatewayTimeout(w, "Request timed out"); err != nil {
			logger.Error("failed to write gateway timeout response", zap.Error(err))
		}

	case errors.Is(err, dispatch.ErrCancelled):
		// The caller is gone; the status is written for access logs only.
		logger.Debug("request cancelled by client", zap.String("request_id", requestID))
		w.WriteHeader(statusClientClosedRequest)

	default:
		logger.Error("unhandled dispatch error",
			zap.String("request_id", requestID),
			zap.Error(err))
		if err := utils.WriteInternalServerError(w, "An unexpected error occurred"); err != nil {
			logger.Error("failed to write internal error response", zap.Error(err))
		}
	}
}

// HandleValidationError handles shape validation errors from request parsing
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{})
		for k, v := range fields {
			details[k] = v
		}
		if err := utils.WriteBadRequest(w, "Validation failed", details); err != nil {
			logger.Error("failed to write validation error response", zap.Error(err))
		}
		return
	}

	if err := utils.WriteBadRequest(w, err.Error(), nil); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}
