// Package responses holds the shared HTTP error rendering helpers.
package responses

import (
	"errors"

	"github.com/gin-gonic/gin"

	"medifind-server/intake-api/internal/infrastructure/logger"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

// ErrorResponse is the wire shape of every error reply.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the error code (a stable UUID), a human message and
// the request id for correlation.
type ErrorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// HandleError renders err as an HTTP error response, logging it with its
// layer context. Non-platform errors are treated as internal.
func HandleError(reqCtx *gin.Context, err error, fallbackMessage string) {
	var platformErr *platformerrors.PlatformError
	if !errors.As(err, &platformErr) {
		platformErr = platformerrors.AsError(reqCtx.Request.Context(), platformerrors.LayerRoute, err, fallbackMessage)
	}

	platformerrors.LogError(logger.GetLogger(), platformErr)

	status := platformerrors.ErrorTypeToHTTPStatus(platformErr.Type)
	reqCtx.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorDetail{
		Code:      platformErr.UUID,
		Message:   platformErr.Message,
		RequestID: platformErr.RequestID,
	}})
}

// HandleNewError renders a fresh error without an underlying cause.
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, errorUUID string) {
	err := platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, errorType, message, nil, errorUUID)
	HandleError(reqCtx, err, message)
}
