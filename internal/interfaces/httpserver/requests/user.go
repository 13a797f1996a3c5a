package requests

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"medifind-server/intake-api/internal/utils/platformerrors"
)

// GetOptionalUserIDFromQuery reads the user_id query parameter. Ownership
// is asserted by the upstream gateway; this service only scopes by it.
func GetOptionalUserIDFromQuery(reqCtx *gin.Context) (*uint, error) {
	raw := reqCtx.Query("user_id")
	if raw == "" {
		return nil, nil
	}

	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, platformerrors.ErrorTypeValidation,
			"invalid user_id", err, "8d2c4b6a-1e3f-45a7-b9c0-d1e2f3a4b5c6")
	}

	userID := uint(parsed)
	return &userID, nil
}
