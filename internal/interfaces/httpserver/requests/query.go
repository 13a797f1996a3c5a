package requests

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"medifind-server/intake-api/internal/domain/query"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

// GetCursorPaginationFromQuery reads limit/order/after query params.
// findByLastID resolves a public cursor id to the numeric id the store
// paginates on.
func GetCursorPaginationFromQuery(reqCtx *gin.Context, findByLastID func(string) (*uint, error)) (*query.Pagination, error) {
	limitStr := reqCtx.DefaultQuery("limit", "20")
	order := reqCtx.DefaultQuery("order", "asc")
	afterStr := reqCtx.Query("after")

	var limit *int
	if limitStr != "" {
		limitInt, err := strconv.Atoi(limitStr)
		if err != nil || limitInt < 1 {
			return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, platformerrors.ErrorTypeValidation,
				"invalid limit number", nil, "04aecd25-bd32-428b-864d-aeb7ecb06e53")
		}
		limit = &limitInt
	}

	var after *uint
	if afterStr != "" {
		if findByLastID != nil {
			lastID, err := findByLastID(afterStr)
			if err != nil {
				return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, platformerrors.ErrorTypeValidation,
					"invalid pagination cursor", err, "1f9ee4ee-56ed-448e-9296-d978c9a03726")
			}
			after = lastID
		} else {
			parsedID, err := strconv.ParseUint(afterStr, 10, 64)
			if err != nil {
				return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, platformerrors.ErrorTypeValidation,
					"invalid pagination cursor", err, "9a5c2c48-5c59-4f40-9f27-5861e9c62d2f")
			}
			tempID := uint(parsedID)
			after = &tempID
		}
	}

	if order != "asc" && order != "desc" {
		return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, platformerrors.ErrorTypeValidation,
			"invalid order", nil, "c3598493-7770-4e94-b44f-f571aabf2bdd")
	}

	return query.NewPagination(limit, order, after), nil
}
