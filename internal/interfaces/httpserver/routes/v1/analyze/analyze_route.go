package analyze

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medifind-server/intake-api/internal/interfaces/httpserver/handlers/chathandler"
	analyzerequests "medifind-server/intake-api/internal/interfaces/httpserver/requests/analyze"
	"medifind-server/intake-api/internal/interfaces/httpserver/responses"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

type AnalyzeRoute struct {
	chatHandler *chathandler.ChatHandler
}

func NewAnalyzeRoute(chatHandler *chathandler.ChatHandler) *AnalyzeRoute {
	return &AnalyzeRoute{chatHandler: chatHandler}
}

func (route *AnalyzeRoute) RegisterRouter(router gin.IRouter) {
	router.POST("/analyze", route.analyze)
}

// analyze godoc
// @Summary Analyze symptoms
// @Description Direct analyzer passthrough: structured assessment for a symptom description outside any conversation. Unparseable model output comes back as a raw-text result, not an error.
// @Tags Analysis API
// @Accept json
// @Produce json
// @Param request body analyzerequests.AnalyzeRequest true "Symptoms and optional demographics"
// @Success 200 {object} analysis.Result
// @Failure 400 {object} responses.ErrorResponse "Missing symptoms"
// @Failure 502 {object} responses.ErrorResponse "All analyzer models failed"
// @Router /v1/analyze [post]
func (route *AnalyzeRoute) analyze(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var req analyzerequests.AnalyzeRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "c0d1e2f3-a4b5-46c7-d8e9-f0a1b2c3d4e5")
		return
	}

	result, err := route.chatHandler.Analyze(ctx, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to analyze symptoms")
		return
	}
	reqCtx.JSON(http.StatusOK, result)
}
