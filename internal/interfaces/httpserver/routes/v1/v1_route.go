package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medifind-server/intake-api/internal/config"
	"medifind-server/intake-api/internal/interfaces/httpserver/routes/v1/analyze"
	"medifind-server/intake-api/internal/interfaces/httpserver/routes/v1/conversation"
	"medifind-server/intake-api/internal/interfaces/httpserver/routes/v1/doctor"
)

type V1Route struct {
	conversation *conversation.ConversationRoute
	doctor       *doctor.DoctorRoute
	analyze      *analyze.AnalyzeRoute
}

func NewV1Route(
	conversation *conversation.ConversationRoute,
	doctor *doctor.DoctorRoute,
	analyze *analyze.AnalyzeRoute,
) *V1Route {
	return &V1Route{
		conversation,
		doctor,
		analyze,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)
	v1Router.GET("/healthz", GetHealthz)
	v1Router.GET("/readyz", GetReadyz)

	v1Route.conversation.RegisterRouter(v1Router)
	v1Route.doctor.RegisterRouter(v1Router)
	v1Route.analyze.RegisterRouter(v1Router)
}

// GetVersion godoc
// @Summary Get API build version
// @Description Returns the current build version of the API server.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string
// @Router /v1/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": config.Version,
	})
}

// GetHealthz godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API server.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string
// @Router /v1/healthz [get]
func GetHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetReadyz godoc
// @Summary Readiness check endpoint
// @Description Returns the readiness status of the API server.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string
// @Router /v1/readyz [get]
func GetReadyz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
