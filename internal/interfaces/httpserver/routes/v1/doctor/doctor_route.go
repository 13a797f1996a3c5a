package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medifind-server/intake-api/internal/interfaces/httpserver/handlers/doctorhandler"
	doctorrequests "medifind-server/intake-api/internal/interfaces/httpserver/requests/doctor"
	"medifind-server/intake-api/internal/interfaces/httpserver/responses"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

type DoctorRoute struct {
	handler *doctorhandler.DoctorHandler
}

func NewDoctorRoute(handler *doctorhandler.DoctorHandler) *DoctorRoute {
	return &DoctorRoute{handler: handler}
}

func (route *DoctorRoute) RegisterRouter(router gin.IRouter) {
	doctors := router.Group("/doctors")
	doctors.GET("", route.searchDoctors)
	doctors.POST("", route.registerDoctor)
	doctors.GET("/:doc_public_id", route.getDoctor)
}

// searchDoctors godoc
// @Summary Search doctors
// @Description Top doctors for a specialty ranked by experience, at most three. With latitude/longitude the search is restricted to a fixed box around the point.
// @Tags Doctors API
// @Produce json
// @Param specialty query string true "Specialty to search"
// @Param latitude query number false "Search center latitude"
// @Param longitude query number false "Search center longitude"
// @Success 200 {object} doctorresponses.DoctorListResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/doctors [get]
func (route *DoctorRoute) searchDoctors(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var params doctorrequests.SearchDoctorsQueryParams
	if err := reqCtx.ShouldBindQuery(&params); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid query parameters", "f8a3d4e2-6b9c-4d7e-a1f3-2c5e8d9f0b4a")
		return
	}

	response, err := route.handler.SearchDoctors(ctx, params)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to search doctors")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}

// registerDoctor godoc
// @Summary Register a doctor
// @Description Add one doctor to the directory.
// @Tags Doctors API
// @Accept json
// @Produce json
// @Param request body doctorrequests.RegisterDoctorRequest true "Doctor to register"
// @Success 200 {object} doctorresponses.DoctorResponse
// @Failure 400 {object} responses.ErrorResponse
// @Router /v1/doctors [post]
func (route *DoctorRoute) registerDoctor(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var req doctorrequests.RegisterDoctorRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "a1b2c3d4-e5f6-47a8-b9c0-d1e2f3a4b5c6")
		return
	}

	response, err := route.handler.RegisterDoctor(ctx, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to register doctor")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}

// getDoctor godoc
// @Summary Get a doctor
// @Description Retrieve one directory entry.
// @Tags Doctors API
// @Produce json
// @Param doc_public_id path string true "Doctor ID (format: doc_xxxxx)"
// @Success 200 {object} doctorresponses.DoctorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /v1/doctors/{doc_public_id} [get]
func (route *DoctorRoute) getDoctor(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	response, err := route.handler.GetDoctor(ctx, reqCtx.Param("doc_public_id"))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get doctor")
		return
	}
	reqCtx.JSON(http.StatusOK, response)
}
