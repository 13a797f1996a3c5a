package doctorhandler

import (
	"context"

	"github.com/go-playground/validator/v10"

	"medifind-server/intake-api/internal/domain/doctor"
	"medifind-server/intake-api/internal/infrastructure/metrics"
	doctorrequests "medifind-server/intake-api/internal/interfaces/httpserver/requests/doctor"
	doctorresponses "medifind-server/intake-api/internal/interfaces/httpserver/responses/doctor"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

// DoctorHandler handles doctor directory HTTP requests
type DoctorHandler struct {
	doctorService *doctor.DoctorService
	validate      *validator.Validate
}

// NewDoctorHandler creates a new doctor handler
func NewDoctorHandler(doctorService *doctor.DoctorService) *DoctorHandler {
	return &DoctorHandler{
		doctorService: doctorService,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterDoctor adds one doctor to the directory
func (h *DoctorHandler) RegisterDoctor(
	ctx context.Context,
	req doctorrequests.RegisterDoctorRequest,
) (*doctorresponses.DoctorResponse, error) {
	if err := h.validate.Struct(req); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			"invalid doctor payload", err, "7d2a4f6c-8b1e-4c3d-9e5f-0a1b2c3d4e5f")
	}

	doc, err := h.doctorService.RegisterDoctor(ctx, doctor.RegisterDoctorInput{
		Name:            req.Name,
		Specialty:       req.Specialty,
		ExperienceYears: req.ExperienceYears,
		ClinicName:      req.ClinicName,
		Address:         req.Address,
		Phone:           req.Phone,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
	})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to register doctor")
	}

	return doctorresponses.NewDoctorResponse(doc), nil
}

// SearchDoctors finds the top-ranked doctors for a specialty, optionally
// restricted to the box around the given coordinates.
func (h *DoctorHandler) SearchDoctors(
	ctx context.Context,
	params doctorrequests.SearchDoctorsQueryParams,
) (*doctorresponses.DoctorListResponse, error) {
	if (params.Latitude == nil) != (params.Longitude == nil) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeValidation,
			"latitude and longitude must be provided together", nil, "5b8e2f1a-3c4d-4e6f-9a0b-1c2d3e4f5a6b")
	}

	var near *doctor.Coordinates
	if params.Latitude != nil && params.Longitude != nil {
		near = &doctor.Coordinates{Latitude: *params.Latitude, Longitude: *params.Longitude}
	}

	doctors, err := h.doctorService.FindDoctors(ctx, params.Specialty, near)
	if err != nil {
		metrics.DoctorSearchesTotal.WithLabelValues("error").Inc()
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to search doctors")
	}

	metrics.DoctorSearchesTotal.WithLabelValues("success").Inc()
	return doctorresponses.NewDoctorListResponse(doctors), nil
}

// GetDoctor returns one directory entry
func (h *DoctorHandler) GetDoctor(
	ctx context.Context,
	doctorID string,
) (*doctorresponses.DoctorResponse, error) {
	doc, err := h.doctorService.GetDoctorByPublicID(ctx, doctorID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get doctor")
	}
	return doctorresponses.NewDoctorResponse(doc), nil
}
