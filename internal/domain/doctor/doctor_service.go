package doctor

import (
	"context"
	"strings"
	"time"

	"medifind-server/intake-api/internal/domain/query"
	"medifind-server/intake-api/internal/utils/idgen"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

// DoctorService handles business logic for the doctor directory
type DoctorService struct {
	repo DoctorRepository
}

// NewDoctorService creates a new doctor directory service
func NewDoctorService(repo DoctorRepository) *DoctorService {
	return &DoctorService{repo: repo}
}

// RegisterDoctorInput represents the input for adding a doctor to the directory
type RegisterDoctorInput struct {
	Name            string
	Specialty       string
	ExperienceYears int
	ClinicName      string
	Address         string
	Phone           string
	Latitude        *float64
	Longitude       *float64
}

// RegisterDoctor adds a doctor to the directory.
func (s *DoctorService) RegisterDoctor(ctx context.Context, input RegisterDoctorInput) (*Doctor, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Specialty) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"doctor name and specialty are required", nil, "b5c6d7e8-f9a0-41b2-c3d4-e5f6a7b8c9d0")
	}
	if (input.Latitude == nil) != (input.Longitude == nil) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"latitude and longitude must be set together", nil, "d7e8f9a0-b1c2-43d4-e5f6-a7b8c9d0e1f2")
	}

	publicID, err := idgen.GenerateSecureID("doc", 16)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to generate doctor ID")
	}

	now := time.Now()
	doc := &Doctor{
		PublicID:        publicID,
		Name:            strings.TrimSpace(input.Name),
		Specialty:       strings.TrimSpace(input.Specialty),
		ExperienceYears: input.ExperienceYears,
		ClinicName:      input.ClinicName,
		Address:         input.Address,
		Phone:           input.Phone,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to register doctor")
	}
	return doc, nil
}

// FindDoctors searches the directory by specialty, optionally restricted to
// the bounding box around near. Results come back ranked by experience
// descending and are capped at MaxSearchResults.
func (s *DoctorService) FindDoctors(ctx context.Context, specialty string, near *Coordinates) ([]*Doctor, error) {
	specialty = strings.TrimSpace(specialty)
	if specialty == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"specialty is required", nil, "e8f9a0b1-c2d3-44e5-f6a7-b8c9d0e1f2a3")
	}

	limit := MaxSearchResults
	doctors, err := s.repo.FindByFilter(ctx, DoctorFilter{
		Specialty: &specialty,
		Near:      near,
	}, &query.Pagination{Limit: &limit, Order: "desc"})
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to search doctors")
	}

	return doctors, nil
}

// GetDoctorByPublicID retrieves a single doctor.
func (s *DoctorService) GetDoctorByPublicID(ctx context.Context, publicID string) (*Doctor, error) {
	if !idgen.ValidateIDFormat(publicID, "doc") {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"invalid doctor ID", nil, "f9a0b1c2-d3e4-45f6-a7b8-c9d0e1f2a3b4")
	}

	doc, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "doctor not found")
	}
	return doc, nil
}
