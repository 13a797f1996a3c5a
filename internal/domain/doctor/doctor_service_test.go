package doctor

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medifind-server/intake-api/internal/domain/query"
	"medifind-server/intake-api/internal/utils/idgen"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

type memoryRepo struct {
	nextID  uint
	doctors []*Doctor
}

func (r *memoryRepo) Create(_ context.Context, doc *Doctor) error {
	r.nextID++
	doc.ID = r.nextID
	clone := *doc
	r.doctors = append(r.doctors, &clone)
	return nil
}

func (r *memoryRepo) FindByPublicID(_ context.Context, publicID string) (*Doctor, error) {
	for _, doc := range r.doctors {
		if doc.PublicID == publicID {
			return doc, nil
		}
	}
	return nil, platformerrors.NewError(context.Background(), platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound, "doctor not found", nil, "test-not-found")
}

func (r *memoryRepo) FindByFilter(_ context.Context, filter DoctorFilter, pagination *query.Pagination) ([]*Doctor, error) {
	var out []*Doctor
	for _, doc := range r.doctors {
		if filter.Specialty != nil && !strings.EqualFold(doc.Specialty, *filter.Specialty) {
			continue
		}
		if filter.Near != nil && !doc.InBox(*filter.Near) {
			continue
		}
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExperienceYears > out[j].ExperienceYears
	})
	if pagination != nil && pagination.Limit != nil && len(out) > *pagination.Limit {
		out = out[:*pagination.Limit]
	}
	return out, nil
}

func seed(t *testing.T, service *DoctorService, name, specialty string, years int, lat, lng *float64) *Doctor {
	t.Helper()
	doc, err := service.RegisterDoctor(context.Background(), RegisterDoctorInput{
		Name:            name,
		Specialty:       specialty,
		ExperienceYears: years,
		Latitude:        lat,
		Longitude:       lng,
	})
	require.NoError(t, err)
	return doc
}

func ptr(f float64) *float64 { return &f }

func TestRegisterDoctor(t *testing.T) {
	service := NewDoctorService(&memoryRepo{})

	doc := seed(t, service, "Dr. Rao", "dermatology", 12, nil, nil)

	assert.True(t, idgen.ValidateIDFormat(doc.PublicID, "doc"))
	assert.Equal(t, "dermatology", doc.Specialty)
}

func TestRegisterDoctor_Validation(t *testing.T) {
	service := NewDoctorService(&memoryRepo{})

	_, err := service.RegisterDoctor(context.Background(), RegisterDoctorInput{Name: "  ", Specialty: "cardiology"})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = service.RegisterDoctor(context.Background(), RegisterDoctorInput{
		Name: "Dr. Rao", Specialty: "cardiology", Latitude: ptr(12.9),
	})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestFindDoctors_RankedByExperienceCappedAtThree(t *testing.T) {
	service := NewDoctorService(&memoryRepo{})
	seed(t, service, "Dr. A", "cardiology", 5, nil, nil)
	seed(t, service, "Dr. B", "cardiology", 20, nil, nil)
	seed(t, service, "Dr. C", "cardiology", 12, nil, nil)
	seed(t, service, "Dr. D", "cardiology", 8, nil, nil)
	seed(t, service, "Dr. E", "dermatology", 30, nil, nil)

	doctors, err := service.FindDoctors(context.Background(), "cardiology", nil)

	require.NoError(t, err)
	require.Len(t, doctors, 3)
	assert.Equal(t, "Dr. B", doctors[0].Name)
	assert.Equal(t, "Dr. C", doctors[1].Name)
	assert.Equal(t, "Dr. D", doctors[2].Name)
}

func TestFindDoctors_BoundingBox(t *testing.T) {
	service := NewDoctorService(&memoryRepo{})
	at := Coordinates{Latitude: 12.9716, Longitude: 77.5946}

	seed(t, service, "Inside", "cardiology", 5, ptr(12.98), ptr(77.60))
	seed(t, service, "EdgeOfBox", "cardiology", 7, ptr(at.Latitude+NearbyBoxDegrees), ptr(at.Longitude))
	seed(t, service, "TooFarNorth", "cardiology", 9, ptr(13.05), ptr(77.59))
	seed(t, service, "NoCoordinates", "cardiology", 25, nil, nil)

	doctors, err := service.FindDoctors(context.Background(), "cardiology", &at)

	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, "EdgeOfBox", doctors[0].Name)
	assert.Equal(t, "Inside", doctors[1].Name)
}

func TestFindDoctors_SpecialtyIsCaseInsensitive(t *testing.T) {
	service := NewDoctorService(&memoryRepo{})
	seed(t, service, "Dr. Rao", "Cardiology", 10, nil, nil)

	doctors, err := service.FindDoctors(context.Background(), "cardiology", nil)

	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr. Rao", doctors[0].Name)
}

func TestFindDoctors_RequiresSpecialty(t *testing.T) {
	service := NewDoctorService(&memoryRepo{})

	_, err := service.FindDoctors(context.Background(), "   ", nil)

	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestGetDoctorByPublicID_RejectsForeignPrefix(t *testing.T) {
	service := NewDoctorService(&memoryRepo{})

	_, err := service.GetDoctorByPublicID(context.Background(), "conv_abc123")

	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}
