package doctor

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaindoctor "medifind-server/intake-api/internal/domain/doctor"
	"medifind-server/intake-api/internal/domain/query"
	"medifind-server/intake-api/internal/interfaces/httpserver/handlers/doctorhandler"
	doctorresponses "medifind-server/intake-api/internal/interfaces/httpserver/responses/doctor"
)

type memoryDoctorRepo struct {
	doctors []*domaindoctor.Doctor
}

func (r *memoryDoctorRepo) Create(_ context.Context, doc *domaindoctor.Doctor) error {
	doc.ID = uint(len(r.doctors) + 1)
	r.doctors = append(r.doctors, doc)
	return nil
}

func (r *memoryDoctorRepo) FindByFilter(_ context.Context, filter domaindoctor.DoctorFilter, pagination *query.Pagination) ([]*domaindoctor.Doctor, error) {
	var out []*domaindoctor.Doctor
	for _, doc := range r.doctors {
		if filter.Specialty != nil && !strings.EqualFold(doc.Specialty, *filter.Specialty) {
			continue
		}
		if filter.Near != nil && !doc.InBox(*filter.Near) {
			continue
		}
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExperienceYears > out[j].ExperienceYears })
	if pagination != nil && pagination.Limit != nil && len(out) > *pagination.Limit {
		out = out[:*pagination.Limit]
	}
	return out, nil
}

func (r *memoryDoctorRepo) FindByPublicID(_ context.Context, publicID string) (*domaindoctor.Doctor, error) {
	for _, doc := range r.doctors {
		if doc.PublicID == publicID {
			return doc, nil
		}
	}
	return nil, assert.AnError
}

func newTestRouter() (*gin.Engine, *domaindoctor.DoctorService) {
	gin.SetMode(gin.TestMode)
	service := domaindoctor.NewDoctorService(&memoryDoctorRepo{})
	route := NewDoctorRoute(doctorhandler.NewDoctorHandler(service))

	engine := gin.New()
	route.RegisterRouter(engine.Group("/v1"))
	return engine, service
}

func seedDoctor(t *testing.T, service *domaindoctor.DoctorService, name, specialty string, years int) {
	t.Helper()
	_, err := service.RegisterDoctor(context.Background(), domaindoctor.RegisterDoctorInput{
		Name: name, Specialty: specialty, ExperienceYears: years,
	})
	require.NoError(t, err)
}

func TestRegisterDoctorRoute(t *testing.T) {
	engine, _ := newTestRouter()

	body, _ := json.Marshal(map[string]any{
		"name":             "Dr. Mehta",
		"specialty":        "Cardiologist",
		"experience_years": 18,
		"clinic_name":      "Heart Care Clinic",
	})
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/doctors", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp doctorresponses.DoctorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Contains(t, resp.ID, "doc_")
	assert.Equal(t, "Dr. Mehta", resp.Name)
	assert.Equal(t, 18, resp.ExperienceYears)
}

func TestRegisterDoctorRoute_MissingName(t *testing.T) {
	engine, _ := newTestRouter()

	body, _ := json.Marshal(map[string]any{"specialty": "Cardiologist"})
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/doctors", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSearchDoctorsRoute_RankedAndCapped(t *testing.T) {
	engine, service := newTestRouter()
	seedDoctor(t, service, "Dr. A", "Dermatologist", 5)
	seedDoctor(t, service, "Dr. B", "Dermatologist", 20)
	seedDoctor(t, service, "Dr. C", "Dermatologist", 12)
	seedDoctor(t, service, "Dr. D", "Dermatologist", 8)
	seedDoctor(t, service, "Dr. E", "Cardiologist", 30)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/doctors?specialty=Dermatologist", nil)
	engine.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp doctorresponses.DoctorListResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 3)
	assert.Equal(t, "Dr. B", resp.Data[0].Name)
	assert.Equal(t, "Dr. C", resp.Data[1].Name)
	assert.Equal(t, "Dr. D", resp.Data[2].Name)
}

func TestSearchDoctorsRoute_RequiresSpecialty(t *testing.T) {
	engine, _ := newTestRouter()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/doctors", nil)
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSearchDoctorsRoute_RejectsLoneLatitude(t *testing.T) {
	engine, _ := newTestRouter()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/doctors?specialty=Dermatologist&latitude=12.9", nil)
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
