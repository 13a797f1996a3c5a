package doctor

import (
	"context"
	"time"

	"medifind-server/intake-api/internal/domain/query"
)

// ===============================================
// Doctor Types
// ===============================================

// NearbyBoxDegrees is the half-width of the search box around a coordinate,
// in degrees. Roughly 2km at the equator.
const NearbyBoxDegrees = 0.02

// MaxSearchResults caps every directory search.
const MaxSearchResults = 3

type Doctor struct {
	ID              uint      `json:"-"`
	PublicID        string    `json:"id"` // string ID like "doc_abc123"
	Name            string    `json:"name"`
	Specialty       string    `json:"specialty"`
	ExperienceYears int       `json:"experience_years"`
	ClinicName      string    `json:"clinic_name,omitempty"`
	Address         string    `json:"address,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Coordinates is a point of interest for a nearby search.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// ===============================================
// Doctor Repository
// ===============================================

type DoctorFilter struct {
	ID        *uint
	PublicID  *string
	Specialty *string

	// Near restricts results to the bounding box around the point. Doctors
	// without coordinates never match a Near filter.
	Near *Coordinates
}

type DoctorRepository interface {
	Create(ctx context.Context, doctor *Doctor) error
	FindByPublicID(ctx context.Context, publicID string) (*Doctor, error)

	// FindByFilter returns doctors matching the filter ordered by experience
	// descending, honoring pagination.Limit. Specialty matching is
	// case-insensitive.
	FindByFilter(ctx context.Context, filter DoctorFilter, pagination *query.Pagination) ([]*Doctor, error)
}

// InBox reports whether the doctor's coordinates fall within the search box
// centered on at.
func (d *Doctor) InBox(at Coordinates) bool {
	if d.Latitude == nil || d.Longitude == nil {
		return false
	}
	return *d.Latitude >= at.Latitude-NearbyBoxDegrees &&
		*d.Latitude <= at.Latitude+NearbyBoxDegrees &&
		*d.Longitude >= at.Longitude-NearbyBoxDegrees &&
		*d.Longitude <= at.Longitude+NearbyBoxDegrees
}
