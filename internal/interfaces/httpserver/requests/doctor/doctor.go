package doctorrequests

// RegisterDoctorRequest adds one doctor to the directory.
type RegisterDoctorRequest struct {
	Name            string   `json:"name" validate:"required"`
	Specialty       string   `json:"specialty" validate:"required"`
	ExperienceYears int      `json:"experience_years" validate:"gte=0"`
	ClinicName      string   `json:"clinic_name,omitempty"`
	Address         string   `json:"address,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

// SearchDoctorsQueryParams drives the directory lookup. Latitude and
// longitude are optional but must come as a pair.
type SearchDoctorsQueryParams struct {
	Specialty string   `form:"specialty"`
	Latitude  *float64 `form:"latitude"`
	Longitude *float64 `form:"longitude"`
}
