package doctorresponses

import "medifind-server/intake-api/internal/domain/doctor"

// DoctorResponse represents one directory entry on the wire
type DoctorResponse struct {
	ID              string   `json:"id"`
	Object          string   `json:"object"`
	Name            string   `json:"name"`
	Specialty       string   `json:"specialty"`
	ExperienceYears int      `json:"experience_years"`
	ClinicName      string   `json:"clinic_name,omitempty"`
	Address         string   `json:"address,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

// DoctorListResponse represents a ranked search result
type DoctorListResponse struct {
	Object string           `json:"object"`
	Data   []DoctorResponse `json:"data"`
}

// NewDoctorResponse creates a response from a domain doctor
func NewDoctorResponse(doc *doctor.Doctor) *DoctorResponse {
	return &DoctorResponse{
		ID:              doc.PublicID,
		Object:          "doctor",
		Name:            doc.Name,
		Specialty:       doc.Specialty,
		ExperienceYears: doc.ExperienceYears,
		ClinicName:      doc.ClinicName,
		Address:         doc.Address,
		Phone:           doc.Phone,
		Latitude:        doc.Latitude,
		Longitude:       doc.Longitude,
	}
}

// NewDoctorResponses converts a result set, keeping rank order.
func NewDoctorResponses(doctors []*doctor.Doctor) []DoctorResponse {
	if len(doctors) == 0 {
		return nil
	}
	data := make([]DoctorResponse, 0, len(doctors))
	for _, doc := range doctors {
		if doc == nil {
			continue
		}
		data = append(data, *NewDoctorResponse(doc))
	}
	return data
}

// NewDoctorListResponse creates a doctor list response
func NewDoctorListResponse(doctors []*doctor.Doctor) *DoctorListResponse {
	data := NewDoctorResponses(doctors)
	if data == nil {
		data = []DoctorResponse{}
	}
	return &DoctorListResponse{Object: "list", Data: data}
}
