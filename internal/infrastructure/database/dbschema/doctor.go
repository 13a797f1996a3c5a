package dbschema

import (
	"medifind-server/intake-api/internal/domain/doctor"
	"medifind-server/intake-api/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Doctor{})
}

// Doctor represents the database schema for directory entries
type Doctor struct {
	BaseModel
	PublicID        string   `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name            string   `gorm:"type:varchar(255);not null"`
	Specialty       string   `gorm:"type:varchar(100);index:idx_doctor_specialty_experience;not null"`
	ExperienceYears int      `gorm:"index:idx_doctor_specialty_experience;not null;default:0"`
	ClinicName      string   `gorm:"type:varchar(255)"`
	Address         string   `gorm:"type:varchar(512)"`
	Phone           string   `gorm:"type:varchar(30)"`
	Latitude        *float64 `gorm:"type:double precision;index:idx_doctor_location"`
	Longitude       *float64 `gorm:"type:double precision;index:idx_doctor_location"`
}

// NewSchemaDoctor creates a database schema from domain doctor
func NewSchemaDoctor(d *doctor.Doctor) *Doctor {
	return &Doctor{
		BaseModel: BaseModel{
			ID:        d.ID,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
		PublicID:        d.PublicID,
		Name:            d.Name,
		Specialty:       d.Specialty,
		ExperienceYears: d.ExperienceYears,
		ClinicName:      d.ClinicName,
		Address:         d.Address,
		Phone:           d.Phone,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
	}
}

// EtoD converts database schema to domain doctor (Entity to Domain)
func (d *Doctor) EtoD() *doctor.Doctor {
	return &doctor.Doctor{
		ID:              d.ID,
		PublicID:        d.PublicID,
		Name:            d.Name,
		Specialty:       d.Specialty,
		ExperienceYears: d.ExperienceYears,
		ClinicName:      d.ClinicName,
		Address:         d.Address,
		Phone:           d.Phone,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
