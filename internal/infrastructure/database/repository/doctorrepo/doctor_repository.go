package doctorrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"medifind-server/intake-api/internal/domain/doctor"
	"medifind-server/intake-api/internal/domain/query"
	"medifind-server/intake-api/internal/infrastructure/database/dbschema"
	"medifind-server/intake-api/internal/infrastructure/database/transaction"
	"medifind-server/intake-api/internal/utils/functional"
	"medifind-server/intake-api/internal/utils/platformerrors"
)

const pgUniqueViolation = "23505"

type DoctorGormRepository struct {
	db *transaction.Database
}

var _ doctor.DoctorRepository = (*DoctorGormRepository)(nil)

func NewDoctorGormRepository(db *transaction.Database) doctor.DoctorRepository {
	return &DoctorGormRepository{db}
}

// Create implements doctor.DoctorRepository.
func (repo *DoctorGormRepository) Create(ctx context.Context, doc *doctor.Doctor) error {
	model := dbschema.NewSchemaDoctor(doc)
	if err := repo.db.GetTx(ctx).WithContext(ctx).Create(model).Error; err != nil {
		return repo.wrapWriteError(ctx, err, "failed to create doctor")
	}
	doc.ID = model.ID
	doc.CreatedAt = model.CreatedAt
	doc.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByPublicID implements doctor.DoctorRepository.
func (repo *DoctorGormRepository) FindByPublicID(ctx context.Context, publicID string) (*doctor.Doctor, error) {
	var row dbschema.Doctor
	err := repo.db.GetTx(ctx).WithContext(ctx).
		Model(&dbschema.Doctor{}).
		Where("public_id = ?", publicID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
				"doctor not found", err, "7f8a9b0c-1d2e-43f4-a5b6-c7d8e9f0a1b2")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find doctor")
	}
	return row.EtoD(), nil
}

// FindByFilter implements doctor.DoctorRepository. Results are ordered by
// experience descending, then ID for a stable tiebreak.
func (repo *DoctorGormRepository) FindByFilter(ctx context.Context, filter doctor.DoctorFilter, pagination *query.Pagination) ([]*doctor.Doctor, error) {
	sql := repo.applyFilter(repo.db.GetTx(ctx).WithContext(ctx).Model(&dbschema.Doctor{}), filter)
	sql = sql.Order("experience_years DESC, id ASC")
	if pagination != nil && pagination.Limit != nil && *pagination.Limit > 0 {
		sql = sql.Limit(*pagination.Limit)
	}

	var rows []*dbschema.Doctor
	if err := sql.Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find doctors")
	}

	return functional.Map(rows, func(item *dbschema.Doctor) *doctor.Doctor {
		return item.EtoD()
	}), nil
}

func (repo *DoctorGormRepository) wrapWriteError(ctx context.Context, err error, message string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
			"doctor already exists", err, "6e7f8a9b-0c1d-42e3-f4a5-b6c7d8e9f0a1")
	}
	return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, message)
}

func (repo *DoctorGormRepository) applyFilter(sql *gorm.DB, filter doctor.DoctorFilter) *gorm.DB {
	if filter.ID != nil {
		sql = sql.Where("id = ?", *filter.ID)
	}
	if filter.PublicID != nil {
		sql = sql.Where("public_id = ?", *filter.PublicID)
	}
	if filter.Specialty != nil {
		sql = sql.Where("LOWER(specialty) = LOWER(?)", *filter.Specialty)
	}
	if filter.Near != nil {
		sql = sql.Where("latitude BETWEEN ? AND ?", filter.Near.Latitude-doctor.NearbyBoxDegrees, filter.Near.Latitude+doctor.NearbyBoxDegrees).
			Where("longitude BETWEEN ? AND ?", filter.Near.Longitude-doctor.NearbyBoxDegrees, filter.Near.Longitude+doctor.NearbyBoxDegrees)
	}
	return sql
}
