package zone

import (
	"context"
	"errors"

	zonedomain "kidsweek-go/internal/domain/zone"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(zonedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, z *zonedomain.Zone) error {
	return r.db.WithContext(ctx).Omit("Authorizations").Create(z).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*zonedomain.Zone, error) {
	var z zonedomain.Zone
	err := r.db.WithContext(ctx).
		Preload("Authorizations").
		Where("id = ?", id).
		First(&z).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, zonedomain.ErrZoneNotFound
	}
	if err != nil {
		return nil, err
	}
	return &z, nil
}

func (r *PostgresRepository) ListForMember(ctx context.Context, memberID string) ([]zonedomain.Zone, error) {
	var zones []zonedomain.Zone
	err := r.db.WithContext(ctx).
		Preload("Authorizations").
		Joins("join zone_authorizations on zone_authorizations.zone_id = zones.id").
		Where("zone_authorizations.member_id = ?", memberID).
		Order("zones.created_at asc").
		Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, name, color string) error {
	return r.db.WithContext(ctx).Model(&zonedomain.Zone{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "color": color}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&zonedomain.Zone{}, "id = ?", id).Error
}

func (r *PostgresRepository) UpsertAuthorization(ctx context.Context, auth *zonedomain.Authorization) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "zone_id"}, {Name: "member_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"level"}),
		}).
		Create(auth).Error
}

func (r *PostgresRepository) DeleteAuthorization(ctx context.Context, zoneID, memberID string) error {
	return r.db.WithContext(ctx).
		Delete(&zonedomain.Authorization{}, "zone_id = ? AND member_id = ?", zoneID, memberID).Error
}
