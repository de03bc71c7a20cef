package invite

import (
	"context"
	"errors"
	"time"

	invitedomain "kidsweek-go/internal/domain/invite"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, inv *invitedomain.Invite) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*invitedomain.Invite, error) {
	var inv invitedomain.Invite
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invitedomain.ErrInviteNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*invitedomain.Invite, error) {
	var inv invitedomain.Invite
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invitedomain.ErrInviteNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PostgresRepository) GetByPair(ctx context.Context, inviterID, invitedID string) (*invitedomain.Invite, error) {
	var inv invitedomain.Invite
	err := r.db.WithContext(ctx).
		Where("inviter_id = ? AND invited_id = ?", inviterID, invitedID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invitedomain.ErrInviteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PostgresRepository) ListForMember(ctx context.Context, memberID string) ([]invitedomain.Invite, error) {
	var invites []invitedomain.Invite
	err := r.db.WithContext(ctx).
		Where("inviter_id = ? OR invited_id = ?", memberID, memberID).
		Order("invited_at desc").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}
	return invites, nil
}

func (r *PostgresRepository) Update(ctx context.Context, inv *invitedomain.Invite) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *PostgresRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&invitedomain.Invite{}).
		Where("status = ? AND expires_at < ?", invitedomain.StatusPending, now).
		Update("status", invitedomain.StatusExpired)
	return result.RowsAffected, result.Error
}
