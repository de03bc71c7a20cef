package member

import (
	"context"
	"errors"

	memberdomain "kidsweek-go/internal/domain/member"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *memberdomain.Member) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*memberdomain.Member, error) {
	var m memberdomain.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memberdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*memberdomain.Member, error) {
	var m memberdomain.Member
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memberdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*memberdomain.Member, error) {
	var m memberdomain.Member
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, memberdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []string) ([]memberdomain.Member, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var members []memberdomain.Member
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) Update(ctx context.Context, m *memberdomain.Member) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *PostgresRepository) UpdatePushToken(ctx context.Context, id string, token *string) error {
	return r.db.WithContext(ctx).Model(&memberdomain.Member{}).Where("id = ?", id).Update("push_token", token).Error
}

func (r *PostgresRepository) UpdateTutorial(ctx context.Context, id string, tutorial memberdomain.StringList) error {
	return r.db.WithContext(ctx).Model(&memberdomain.Member{}).Where("id = ?", id).Update("tutorial", tutorial).Error
}
