package member

import "context"

type Repository interface {
	Create(ctx context.Context, member *Member) error
	GetByID(ctx context.Context, id string) (*Member, error)
	GetByEmail(ctx context.Context, email string) (*Member, error)
	GetByToken(ctx context.Context, token string) (*Member, error)
	ListByIDs(ctx context.Context, ids []string) ([]Member, error)
	Update(ctx context.Context, member *Member) error
	UpdatePushToken(ctx context.Context, id string, token *string) error
	UpdateTutorial(ctx context.Context, id string, tutorial StringList) error
}
