package zone

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, zone *Zone) error
	GetByID(ctx context.Context, id string) (*Zone, error)
	ListForMember(ctx context.Context, memberID string) ([]Zone, error)
	Update(ctx context.Context, id, name, color string) error
	Delete(ctx context.Context, id string) error
	UpsertAuthorization(ctx context.Context, auth *Authorization) error
	DeleteAuthorization(ctx context.Context, zoneID, memberID string) error
}
