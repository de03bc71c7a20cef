package activity

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Create(ctx context.Context, activity *Activity) error
	GetByID(ctx context.Context, id string) (*Activity, error)
	ListUpcomingForMember(ctx context.Context, memberID string, from time.Time) ([]Activity, error)
	Update(ctx context.Context, activity *Activity) error
	ReplaceTasks(ctx context.Context, activityID string, tasks []Task) error
	ReplaceRecurrence(ctx context.Context, activityID string, recurrence *Recurrence) error
	SetMembers(ctx context.Context, activityID string, memberIDs []string) error
	AddMember(ctx context.Context, activityID, memberID string) error
	// Delete removes the activity; tasks, recurrence, member rows and
	// notifications referencing it go with it (schema-level cascade).
	Delete(ctx context.Context, id string) error
}
