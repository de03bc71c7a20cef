package activity

import (
	"context"
	"errors"
	"time"

	activitydomain "kidsweek-go/internal/domain/activity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type activityMember struct {
	ActivityID string `gorm:"type:uuid;primaryKey"`
	MemberID   string `gorm:"type:uuid;primaryKey"`
}

func (activityMember) TableName() string { return "activity_members" }

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(activitydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, act *activitydomain.Activity) error {
	return r.db.WithContext(ctx).Create(act).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*activitydomain.Activity, error) {
	var act activitydomain.Activity
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Recurrence").
		Where("id = ?", id).
		First(&act).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, activitydomain.ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	memberIDs, err := r.memberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	act.MemberIDs = memberIDs
	return &act, nil
}

func (r *PostgresRepository) ListUpcomingForMember(ctx context.Context, memberID string, from time.Time) ([]activitydomain.Activity, error) {
	var activities []activitydomain.Activity
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Recurrence").
		Joins("join activity_members on activity_members.activity_id = activities.id").
		Where("activity_members.member_id = ? AND activities.date_begin >= ?", memberID, from).
		Order("activities.date_begin asc").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}

	for i := range activities {
		memberIDs, err := r.memberIDs(ctx, activities[i].ID)
		if err != nil {
			return nil, err
		}
		activities[i].MemberIDs = memberIDs
	}
	return activities, nil
}

func (r *PostgresRepository) Update(ctx context.Context, act *activitydomain.Activity) error {
	return r.db.WithContext(ctx).Model(&activitydomain.Activity{}).
		Where("id = ?", act.ID).
		Updates(map[string]interface{}{
			"name":       act.Name,
			"place":      act.Place,
			"date_begin": act.DateBegin,
			"date_end":   act.DateEnd,
			"reminder":   act.Reminder,
			"note":       act.Note,
			"color":      act.Color,
			"validation": act.Validation,
		}).Error
}

func (r *PostgresRepository) ReplaceTasks(ctx context.Context, activityID string, tasks []activitydomain.Task) error {
	if err := r.db.WithContext(ctx).Delete(&activitydomain.Task{}, "activity_id = ?", activityID).Error; err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}
	for i := range tasks {
		tasks[i].ActivityID = activityID
	}
	return r.db.WithContext(ctx).Create(&tasks).Error
}

func (r *PostgresRepository) ReplaceRecurrence(ctx context.Context, activityID string, recurrence *activitydomain.Recurrence) error {
	if err := r.db.WithContext(ctx).Delete(&activitydomain.Recurrence{}, "activity_id = ?", activityID).Error; err != nil {
		return err
	}
	if recurrence == nil {
		return nil
	}
	recurrence.ActivityID = activityID
	return r.db.WithContext(ctx).Create(recurrence).Error
}

func (r *PostgresRepository) SetMembers(ctx context.Context, activityID string, memberIDs []string) error {
	if err := r.db.WithContext(ctx).Delete(&activityMember{}, "activity_id = ?", activityID).Error; err != nil {
		return err
	}
	if len(memberIDs) == 0 {
		return nil
	}
	rows := make([]activityMember, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		rows = append(rows, activityMember{ActivityID: activityID, MemberID: memberID})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *PostgresRepository) AddMember(ctx context.Context, activityID, memberID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&activityMember{ActivityID: activityID, MemberID: memberID}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&activitydomain.Activity{}, "id = ?", id).Error
}

func (r *PostgresRepository) memberIDs(ctx context.Context, activityID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&activityMember{}).
		Where("activity_id = ?", activityID).
		Pluck("member_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
