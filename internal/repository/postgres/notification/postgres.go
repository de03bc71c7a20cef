package notification

import (
	"context"
	"errors"
	"time"

	notificationdomain "kidsweek-go/internal/domain/notification"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create relies on the partial unique indexes over pending
// invitation/reminder rows: a concurrent duplicate insert becomes a no-op
// instead of a second pending row.
func (r *PostgresRepository) Create(ctx context.Context, n *notificationdomain.Notification) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(n)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*notificationdomain.Notification, error) {
	var n notificationdomain.Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notificationdomain.ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *PostgresRepository) GetPendingInvitation(ctx context.Context, memberID, activityID string) (*notificationdomain.Notification, error) {
	var n notificationdomain.Notification
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND activity_id = ? AND type = ? AND status = ?",
			memberID, activityID, notificationdomain.TypeInvitation, notificationdomain.StatusPending).
		First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notificationdomain.ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *PostgresRepository) ListPendingInvitations(ctx context.Context, memberID string) ([]notificationdomain.Notification, error) {
	var notifications []notificationdomain.Notification
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND type = ? AND status = ?",
			memberID, notificationdomain.TypeInvitation, notificationdomain.StatusPending).
		Order("created_at asc").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *PostgresRepository) ListDueRemindersForMember(ctx context.Context, memberID string, now time.Time) ([]notificationdomain.Notification, error) {
	var notifications []notificationdomain.Notification
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND type = ? AND status = ? AND reminder_at <= ?",
			memberID, notificationdomain.TypeReminder, notificationdomain.StatusPending, now).
		Order("reminder_at asc").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *PostgresRepository) ListDueReminders(ctx context.Context, now time.Time) ([]notificationdomain.Notification, error) {
	var notifications []notificationdomain.Notification
	err := r.db.WithContext(ctx).
		Where("type = ? AND status = ? AND reminder_at <= ? AND push_sent = false",
			notificationdomain.TypeReminder, notificationdomain.StatusPending, now).
		Order("reminder_at asc").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&notificationdomain.Notification{}).
		Where("id = ?", id).
		Update("status", notificationdomain.StatusRead).Error
}

func (r *PostgresRepository) MarkResponded(ctx context.Context, id string, respondedAt time.Time, accepted bool) error {
	return r.db.WithContext(ctx).Model(&notificationdomain.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       notificationdomain.StatusDone,
			"responded_at": respondedAt,
			"accepted":     accepted,
		}).Error
}

func (r *PostgresRepository) MarkPushSent(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&notificationdomain.Notification{}).
		Where("id IN ?", ids).
		Update("push_sent", true).Error
}

func (r *PostgresRepository) DeleteByMemberAndActivity(ctx context.Context, memberID, activityID string) error {
	return r.db.WithContext(ctx).
		Delete(&notificationdomain.Notification{}, "member_id = ? AND activity_id = ?", memberID, activityID).Error
}

func (r *PostgresRepository) DeleteRemindersByActivity(ctx context.Context, activityID string) error {
	return r.db.WithContext(ctx).
		Delete(&notificationdomain.Notification{}, "activity_id = ? AND type = ?", activityID, notificationdomain.TypeReminder).Error
}

func (r *PostgresRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&notificationdomain.Notification{}, "id IN ?", ids).Error
}
