package notification

import (
	"context"
	"time"

	"kidsweek-go/internal/domain/activity"
	"kidsweek-go/internal/domain/member"
)

type Repository interface {
	// Create inserts the notification. For pending invitation/reminder rows a
	// partial unique index on (member_id, activity_id, type) makes duplicate
	// inserts no-ops; created reports whether a row was actually written.
	Create(ctx context.Context, n *Notification) (created bool, err error)
	GetByID(ctx context.Context, id string) (*Notification, error)
	GetPendingInvitation(ctx context.Context, memberID, activityID string) (*Notification, error)
	ListPendingInvitations(ctx context.Context, memberID string) ([]Notification, error)
	ListDueRemindersForMember(ctx context.Context, memberID string, now time.Time) ([]Notification, error)
	// ListDueReminders returns pending reminder rows with reminder_at <= now
	// and push_sent = false, across all members.
	ListDueReminders(ctx context.Context, now time.Time) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkResponded(ctx context.Context, id string, respondedAt time.Time, accepted bool) error
	MarkPushSent(ctx context.Context, ids []string) error
	DeleteByMemberAndActivity(ctx context.Context, memberID, activityID string) error
	DeleteRemindersByActivity(ctx context.Context, activityID string) error
	DeleteByIDs(ctx context.Context, ids []string) error
}

// MemberDirectory is the slice of the member store the engine needs.
type MemberDirectory interface {
	ListByIDs(ctx context.Context, ids []string) ([]member.Member, error)
}

// ActivityStore is the slice of the activity store the engine needs.
type ActivityStore interface {
	GetByID(ctx context.Context, id string) (*activity.Activity, error)
	AddMember(ctx context.Context, activityID, memberID string) error
}

// PushResult is the per-token outcome of a batched push call.
type PushResult struct {
	Token  string
	OK     bool
	Detail string
}

// PushSender delivers one batched push call. Invalid or unregistered tokens
// surface as per-token failures, never as a batch error.
type PushSender interface {
	SendBatch(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]PushResult, error)
}
