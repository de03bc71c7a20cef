package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kidsweek-go/internal/domain/activity"
	"kidsweek-go/internal/domain/member"
	"kidsweek-go/pkg/logger"
	"github.com/google/uuid"
)

// ReminderGrace tolerates reminders whose instant passed while the request was
// in flight (clock skew, slow clients). A reminder older than this never
// produces a notification.
const ReminderGrace = time.Minute

// Engine translates activity lifecycle events into notification rows and keeps
// them consistent with current membership. Push delivery is best-effort and
// never rolls back a persisted row.
type Engine struct {
	repo       Repository
	members    MemberDirectory
	activities ActivityStore
	push       PushSender
	log        logger.Logger
	now        func() time.Time
}

func NewEngine(repo Repository, members MemberDirectory, activities ActivityStore, push PushSender, log logger.Logger) *Engine {
	return &Engine{
		repo:       repo,
		members:    members,
		activities: activities,
		push:       push,
		log:        log,
		now:        time.Now,
	}
}

func (e *Engine) ActivityCreated(ctx context.Context, act *activity.Activity) error {
	invited := make([]string, 0, len(act.MemberIDs))
	for _, memberID := range act.MemberIDs {
		if memberID == act.OwnerID {
			continue
		}
		if err := e.createInvitation(ctx, act, memberID); err != nil {
			return err
		}
		invited = append(invited, memberID)
	}

	e.pushInvitations(ctx, act, invited)

	return e.createReminders(ctx, act)
}

func (e *Engine) ActivityUpdated(ctx context.Context, act *activity.Activity, previousMemberIDs []string) error {
	previous := make(map[string]struct{}, len(previousMemberIDs))
	for _, id := range previousMemberIDs {
		previous[id] = struct{}{}
	}
	current := make(map[string]struct{}, len(act.MemberIDs))
	for _, id := range act.MemberIDs {
		current[id] = struct{}{}
	}

	for _, id := range previousMemberIDs {
		if _, stillIn := current[id]; !stillIn {
			if err := e.repo.DeleteByMemberAndActivity(ctx, id, act.ID); err != nil {
				return err
			}
		}
	}

	added := make([]string, 0)
	for _, id := range act.MemberIDs {
		if id == act.OwnerID {
			continue
		}
		if _, wasIn := previous[id]; wasIn {
			continue
		}
		if err := e.createInvitation(ctx, act, id); err != nil {
			return err
		}
		added = append(added, id)
	}

	e.pushInvitations(ctx, act, added)

	// Reminders are replaced wholesale, not diffed: the reminder instant or
	// the member list may both have changed.
	if err := e.repo.DeleteRemindersByActivity(ctx, act.ID); err != nil {
		return err
	}
	return e.createReminders(ctx, act)
}

// RespondToInvitation handles accept/reject of a pending invitation. The
// transition is terminal: a second response finds no pending row and is
// rejected with ErrNotParticipant.
func (e *Engine) RespondToInvitation(ctx context.Context, memberID, activityID string, accept bool) error {
	pending, err := e.repo.GetPendingInvitation(ctx, memberID, activityID)
	if err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			return ErrNotParticipant
		}
		return err
	}

	act, err := e.activities.GetByID(ctx, activityID)
	if err != nil {
		return err
	}

	if accept && !act.HasMember(memberID) {
		if err := e.activities.AddMember(ctx, activityID, memberID); err != nil {
			return err
		}
	}

	if err := e.repo.MarkResponded(ctx, pending.ID, e.now(), accept); err != nil {
		return err
	}

	responder := e.lookupMember(ctx, memberID)
	verb := "accepted"
	if !accept {
		verb = "declined"
	}
	name := memberID
	if responder != nil {
		name = responder.FullName()
	}

	info := &Notification{
		ID:          uuid.NewString(),
		MemberID:    act.OwnerID,
		ActivityID:  &act.ID,
		SenderID:    &memberID,
		Type:        TypeInfo,
		Message:     fmt.Sprintf("%s %s the invitation to %q", name, verb, act.Name),
		Criticality: CriticalityLow,
		Status:      StatusPending,
	}
	_, err = e.repo.Create(ctx, info)
	return err
}

// Inbox returns the member's pending invitations and already-due reminders.
func (e *Engine) Inbox(ctx context.Context, memberID string) (invitations, reminders []Notification, err error) {
	invitations, err = e.repo.ListPendingInvitations(ctx, memberID)
	if err != nil {
		return nil, nil, err
	}
	reminders, err = e.repo.ListDueRemindersForMember(ctx, memberID, e.now())
	if err != nil {
		return nil, nil, err
	}
	return invitations, reminders, nil
}

func (e *Engine) MarkRead(ctx context.Context, memberID, notificationID string) (*Notification, error) {
	n, err := e.repo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.MemberID != memberID {
		return nil, ErrNotificationNotFound
	}
	if n.Status == StatusPending {
		if err := e.repo.MarkRead(ctx, n.ID); err != nil {
			return nil, err
		}
		n.Status = StatusRead
	}
	return n, nil
}

func (e *Engine) createInvitation(ctx context.Context, act *activity.Activity, memberID string) error {
	n := &Notification{
		ID:          uuid.NewString(),
		MemberID:    memberID,
		ActivityID:  &act.ID,
		SenderID:    &act.OwnerID,
		Type:        TypeInvitation,
		Message:     fmt.Sprintf("You are invited to %q", act.Name),
		Criticality: CriticalityMedium,
		Status:      StatusPending,
	}
	_, err := e.repo.Create(ctx, n)
	return err
}

// createReminders creates one pending reminder per activity member, owner
// included, when the reminder instant is still within the grace window.
func (e *Engine) createReminders(ctx context.Context, act *activity.Activity) error {
	if act.Reminder == nil {
		return nil
	}
	if act.Reminder.Sub(e.now()) < -ReminderGrace {
		return nil
	}

	for _, memberID := range act.MemberIDs {
		n := &Notification{
			ID:          uuid.NewString(),
			MemberID:    memberID,
			ActivityID:  &act.ID,
			Type:        TypeReminder,
			Message:     fmt.Sprintf("Reminder for %q", act.Name),
			Criticality: CriticalityHigh,
			Status:      StatusPending,
			ReminderAt:  act.Reminder,
		}
		if _, err := e.repo.Create(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// pushInvitations sends a best-effort invitation push to the given members.
// Failures are logged and swallowed.
func (e *Engine) pushInvitations(ctx context.Context, act *activity.Activity, memberIDs []string) {
	if len(memberIDs) == 0 {
		return
	}

	members, err := e.members.ListByIDs(ctx, memberIDs)
	if err != nil {
		e.log.InternalError("notifications: resolve invited members failed", err, "activity_id", act.ID)
		return
	}

	tokens := make([]string, 0, len(members))
	for _, m := range members {
		if m.HasPushToken() {
			tokens = append(tokens, *m.PushToken)
		}
	}
	if len(tokens) == 0 {
		return
	}

	owner := e.lookupMember(ctx, act.OwnerID)
	ownerName := "Someone"
	if owner != nil {
		ownerName = owner.FirstName
	}

	body := fmt.Sprintf("%s invited you to %q", ownerName, act.Name)
	results, err := e.push.SendBatch(ctx, tokens, "New activity", body, map[string]string{
		"type":       TypeInvitation,
		"activityId": act.ID,
	})
	if err != nil {
		e.log.InternalError("notifications: invitation push failed", err, "activity_id", act.ID)
		return
	}
	for _, result := range results {
		if !result.OK {
			e.log.Warn("notifications: invitation push rejected", "token", result.Token, "detail", result.Detail)
		}
	}
}

func (e *Engine) lookupMember(ctx context.Context, id string) *member.Member {
	members, err := e.members.ListByIDs(ctx, []string{id})
	if err != nil || len(members) == 0 {
		return nil
	}
	return &members[0]
}
