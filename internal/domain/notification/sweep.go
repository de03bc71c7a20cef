package notification

import (
	"context"
	"errors"
	"fmt"

	"kidsweek-go/internal/domain/activity"
)

// SweepDueReminders promotes due, unsent reminder notifications into one
// batched push call per activity and marks the whole batch push_sent in a
// single update, delivery outcome notwithstanding. That gives at-most-once
// delivery: a failed push is never retried, and successive sweeps never spam.
func (e *Engine) SweepDueReminders(ctx context.Context) error {
	due, err := e.repo.ListDueReminders(ctx, e.now())
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	type group struct {
		activityID string
		ids        []string
		memberIDs  []string
	}

	orphaned := make([]string, 0)
	groups := make(map[string]*group)
	order := make([]string, 0)
	for _, n := range due {
		if n.ActivityID == nil {
			orphaned = append(orphaned, n.ID)
			continue
		}
		g, ok := groups[*n.ActivityID]
		if !ok {
			g = &group{activityID: *n.ActivityID}
			groups[*n.ActivityID] = g
			order = append(order, *n.ActivityID)
		}
		g.ids = append(g.ids, n.ID)
		g.memberIDs = append(g.memberIDs, n.MemberID)
	}

	for _, activityID := range order {
		g := groups[activityID]

		act, err := e.activities.GetByID(ctx, g.activityID)
		if err != nil {
			if errors.Is(err, activity.ErrActivityNotFound) {
				// The activity is gone; keeping the rows would leave them
				// pending forever.
				orphaned = append(orphaned, g.ids...)
				continue
			}
			e.log.InternalError("reminders: resolve activity failed", err, "activity_id", g.activityID)
			continue
		}

		e.pushReminder(ctx, act, g.memberIDs)

		if err := e.repo.MarkPushSent(ctx, g.ids); err != nil {
			e.log.InternalError("reminders: mark push sent failed", err, "activity_id", g.activityID)
		}
	}

	if len(orphaned) > 0 {
		if err := e.repo.DeleteByIDs(ctx, orphaned); err != nil {
			e.log.InternalError("reminders: orphan cleanup failed", err)
		} else {
			e.log.Info("reminders: orphaned rows deleted", "count", len(orphaned))
		}
	}

	return nil
}

func (e *Engine) pushReminder(ctx context.Context, act *activity.Activity, memberIDs []string) {
	members, err := e.members.ListByIDs(ctx, memberIDs)
	if err != nil {
		e.log.InternalError("reminders: resolve members failed", err, "activity_id", act.ID)
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

	body := fmt.Sprintf("%q starts on %s", act.Name, act.DateBegin.Format("Mon 02 Jan at 15:04"))
	results, err := e.push.SendBatch(ctx, tokens, "Activity reminder", body, map[string]string{
		"type":       TypeReminder,
		"activityId": act.ID,
	})
	if err != nil {
		e.log.InternalError("reminders: push failed", err, "activity_id", act.ID)
		return
	}
	for _, result := range results {
		if !result.OK {
			e.log.Warn("reminders: push rejected", "token", result.Token, "detail", result.Detail)
		}
	}
	e.log.Info("reminders: push sent", "activity", act.Name, "tokens", len(tokens))
}
