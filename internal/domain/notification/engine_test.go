package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"kidsweek-go/internal/domain/activity"
	"kidsweek-go/internal/domain/member"
	"kidsweek-go/pkg/logger"
)

type fakeNotificationRepo struct {
	rows  map[string]*Notification
	order []string
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{rows: make(map[string]*Notification)}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *Notification) (bool, error) {
	// Mirrors the partial unique index on pending invitation/reminder rows.
	if n.Status == StatusPending && (n.Type == TypeInvitation || n.Type == TypeReminder) && n.ActivityID != nil {
		for _, existing := range r.rows {
			if existing.Status == StatusPending &&
				existing.Type == n.Type &&
				existing.MemberID == n.MemberID &&
				existing.ActivityID != nil && *existing.ActivityID == *n.ActivityID {
				return false, nil
			}
		}
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	copied := *n
	r.rows[n.ID] = &copied
	r.order = append(r.order, n.ID)
	return true, nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*Notification, error) {
	n, ok := r.rows[id]
	if !ok {
		return nil, ErrNotificationNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNotificationRepo) GetPendingInvitation(ctx context.Context, memberID, activityID string) (*Notification, error) {
	for _, n := range r.rows {
		if n.Type == TypeInvitation && n.Status == StatusPending && n.MemberID == memberID &&
			n.ActivityID != nil && *n.ActivityID == activityID {
			copied := *n
			return &copied, nil
		}
	}
	return nil, ErrNotificationNotFound
}

func (r *fakeNotificationRepo) ListPendingInvitations(ctx context.Context, memberID string) ([]Notification, error) {
	result := make([]Notification, 0)
	for _, id := range r.order {
		n, ok := r.rows[id]
		if ok && n.Type == TypeInvitation && n.Status == StatusPending && n.MemberID == memberID {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) ListDueRemindersForMember(ctx context.Context, memberID string, now time.Time) ([]Notification, error) {
	result := make([]Notification, 0)
	for _, id := range r.order {
		n, ok := r.rows[id]
		if ok && n.Type == TypeReminder && n.Status == StatusPending && n.MemberID == memberID &&
			n.ReminderAt != nil && !n.ReminderAt.After(now) {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) ListDueReminders(ctx context.Context, now time.Time) ([]Notification, error) {
	result := make([]Notification, 0)
	for _, id := range r.order {
		n, ok := r.rows[id]
		if ok && n.Type == TypeReminder && n.Status == StatusPending && !n.PushSent &&
			n.ReminderAt != nil && !n.ReminderAt.After(now) {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error {
	n, ok := r.rows[id]
	if !ok {
		return ErrNotificationNotFound
	}
	n.Status = StatusRead
	return nil
}

func (r *fakeNotificationRepo) MarkResponded(ctx context.Context, id string, respondedAt time.Time, accepted bool) error {
	n, ok := r.rows[id]
	if !ok {
		return ErrNotificationNotFound
	}
	n.Status = StatusDone
	n.RespondedAt = &respondedAt
	n.Accepted = &accepted
	return nil
}

func (r *fakeNotificationRepo) MarkPushSent(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if n, ok := r.rows[id]; ok {
			n.PushSent = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteByMemberAndActivity(ctx context.Context, memberID, activityID string) error {
	for id, n := range r.rows {
		if n.MemberID == memberID && n.ActivityID != nil && *n.ActivityID == activityID {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteRemindersByActivity(ctx context.Context, activityID string) error {
	for id, n := range r.rows {
		if n.Type == TypeReminder && n.ActivityID != nil && *n.ActivityID == activityID {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	for _, id := range ids {
		delete(r.rows, id)
	}
	return nil
}

func (r *fakeNotificationRepo) countBy(match func(*Notification) bool) int {
	count := 0
	for _, n := range r.rows {
		if match(n) {
			count++
		}
	}
	return count
}

type fakeDirectory struct {
	members map[string]member.Member
}

func (d *fakeDirectory) ListByIDs(ctx context.Context, ids []string) ([]member.Member, error) {
	result := make([]member.Member, 0, len(ids))
	for _, id := range ids {
		if m, ok := d.members[id]; ok {
			result = append(result, m)
		}
	}
	return result, nil
}

type fakeActivityStore struct {
	activities map[string]*activity.Activity
}

func (s *fakeActivityStore) GetByID(ctx context.Context, id string) (*activity.Activity, error) {
	act, ok := s.activities[id]
	if !ok {
		return nil, activity.ErrActivityNotFound
	}
	return act, nil
}

func (s *fakeActivityStore) AddMember(ctx context.Context, activityID, memberID string) error {
	act, ok := s.activities[activityID]
	if !ok {
		return activity.ErrActivityNotFound
	}
	if !act.HasMember(memberID) {
		act.MemberIDs = append(act.MemberIDs, memberID)
	}
	return nil
}

type pushCall struct {
	tokens []string
	title  string
	body   string
	data   map[string]string
}

type fakePush struct {
	calls []pushCall
	err   error
}

func (p *fakePush) SendBatch(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]PushResult, error) {
	p.calls = append(p.calls, pushCall{tokens: tokens, title: title, body: body, data: data})
	if p.err != nil {
		return nil, p.err
	}
	results := make([]PushResult, 0, len(tokens))
	for _, token := range tokens {
		results = append(results, PushResult{Token: token, OK: true})
	}
	return results, nil
}

func testLogger() logger.Logger {
	return logger.New(io.Discard, slog.LevelError, "text")
}

func strptr(s string) *string { return &s }

func newTestEngine(now time.Time) (*Engine, *fakeNotificationRepo, *fakeDirectory, *fakeActivityStore, *fakePush) {
	repo := newFakeNotificationRepo()
	directory := &fakeDirectory{members: make(map[string]member.Member)}
	store := &fakeActivityStore{activities: make(map[string]*activity.Activity)}
	sender := &fakePush{}
	engine := NewEngine(repo, directory, store, sender, testLogger())
	engine.now = func() time.Time { return now }
	return engine, repo, directory, store, sender
}

func testActivity(id, ownerID string, memberIDs []string, reminder *time.Time, begin time.Time) *activity.Activity {
	return &activity.Activity{
		ID:        id,
		Name:      "Football practice",
		DateBegin: begin,
		Reminder:  reminder,
		OwnerID:   ownerID,
		MemberIDs: memberIDs,
	}
}

func TestActivityCreatedInvitesMembersAndRemindsEveryone(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	engine, repo, directory, store, sender := newTestEngine(now)

	directory.members["owner"] = member.Member{ID: "owner", FirstName: "Alice"}
	directory.members["m-1"] = member.Member{ID: "m-1", FirstName: "Bob", PushToken: strptr("ExponentPushToken[bob]")}
	directory.members["m-2"] = member.Member{ID: "m-2", FirstName: "Carol"}

	reminder := now.Add(time.Hour)
	act := testActivity("act-1", "owner", []string{"owner", "m-1", "m-2"}, &reminder, now.Add(2*time.Hour))
	store.activities["act-1"] = act

	if err := engine.ActivityCreated(context.Background(), act); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	invitations := repo.countBy(func(n *Notification) bool { return n.Type == TypeInvitation })
	if invitations != 2 {
		t.Fatalf("expected 2 invitations, got %d", invitations)
	}
	if _, err := repo.GetPendingInvitation(context.Background(), "owner", "act-1"); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("owner must not be invited, got %v", err)
	}

	reminders := repo.countBy(func(n *Notification) bool { return n.Type == TypeReminder })
	if reminders != 3 {
		t.Fatalf("expected 3 reminders including owner, got %d", reminders)
	}

	if len(sender.calls) != 1 {
		t.Fatalf("expected one invitation push batch, got %d", len(sender.calls))
	}
	call := sender.calls[0]
	if len(call.tokens) != 1 || call.tokens[0] != "ExponentPushToken[bob]" {
		t.Fatalf("expected push to bob only, got %v", call.tokens)
	}
	if !strings.Contains(call.body, "Alice") {
		t.Fatalf("expected owner name in push body, got %q", call.body)
	}
}

func TestActivityCreatedReminderGraceWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		reminder time.Time
		want     int
	}{
		{"just past still within grace", now.Add(-30 * time.Second), 1},
		{"beyond grace", now.Add(-90 * time.Second), 0},
		{"future", now.Add(time.Hour), 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine, repo, _, store, _ := newTestEngine(now)
			reminder := tc.reminder
			act := testActivity("act-1", "owner", []string{"owner"}, &reminder, now.Add(2*time.Hour))
			store.activities["act-1"] = act

			if err := engine.ActivityCreated(context.Background(), act); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			got := repo.countBy(func(n *Notification) bool { return n.Type == TypeReminder })
			if got != tc.want {
				t.Fatalf("expected %d reminders, got %d", tc.want, got)
			}
		})
	}
}

func TestActivityCreatedTwiceDoesNotDuplicate(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	engine, repo, _, store, _ := newTestEngine(now)

	reminder := now.Add(time.Hour)
	act := testActivity("act-1", "owner", []string{"owner", "m-1"}, &reminder, now.Add(2*time.Hour))
	store.activities["act-1"] = act

	if err := engine.ActivityCreated(context.Background(), act); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := engine.ActivityCreated(context.Background(), act); err != nil {
		t.Fatalf("expected no error on replay, got %v", err)
	}

	invitations := repo.countBy(func(n *Notification) bool { return n.Type == TypeInvitation })
	if invitations != 1 {
		t.Fatalf("expected 1 invitation after replay, got %d", invitations)
	}
	reminders := repo.countBy(func(n *Notification) bool { return n.Type == TypeReminder })
	if reminders != 2 {
		t.Fatalf("expected 2 reminders after replay, got %d", reminders)
	}
}

func TestActivityUpdatedMembershipDiff(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	engine, repo, _, store, _ := newTestEngine(now)

	reminder := now.Add(time.Hour)
	act := testActivity("act-1", "owner", []string{"owner", "m-a", "m-b"}, &reminder, now.Add(2*time.Hour))
	store.activities["act-1"] = act
	if err := engine.ActivityCreated(context.Background(), act); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	previous := []string{"owner", "m-a", "m-b"}
	act.MemberIDs = []string{"owner", "m-a", "m-c"}
	if err := engine.ActivityUpdated(context.Background(), act, previous); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// m-b lost every notification tied to the activity.
	left := repo.countBy(func(n *Notification) bool { return n.MemberID == "m-b" })
	if left != 0 {
		t.Fatalf("expected removed member cleaned up, got %d rows", left)
	}

	// m-c gained an invitation; m-a kept the original one.
	if _, err := repo.GetPendingInvitation(context.Background(), "m-c", "act-1"); err != nil {
		t.Fatalf("expected pending invitation for added member, got %v", err)
	}
	if _, err := repo.GetPendingInvitation(context.Background(), "m-a", "act-1"); err != nil {
		t.Fatalf("expected surviving invitation for kept member, got %v", err)
	}

	reminders := repo.countBy(func(n *Notification) bool { return n.Type == TypeReminder })
	if reminders != 3 {
		t.Fatalf("expected reminders rebuilt for current members, got %d", reminders)
	}
	staleReminder := repo.countBy(func(n *Notification) bool {
		return n.Type == TypeReminder && n.MemberID == "m-b"
	})
	if staleReminder != 0 {
		t.Fatalf("expected no reminder for removed member")
	}
}

func TestActivityUpdatedReminderCleared(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	engine, repo, _, store, _ := newTestEngine(now)

	reminder := now.Add(time.Hour)
	act := testActivity("act-1", "owner", []string{"owner"}, &reminder, now.Add(2*time.Hour))
	store.activities["act-1"] = act
	if err := engine.ActivityCreated(context.Background(), act); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	act.Reminder = nil
	if err := engine.ActivityUpdated(context.Background(), act, []string{"owner"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	reminders := repo.countBy(func(n *Notification) bool { return n.Type == TypeReminder })
	if reminders != 0 {
		t.Fatalf("expected reminders removed with the reminder instant, got %d", reminders)
	}
}

func TestRespondToInvitationAccept(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	engine, repo, directory, store, _ := newTestEngine(now)

	directory.members["owner"] = member.Member{ID: "owner", FirstName: "Alice"}
	directory.members["m-1"] = member.Member{ID: "m-1", FirstName: "Bob", LastName: "Martin"}

	act := testActivity("act-1", "owner", []string{"owner"}, nil, now.Add(2*time.Hour))
	store.activities["act-1"] = act
	if _, err := repo.Create(context.Background(), &Notification{
		ID: "n-1", MemberID: "m-1", ActivityID: strptr("act-1"),
		Type: TypeInvitation, Status: StatusPending,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := engine.RespondToInvitation(context.Background(), "m-1", "act-1", true); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !act.HasMember("m-1") {
		t.Fatalf("expected responder added to activity members")
	}

	answered, err := repo.GetByID(context.Background(), "n-1")
	if err != nil {
		t.Fatalf("expected invitation row, got %v", err)
	}
	if answered.Status != StatusDone {
		t.Fatalf("expected done status, got %q", answered.Status)
	}
	if answered.RespondedAt == nil || !answered.RespondedAt.Equal(now) {
		t.Fatalf("expected respondedAt %v, got %v", now, answered.RespondedAt)
	}
	if answered.Accepted == nil || !*answered.Accepted {
		t.Fatalf("expected accepted true")
	}

	ownerInfo := repo.countBy(func(n *Notification) bool {
		return n.Type == TypeInfo && n.MemberID == "owner" && strings.Contains(n.Message, "accepted")
	})
	if ownerInfo != 1 {
		t.Fatalf("expected owner informed of the acceptance")
	}
}

func TestRespondToInvitationDecline(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	engine, repo, _, store, _ := newTestEngine(now)

	act := testActivity("act-1", "owner", []string{"owner"}, nil, now.Add(2*time.Hour))
	store.activities["act-1"] = act
	if _, err := repo.Create(context.Background(), &Notification{
		ID: "n-1", MemberID: "m-1", ActivityID: strptr("act-1"),
		Type: TypeInvitation, Status: StatusPending,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := engine.RespondToInvitation(context.Background(), "m-1", "act-1", false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if act.HasMember("m-1") {
		t.Fatalf("decline must not join the activity")
	}
	ownerInfo := repo.countBy(func(n *Notification) bool {
		return n.Type == TypeInfo && n.MemberID == "owner" && strings.Contains(n.Message, "declined")
	})
	if ownerInfo != 1 {
		t.Fatalf("expected owner informed of the decline")
	}
}

func TestRespondToInvitationTerminal(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	engine, repo, _, store, _ := newTestEngine(now)

	act := testActivity("act-1", "owner", []string{"owner"}, nil, now.Add(2*time.Hour))
	store.activities["act-1"] = act
	if _, err := repo.Create(context.Background(), &Notification{
		ID: "n-1", MemberID: "m-1", ActivityID: strptr("act-1"),
		Type: TypeInvitation, Status: StatusPending,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := engine.RespondToInvitation(context.Background(), "m-1", "act-1", true); err != nil {
		t.Fatalf("first response failed: %v", err)
	}
	err := engine.RespondToInvitation(context.Background(), "m-1", "act-1", false)
	if !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant on second response, got %v", err)
	}
}

func TestRespondToInvitationWithoutInvitation(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	engine, _, _, store, _ := newTestEngine(now)
	store.activities["act-1"] = testActivity("act-1", "owner", []string{"owner"}, nil, now.Add(time.Hour))

	err := engine.RespondToInvitation(context.Background(), "stranger", "act-1", true)
	if !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestInboxSplitsInvitationsAndDueReminders(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	engine, repo, _, _, _ := newTestEngine(now)

	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)
	seed := []*Notification{
		{ID: "n-1", MemberID: "m-1", ActivityID: strptr("act-1"), Type: TypeInvitation, Status: StatusPending},
		{ID: "n-2", MemberID: "m-1", ActivityID: strptr("act-2"), Type: TypeReminder, Status: StatusPending, ReminderAt: &past},
		{ID: "n-3", MemberID: "m-1", ActivityID: strptr("act-3"), Type: TypeReminder, Status: StatusPending, ReminderAt: &future},
		{ID: "n-4", MemberID: "m-2", ActivityID: strptr("act-1"), Type: TypeInvitation, Status: StatusPending},
	}
	for _, n := range seed {
		if _, err := repo.Create(context.Background(), n); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	invitations, reminders, err := engine.Inbox(context.Background(), "m-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(invitations) != 1 || invitations[0].ID != "n-1" {
		t.Fatalf("expected one invitation n-1, got %+v", invitations)
	}
	if len(reminders) != 1 || reminders[0].ID != "n-2" {
		t.Fatalf("expected one due reminder n-2, got %+v", reminders)
	}
}

func TestMarkReadOwnershipAndIdempotence(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	engine, repo, _, _, _ := newTestEngine(now)

	if _, err := repo.Create(context.Background(), &Notification{
		ID: "n-1", MemberID: "m-1", Type: TypeInfo, Status: StatusPending,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := engine.MarkRead(context.Background(), "m-2", "n-1"); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected foreign notification hidden, got %v", err)
	}

	n, err := engine.MarkRead(context.Background(), "m-1", "n-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n.Status != StatusRead {
		t.Fatalf("expected read status, got %q", n.Status)
	}

	again, err := engine.MarkRead(context.Background(), "m-1", "n-1")
	if err != nil {
		t.Fatalf("expected idempotent mark read, got %v", err)
	}
	if again.Status != StatusRead {
		t.Fatalf("expected read status on replay, got %q", again.Status)
	}
}
