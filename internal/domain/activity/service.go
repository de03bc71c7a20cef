package activity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Notifier reacts to activity lifecycle events. Implemented by the
// notification engine.
type Notifier interface {
	ActivityCreated(ctx context.Context, act *Activity) error
	ActivityUpdated(ctx context.Context, act *Activity, previousMemberIDs []string) error
}

type Input struct {
	Name       string
	Place      string
	DateBegin  time.Time
	DateEnd    *time.Time
	Reminder   *time.Time
	Note       string
	Color      string
	Validation bool
	MemberIDs  []string
	Tasks      []TaskInput
	Recurrence *RecurrenceInput
}

type TaskInput struct {
	Name string
	IsOk bool
}

type RecurrenceInput struct {
	DateBegin time.Time
	DateEnd   time.Time
	Monday    bool
	Tuesday   bool
	Wednesday bool
	Thursday  bool
	Friday    bool
	Saturday  bool
	Sunday    bool
}

type Service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) GetByID(ctx context.Context, id string) (*Activity, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUpcoming(ctx context.Context, memberID string, from time.Time) ([]Activity, error) {
	return s.repo.ListUpcomingForMember(ctx, memberID, from)
}

func (s *Service) Create(ctx context.Context, ownerID string, input Input) (*Activity, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	act := &Activity{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(input.Name),
		Place:      input.Place,
		DateBegin:  input.DateBegin,
		DateEnd:    input.DateEnd,
		Reminder:   input.Reminder,
		Note:       input.Note,
		Color:      input.Color,
		Validation: input.Validation,
		OwnerID:    ownerID,
		Tasks:      buildTasks(input.Tasks),
		Recurrence: buildRecurrence(input.Recurrence),
		MemberIDs:  memberSet(ownerID, input.MemberIDs),
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, act); err != nil {
			return err
		}
		return tx.SetMembers(ctx, act.ID, act.MemberIDs)
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.ActivityCreated(ctx, act); err != nil {
		return nil, fmt.Errorf("notify activity created: %w", err)
	}

	return s.repo.GetByID(ctx, act.ID)
}

func (s *Service) Update(ctx context.Context, ownerID, id string, input Input) (*Activity, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != ownerID {
		return nil, ErrNotOwner
	}

	previousMemberIDs := existing.MemberIDs

	act := &Activity{
		ID:         id,
		Name:       strings.TrimSpace(input.Name),
		Place:      input.Place,
		DateBegin:  input.DateBegin,
		DateEnd:    input.DateEnd,
		Reminder:   input.Reminder,
		Note:       input.Note,
		Color:      input.Color,
		Validation: input.Validation,
		OwnerID:    existing.OwnerID,
		MemberIDs:  memberSet(existing.OwnerID, input.MemberIDs),
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Update(ctx, act); err != nil {
			return err
		}
		if err := tx.ReplaceTasks(ctx, id, buildTasks(input.Tasks)); err != nil {
			return err
		}
		if err := tx.ReplaceRecurrence(ctx, id, buildRecurrence(input.Recurrence)); err != nil {
			return err
		}
		return tx.SetMembers(ctx, id, act.MemberIDs)
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.ActivityUpdated(ctx, act, previousMemberIDs); err != nil {
		return nil, fmt.Errorf("notify activity updated: %w", err)
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}

func validate(input Input) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if input.DateBegin.IsZero() {
		return fmt.Errorf("dateBegin is required")
	}
	if input.DateEnd != nil && input.DateEnd.Before(input.DateBegin) {
		return ErrInvalidDates
	}
	return nil
}

func buildTasks(inputs []TaskInput) []Task {
	tasks := make([]Task, 0, len(inputs))
	for i, t := range inputs {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		tasks = append(tasks, Task{
			ID:       uuid.NewString(),
			Name:     name,
			IsOk:     t.IsOk,
			Position: i,
		})
	}
	return tasks
}

func buildRecurrence(input *RecurrenceInput) *Recurrence {
	if input == nil {
		return nil
	}
	return &Recurrence{
		ID:        uuid.NewString(),
		DateBegin: input.DateBegin,
		DateEnd:   input.DateEnd,
		Monday:    input.Monday,
		Tuesday:   input.Tuesday,
		Wednesday: input.Wednesday,
		Thursday:  input.Thursday,
		Friday:    input.Friday,
		Saturday:  input.Saturday,
		Sunday:    input.Sunday,
	}
}

// memberSet deduplicates the requested member list and guarantees the owner is
// part of it.
func memberSet(ownerID string, memberIDs []string) []string {
	seen := map[string]struct{}{ownerID: {}}
	result := []string{ownerID}
	for _, id := range memberIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
