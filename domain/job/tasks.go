package job

import (
	"errors"
	"fieldjobs/bizerror"
	"fieldjobs/common"
	"fieldjobs/event"
	"fieldjobs/session"
	"fmt"
	"strings"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

func (e *Engine) AddPendingTask(jobId types.ID, description string, actor *session.Session) (*Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("task description is required")}
	}

	var added Task
	_, err := e.mutate(jobId, func(j *Job, out *outcome) error {
		if err := requireParticipant(j, actor); err != nil {
			return err
		}
		if j.Status.ManagerControlled() {
			return bizerror.Reason(bizerror.ErrForbidden, "cannot add tasks after submission")
		}

		now := e.now()
		j.Tasks = append(j.Tasks, Task{
			ID:          common.NextId(idWorker),
			Description: description,
			Status:      TaskPending,
			Sessions:    []WorkSession{},
			Photos:      []TaskPhoto{},
		})
		t := &j.Tasks[len(j.Tasks)-1]
		added = t.clone()

		updates := []event.UpdatedProperty{{PropertyName: "task." + t.ID.String(), NewValue: t.Description}}
		updates = append(updates, e.recompute(j, now)...)
		out.notify(taskAddedNotifications(j, t, actor.Identity.ID, actor.Identity.Name, now)...)
		out.record(jobUpdatedEvent(j, updates, &actor.Identity, now))
		logrus.WithFields(logrus.Fields{"jobId": j.ID, "taskId": t.ID, "actor": actor.Identity.ID}).Info("task added")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

// UpdateTaskStatus saves the task and stamps its activity. Job status follows the
// derivation, it never reaches Completed this way.
func (e *Engine) UpdateTaskStatus(jobId, taskId types.ID, u *TaskUpdating, actor *session.Session) (*Job, error) {
	if u.Status != "" && !u.Status.Valid() {
		return nil, &bizerror.ErrBadParam{Cause: fmt.Errorf("unknown task status %q", u.Status)}
	}
	if u.Photos != nil {
		for _, p := range *u.Photos {
			if !p.Category.Valid() {
				return nil, &bizerror.ErrBadParam{Cause: fmt.Errorf("unknown photo category %q", p.Category)}
			}
		}
	}

	return e.mutate(jobId, func(j *Job, out *outcome) error {
		if err := requireParticipant(j, actor); err != nil {
			return err
		}
		if j.Status.ManagerControlled() {
			return bizerror.Reason(bizerror.ErrForbidden, "cannot update tasks after submission")
		}
		idx := j.taskIndex(taskId)
		if idx < 0 {
			return bizerror.Reason(bizerror.ErrNotFound, "task not found")
		}
		t := &j.Tasks[idx]
		if t.Status == TaskCancelled {
			return bizerror.Reason(bizerror.ErrForbidden, "cancelled tasks cannot be updated")
		}

		target := t.Status
		if u.Status != "" {
			target = u.Status
		}
		if target != t.Status {
			switch {
			case target == TaskCancelled:
				return invalidTransition("use task cancellation to cancel a task")
			case t.Status == TaskCompleted:
				return invalidTransition("completed tasks cannot change status")
			case !canTransitTask(t.Status, target):
				return invalidTransition(fmt.Sprintf("task cannot move from %s to %s", t.Status, target))
			}
		}

		now := e.now()
		uid := actor.Identity.ID
		edited := false
		var photos []TaskPhoto
		if u.Photos != nil {
			var err error
			if photos, err = mergePhotos(t.Photos, *u.Photos, now); err != nil {
				return err
			}
		}
		if u.Sessions != nil {
			sessions := normalizeSessions(*u.Sessions)
			if !sameSessions(sessions, t.Sessions) {
				edited = true
			}
			t.Sessions = sessions
		}
		if u.Photos != nil {
			if !samePhotos(photos, t.Photos) {
				edited = true
			}
			t.Photos = photos
		}
		if u.Remarks != nil && *u.Remarks != t.Remarks {
			edited = true
			t.Remarks = *u.Remarks
		}

		old := t.Status
		if old == TaskPending && target == TaskInProgress {
			t.Activity.StartedBy, t.Activity.StartedAt = uid, now
		}
		if target == TaskCompleted && old != TaskCompleted {
			t.Activity.CompletedBy, t.Activity.CompletedAt = uid, now
		}
		t.Status = target
		t.Activity.LastSavedBy, t.Activity.LastSavedAt = uid, now
		if edited {
			t.Activity.LastEditedBy, t.Activity.LastEditedAt = uid, now
		}

		updates := append(taskStatusUpdate(t, old), e.recompute(j, now)...)
		out.record(jobUpdatedEvent(j, updates, &actor.Identity, now))
		logrus.WithFields(logrus.Fields{"jobId": j.ID, "taskId": t.ID, "actor": uid, "status": t.Status}).Debug("task saved")
		return nil
	})
}

// CancelTask checks, in order: job stage, task existence, completed, already cancelled.
func (e *Engine) CancelTask(jobId, taskId types.ID, reason string, actor *session.Session) (*Job, error) {
	return e.mutate(jobId, func(j *Job, out *outcome) error {
		if err := requireParticipant(j, actor); err != nil {
			return err
		}
		if j.Status.ManagerControlled() {
			return bizerror.Reason(bizerror.ErrForbidden, "cannot cancel after submission")
		}
		idx := j.taskIndex(taskId)
		if idx < 0 {
			return bizerror.Reason(bizerror.ErrNotFound, "task not found")
		}
		t := &j.Tasks[idx]
		switch t.Status {
		case TaskCompleted:
			return bizerror.Reason(bizerror.ErrForbidden, "completed tasks cannot be cancelled")
		case TaskCancelled:
			return bizerror.Reason(bizerror.ErrAlreadyCancelled, "task is already cancelled")
		case TaskPending, TaskInProgress:
		default:
			return invalidTransition(fmt.Sprintf("task in status %s cannot be cancelled", t.Status))
		}

		reason = strings.TrimSpace(reason)
		if reason == "" {
			reason = DefaultCancelReason
		}
		now := e.now()
		old := t.Status
		t.Status = TaskCancelled
		t.Activity.CancelledBy, t.Activity.CancelledAt = actor.Identity.ID, now
		t.Activity.CancelReason = reason

		updates := append(taskStatusUpdate(t, old), e.recompute(j, now)...)
		out.notify(taskCancelledNotifications(j, t, actor.Identity.ID, actor.Identity.Name, now)...)
		out.record(jobUpdatedEvent(j, updates, &actor.Identity, now))
		logrus.WithFields(logrus.Fields{"jobId": j.ID, "taskId": t.ID, "actor": actor.Identity.ID}).Info("task cancelled")
		return nil
	})
}

// recompute applies the derived status and stamps first-time start/completion.
func (e *Engine) recompute(j *Job, now types.Timestamp) []event.UpdatedProperty {
	old := j.Status
	derived := DeriveJobStatus(j.Tasks, old)
	if derived == old {
		return nil
	}
	j.Status = derived
	switch derived {
	case JobInProgress:
		if j.StartTime.Time().IsZero() {
			j.StartTime = now
		}
	case JobCompleted:
		if j.CompleteTime.Time().IsZero() {
			j.CompleteTime = now
		}
	case JobCreated, JobSubmitted, JobApproved, JobRejected:
	default:
	}
	return statusUpdate(old, derived)
}

// normalizeSessions assigns missing ids and keeps isActive in line with the end time.
func normalizeSessions(in []WorkSession) []WorkSession {
	out := make([]WorkSession, len(in))
	for i, s := range in {
		if s.ID == 0 {
			s.ID = common.NextId(idWorker)
		}
		s.IsActive = s.EndTime == ""
		out[i] = s
	}
	return out
}

// mergePhotos assigns ids and timestamps to new photos. A photo already on the task
// keeps everything but its description.
func mergePhotos(stored, in []TaskPhoto, now types.Timestamp) ([]TaskPhoto, error) {
	captured := make(map[types.ID]TaskPhoto, len(stored))
	for _, p := range stored {
		captured[p.ID] = p
	}
	out := make([]TaskPhoto, len(in))
	for i, p := range in {
		if old, found := captured[p.ID]; found && p.ID != 0 {
			if p.URI != old.URI || p.Category != old.Category || p.FileSize != old.FileSize ||
				(!p.Timestamp.Time().IsZero() && !p.Timestamp.Time().Equal(old.Timestamp.Time())) {
				return nil, bizerror.Reason(bizerror.ErrForbidden,
					fmt.Sprintf("photo %s can only change its description", p.ID))
			}
			old.Description = p.Description
			out[i] = old
			continue
		}
		if p.ID == 0 {
			p.ID = common.NextId(idWorker)
		}
		if p.Timestamp.Time().IsZero() {
			p.Timestamp = now
		}
		out[i] = p
	}
	return out, nil
}

func sameSessions(a, b []WorkSession) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// samePhotos compares instants, not locations, so a JSON round trip is not an edit.
func samePhotos(a, b []TaskPhoto) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || x.URI != y.URI || x.Category != y.Category || x.Description != y.Description ||
			x.FileSize != y.FileSize || !x.Timestamp.Time().Equal(y.Timestamp.Time()) {
			return false
		}
	}
	return true
}
