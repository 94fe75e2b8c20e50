package job

import (
	"errors"
	"fieldjobs/bizerror"
	"fieldjobs/common"
	"fieldjobs/event"
	"fieldjobs/session"
	"strings"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

const DefaultCancelReason = "No reason provided"

func requireBoss(actor *session.Session) error {
	if actor == nil {
		return bizerror.ErrUnauthenticated
	}
	if !actor.IsBoss() {
		return bizerror.Reason(bizerror.ErrForbidden, "only managers can do this")
	}
	return nil
}

func requireParticipant(j *Job, actor *session.Session) error {
	if actor == nil {
		return bizerror.ErrUnauthenticated
	}
	if actor.IsBoss() || j.IsParticipant(actor.Identity.ID) {
		return nil
	}
	return bizerror.Reason(bizerror.ErrForbidden, "you are not assigned to this job")
}

func invalidTransition(message string) error {
	return bizerror.Reason(bizerror.ErrInvalidTransition, message)
}

func (e *Engine) CreateJob(c *JobCreation, actor *session.Session) (*Job, error) {
	if err := requireBoss(actor); err != nil {
		return nil, err
	}
	title, site := strings.TrimSpace(c.Title), strings.TrimSpace(c.SiteLocation)
	if title == "" || site == "" {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("title and site location are required")}
	}
	techs := uniqueIDs(c.AssignedTechs)
	if len(techs) == 0 {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("at least one technician must be assigned")}
	}
	if e.assignees != nil {
		if err := e.assignees(techs); err != nil {
			return nil, err
		}
	}

	now := e.now()
	j := &Job{
		ID:            common.NextId(idWorker),
		Title:         title,
		SiteLocation:  site,
		Description:   c.Description,
		Status:        JobCreated,
		CreatorID:     actor.Identity.ID,
		AssignedTechs: techs,
		CreateTime:    now,
		Tasks:         []Task{},
	}

	unlock := e.locks.lock(j.ID)
	if err := e.store.Save(j); err != nil {
		unlock()
		return nil, err
	}
	e.dispatch(jobAssignedNotifications(j, now))
	unlock()

	logrus.WithFields(logrus.Fields{"jobId": j.ID, "actor": actor.Identity.ID}).Info("job created")
	e.bus.InvokeHandlers(jobCreatedEvent(j, &actor.Identity, now))
	return j.Clone(), nil
}

func (e *Engine) StartJob(jobId types.ID, actor *session.Session) (*Job, error) {
	return e.mutate(jobId, func(j *Job, out *outcome) error {
		if err := requireParticipant(j, actor); err != nil {
			return err
		}
		if j.Status != JobCreated {
			return invalidTransition("only a created job can be started")
		}
		if !hasPendingTask(j.Tasks) {
			return invalidTransition("must add a task before starting")
		}
		if !canTransitJob(j.Status, JobInProgress) {
			return invalidTransition("job cannot be started")
		}

		now := e.now()
		old := j.Status
		j.Status = JobInProgress
		if j.StartTime.Time().IsZero() {
			j.StartTime = now
		}

		out.notify(jobStartedNotifications(j, actor.Identity.Name, now)...)
		out.record(jobUpdatedEvent(j, statusUpdate(old, j.Status), &actor.Identity, now))
		logrus.WithFields(logrus.Fields{"jobId": j.ID, "actor": actor.Identity.ID}).Info("job started")
		return nil
	})
}

func (e *Engine) CompleteJob(jobId types.ID, actor *session.Session) (*Job, error) {
	return e.mutate(jobId, func(j *Job, out *outcome) error {
		if err := requireParticipant(j, actor); err != nil {
			return err
		}
		if !canTransitJob(j.Status, JobCompleted) {
			return invalidTransition("only a job in progress can be completed")
		}
		if v := ValidateCompletion(j.Tasks); !v.IsValid {
			return &bizerror.ErrValidationFailed{Message: v.Message}
		}

		now := e.now()
		old := j.Status
		j.Status = JobCompleted
		if j.CompleteTime.Time().IsZero() {
			j.CompleteTime = now
		}

		out.record(jobUpdatedEvent(j, statusUpdate(old, j.Status), &actor.Identity, now))
		logrus.WithFields(logrus.Fields{"jobId": j.ID, "actor": actor.Identity.ID}).Info("job completed")
		return nil
	})
}

// SubmitJob re-checks completion, tasks may have been added after completion.
func (e *Engine) SubmitJob(jobId types.ID, actor *session.Session) (*Job, error) {
	return e.mutate(jobId, func(j *Job, out *outcome) error {
		if err := requireParticipant(j, actor); err != nil {
			return err
		}
		if !canTransitJob(j.Status, JobSubmitted) {
			return invalidTransition("only a completed job can be submitted")
		}
		if v := ValidateCompletion(j.Tasks); !v.IsValid {
			return &bizerror.ErrValidationFailed{Message: v.Message}
		}

		now := e.now()
		old := j.Status
		j.Status = JobSubmitted
		j.SubmitTime = now

		out.notify(jobSubmittedNotifications(j, actor.Identity.Name, now)...)
		out.record(jobUpdatedEvent(j, statusUpdate(old, j.Status), &actor.Identity, now))
		logrus.WithFields(logrus.Fields{"jobId": j.ID, "actor": actor.Identity.ID}).Info("job submitted")
		return nil
	})
}

// ApproveJob moves the job into the history.
func (e *Engine) ApproveJob(jobId types.ID, actor *session.Session) (*Job, error) {
	if err := requireBoss(actor); err != nil {
		return nil, err
	}
	return e.mutate(jobId, func(j *Job, out *outcome) error {
		if !canTransitJob(j.Status, JobApproved) {
			return invalidTransition("only a submitted job can be approved")
		}

		now := e.now()
		old := j.Status
		j.Status = JobApproved
		j.ApproveTime = now
		out.commit = commitArchive

		out.notify(jobApprovedNotifications(j, now)...)
		out.record(jobUpdatedEvent(j, statusUpdate(old, j.Status), &actor.Identity, now), jobArchivedEvent(j, &actor.Identity, now))
		logrus.WithFields(logrus.Fields{"jobId": j.ID, "actor": actor.Identity.ID}).Info("job approved")
		return nil
	})
}

// RejectJob reopens the job for rework: the status goes back to In Progress, not Rejected.
func (e *Engine) RejectJob(jobId types.ID, reason string, actor *session.Session) (*Job, error) {
	if err := requireBoss(actor); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("rejection reason is required")}
	}
	return e.mutate(jobId, func(j *Job, out *outcome) error {
		if j.Status != JobSubmitted {
			return invalidTransition("only a submitted job can be rejected")
		}

		now := e.now()
		old := j.Status
		j.Status = JobInProgress
		j.RejectionReason = reason

		out.notify(jobRejectedNotifications(j, now)...)
		updates := append(statusUpdate(old, j.Status), event.UpdatedProperty{PropertyName: "rejectionReason", NewValue: reason})
		out.record(jobUpdatedEvent(j, updates, &actor.Identity, now))
		logrus.WithFields(logrus.Fields{"jobId": j.ID, "actor": actor.Identity.ID}).Info("job rejected")
		return nil
	})
}

// CancelJob deletes the job, only its deleted event remains.
func (e *Engine) CancelJob(jobId types.ID, actor *session.Session) error {
	if err := requireBoss(actor); err != nil {
		return err
	}
	_, err := e.mutate(jobId, func(j *Job, out *outcome) error {
		now := e.now()
		out.commit = commitDelete
		out.notify(jobCancelledNotifications(j, now)...)
		out.record(jobDeletedEvent(j, &actor.Identity, now))
		logrus.WithFields(logrus.Fields{"jobId": j.ID, "actor": actor.Identity.ID}).Info("job cancelled")
		return nil
	})
	return err
}

func hasPendingTask(tasks []Task) bool {
	for _, t := range tasks {
		if t.Status == TaskPending {
			return true
		}
	}
	return false
}

func uniqueIDs(ids []types.ID) []types.ID {
	seen := map[types.ID]bool{}
	r := []types.ID{}
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		r = append(r, id)
	}
	return r
}
