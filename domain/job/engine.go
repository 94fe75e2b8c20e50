package job

import (
	"fieldjobs/common"
	"fieldjobs/event"
	"fieldjobs/notification"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

var idWorker = common.NewIdWorker()

// AssigneeValidator checks the technicians a job is assigned to.
type AssigneeValidator func(techs []types.ID) error

// Engine owns the job collection. Mutations on one job are serialized; every mutation
// commits with a single store write, then hands its notifications to the sink in order.
type Engine struct {
	store     Store
	sink      notification.Sink
	bus       *event.Bus
	now       func() types.Timestamp
	assignees AssigneeValidator
	locks     *jobLocks
}

type Option func(*Engine)

// WithEventBus registers the handlers invoked after each committed mutation.
func WithEventBus(bus *event.Bus) Option {
	return func(e *Engine) { e.bus = bus }
}

func WithClock(now func() types.Timestamp) Option {
	return func(e *Engine) { e.now = now }
}

func WithAssigneeValidator(v AssigneeValidator) Option {
	return func(e *Engine) { e.assignees = v }
}

func NewEngine(store Store, sink notification.Sink, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		sink:  sink,
		now:   types.CurrentTimestamp,
		locks: newJobLocks(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type commitKind int

const (
	commitSave commitKind = iota
	commitArchive
	commitDelete
)

// outcome collects what a command produced while working on its private copy of the job.
type outcome struct {
	commit        commitKind
	notifications []notification.Notification
	events        []*event.EventRecord
}

func (o *outcome) notify(n ...notification.Notification) {
	o.notifications = append(o.notifications, n...)
}

func (o *outcome) record(records ...*event.EventRecord) {
	for _, r := range records {
		if r != nil {
			o.events = append(o.events, r)
		}
	}
}

// mutate runs fn against a copy of the job under the job lock. Nothing is written when fn fails.
func (e *Engine) mutate(jobId types.ID, fn func(j *Job, out *outcome) error) (*Job, error) {
	unlock := e.locks.lock(jobId)
	j, out, err := e.apply(jobId, fn)
	unlock()
	if err != nil {
		return nil, err
	}

	for _, r := range out.events {
		e.bus.InvokeHandlers(r)
	}
	return j, nil
}

func (e *Engine) apply(jobId types.ID, fn func(j *Job, out *outcome) error) (*Job, *outcome, error) {
	j, err := e.store.Get(jobId)
	if err != nil {
		return nil, nil, err
	}
	out := &outcome{}
	if err := fn(j, out); err != nil {
		return nil, nil, err
	}

	switch out.commit {
	case commitSave:
		err = e.store.Save(j)
	case commitArchive:
		err = e.store.Archive(j)
	case commitDelete:
		err = e.store.Delete(j.ID)
	default:
		logrus.Panicf("unknown commit kind %d", out.commit)
	}
	if err != nil {
		return nil, nil, err
	}

	e.dispatch(out.notifications)
	return j.Clone(), out, nil
}

// dispatch hands notifications to the sink in emission order. The mutation is already
// committed, so a failing sink is logged and not reported to the caller.
func (e *Engine) dispatch(notifications []notification.Notification) {
	if e.sink == nil {
		return
	}
	for _, n := range notifications {
		if err := e.sink.Enqueue(n); err != nil {
			logrus.WithFields(logrus.Fields{"notification": n.ID, "type": n.Type, "jobId": n.JobID, "userId": n.UserID}).
				Warnf("enqueue notification failed: %v", err)
		}
	}
}

// GetJob looks the job up in the active collection, then in the history.
func (e *Engine) GetJob(jobId types.ID) (*Job, error) {
	j, err := e.store.Get(jobId)
	if err == nil {
		return j, nil
	}
	for _, h := range e.store.History() {
		if h.ID == jobId {
			return h.Clone(), nil
		}
	}
	return nil, err
}

// GetJobsForUser lists active jobs the user created or is assigned to.
func (e *Engine) GetJobsForUser(userId types.ID) []Job {
	jobs := []Job{}
	for _, j := range e.store.List() {
		if j.IsParticipant(userId) {
			jobs = append(jobs, j)
		}
	}
	return jobs
}

func (e *Engine) GetAllJobs() []Job {
	return e.store.List()
}

func (e *Engine) GetJobHistory() []Job {
	return e.store.History()
}

func (e *Engine) ValidateJobCompletion(jobId types.ID) (*CompletionValidation, error) {
	j, err := e.store.Get(jobId)
	if err != nil {
		return nil, err
	}
	v := ValidateCompletion(j.Tasks)
	return &v, nil
}
