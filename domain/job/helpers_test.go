package job_test

import (
	"fieldjobs/authority"
	"fieldjobs/domain/job"
	"fieldjobs/notification"
	"fieldjobs/testinfra"
	"sync"
	"testing"
	"time"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

var (
	boss     = testinfra.BuildSession(1, authority.RoleBoss)
	tech1    = testinfra.BuildSession(10, authority.RoleTech)
	tech2    = testinfra.BuildSession(11, authority.RoleTech)
	outsider = testinfra.BuildSession(99, authority.RoleTech)

	demoTime = types.TimestampOfDate(2021, 1, 1, 12, 12, 12, 0, time.Local)
)

func taskID(i int) types.ID {
	return types.ID(i)
}

type recordingSink struct {
	mu    sync.Mutex
	items []notification.Notification
}

func (s *recordingSink) Enqueue(n notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, n)
	return nil
}

func (s *recordingSink) all() []notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notification.Notification{}, s.items...)
}

func (s *recordingSink) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

type delivery struct {
	Type   notification.Type
	UserID types.ID
}

func (s *recordingSink) deliveries() []delivery {
	var r []delivery
	for _, n := range s.all() {
		r = append(r, delivery{Type: n.Type, UserID: n.UserID})
	}
	return r
}

func newEngine(opts ...job.Option) (*job.Engine, *recordingSink) {
	sink := &recordingSink{}
	opts = append([]job.Option{job.WithClock(func() types.Timestamp { return demoTime })}, opts...)
	return job.NewEngine(job.NewMemoryStore(), sink, opts...), sink
}

func createJob(t *testing.T, e *job.Engine) *job.Job {
	j, err := e.CreateJob(&job.JobCreation{Title: "Replace pump", SiteLocation: "Plant 3",
		Description: "north wing", AssignedTechs: []types.ID{tech1.Identity.ID, tech2.Identity.ID}}, boss)
	Expect(err).To(BeNil())
	return j
}

func addTask(t *testing.T, e *job.Engine, jobId types.ID, description string) *job.Task {
	task, err := e.AddPendingTask(jobId, description, tech1)
	Expect(err).To(BeNil())
	return task
}

func evidence() *job.TaskUpdating {
	sessions := []job.WorkSession{{StartDate: "2021-01-01", EndDate: "2021-01-01", StartTime: "08:00", EndTime: "10:00"}}
	photos := []job.TaskPhoto{
		{URI: "oss://photos/before.jpg", Category: job.PhotoBefore, FileSize: 1024},
		{URI: "oss://photos/after.jpg", Category: job.PhotoAfter, FileSize: 2048},
	}
	return &job.TaskUpdating{Sessions: &sessions, Photos: &photos}
}

// finishTask drives the task pending -> in_progress -> completed with photos and a closed session.
func finishTask(t *testing.T, e *job.Engine, jobId, taskId types.ID) *job.Job {
	_, err := e.UpdateTaskStatus(jobId, taskId, &job.TaskUpdating{Status: job.TaskInProgress}, tech1)
	Expect(err).To(BeNil())
	u := evidence()
	u.Status = job.TaskCompleted
	j, err := e.UpdateTaskStatus(jobId, taskId, u, tech1)
	Expect(err).To(BeNil())
	return j
}

func findTask(j *job.Job, taskId types.ID) *job.Task {
	for i := range j.Tasks {
		if j.Tasks[i].ID == taskId {
			return &j.Tasks[i]
		}
	}
	return nil
}

// consistent holds for every job outside the manager controlled statuses.
func consistent(j *job.Job) bool {
	if j.Status.ManagerControlled() {
		return true
	}
	return j.Status == job.DeriveJobStatus(j.Tasks, j.Status)
}
