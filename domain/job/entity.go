package job

import (
	"github.com/fundwit/go-commons/types"
)

type JobStatus string

const (
	JobCreated    = JobStatus("Created")
	JobInProgress = JobStatus("In Progress")
	JobCompleted  = JobStatus("Completed")
	JobSubmitted  = JobStatus("Submitted")
	JobApproved   = JobStatus("Approved")
	JobRejected   = JobStatus("Rejected")
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobCreated, JobInProgress, JobCompleted, JobSubmitted, JobApproved, JobRejected:
		return true
	default:
		return false
	}
}

// ManagerControlled statuses are never recomputed from tasks.
func (s JobStatus) ManagerControlled() bool {
	switch s {
	case JobSubmitted, JobApproved, JobRejected:
		return true
	case JobCreated, JobInProgress, JobCompleted:
		return false
	default:
		return false
	}
}

type TaskStatus string

const (
	TaskPending    = TaskStatus("pending")
	TaskInProgress = TaskStatus("in_progress")
	TaskCompleted  = TaskStatus("completed")
	TaskCancelled  = TaskStatus("cancelled")
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	default:
		return false
	}
}

type PhotoCategory string

const (
	PhotoBefore = PhotoCategory("before")
	PhotoDuring = PhotoCategory("during")
	PhotoAfter  = PhotoCategory("after")
)

func (c PhotoCategory) Valid() bool {
	switch c {
	case PhotoBefore, PhotoDuring, PhotoAfter:
		return true
	default:
		return false
	}
}

type Job struct {
	ID            types.ID   `json:"id"`
	Title         string     `json:"title"`
	SiteLocation  string     `json:"siteLocation"`
	Description   string     `json:"description"`
	Status        JobStatus  `json:"status"`
	CreatorID     types.ID   `json:"creatorId"`
	AssignedTechs []types.ID `json:"assignedTechs"`

	CreateTime   types.Timestamp `json:"createTime"`
	StartTime    types.Timestamp `json:"startTime"`
	CompleteTime types.Timestamp `json:"completeTime"`
	SubmitTime   types.Timestamp `json:"submitTime"`
	ApproveTime  types.Timestamp `json:"approveTime"`

	RejectionReason string `json:"rejectionReason,omitempty"`

	Tasks []Task `json:"tasks"`
}

type Task struct {
	ID          types.ID      `json:"id"`
	Description string        `json:"description"`
	Status      TaskStatus    `json:"status"`
	Sessions    []WorkSession `json:"sessions"`
	Photos      []TaskPhoto   `json:"photos"`
	Remarks     string        `json:"remarks"`
	Activity    Activity      `json:"activity"`
}

// WorkSession is open while EndTime is empty.
type WorkSession struct {
	ID        types.ID `json:"id"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	IsActive  bool     `json:"isActive"`
}

type TaskPhoto struct {
	ID          types.ID        `json:"id"`
	URI         string          `json:"uri"`
	Category    PhotoCategory   `json:"category"`
	Description string          `json:"description"`
	Timestamp   types.Timestamp `json:"timestamp"`
	FileSize    int64           `json:"fileSize"`
}

type Activity struct {
	StartedBy    types.ID        `json:"startedBy"`
	StartedAt    types.Timestamp `json:"startedAt"`
	LastEditedBy types.ID        `json:"lastEditedBy"`
	LastEditedAt types.Timestamp `json:"lastEditedAt"`
	LastSavedBy  types.ID        `json:"lastSavedBy"`
	LastSavedAt  types.Timestamp `json:"lastSavedAt"`
	CompletedBy  types.ID        `json:"completedBy"`
	CompletedAt  types.Timestamp `json:"completedAt"`
	CancelledBy  types.ID        `json:"cancelledBy"`
	CancelledAt  types.Timestamp `json:"cancelledAt"`
	CancelReason string          `json:"cancelReason,omitempty"`
}

type JobCreation struct {
	Title         string     `json:"title" binding:"required"`
	SiteLocation  string     `json:"siteLocation" binding:"required"`
	Description   string     `json:"description"`
	AssignedTechs []types.ID `json:"assignedTechs" binding:"required"`
}

type TaskCreation struct {
	Description string `json:"description" binding:"required"`
}

// TaskUpdating leaves a field untouched when it is nil (or empty for Status).
type TaskUpdating struct {
	Status   TaskStatus     `json:"status"`
	Sessions *[]WorkSession `json:"sessions"`
	Photos   *[]TaskPhoto   `json:"photos"`
	Remarks  *string        `json:"remarks"`
}

type TaskCancellation struct {
	Reason string `json:"reason"`
}

type JobRejection struct {
	Reason string `json:"reason" binding:"required"`
}

type CompletionValidation struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message"`
}

func (j *Job) IsParticipant(userId types.ID) bool {
	if j.CreatorID == userId {
		return true
	}
	for _, id := range j.AssignedTechs {
		if id == userId {
			return true
		}
	}
	return false
}

func (j *Job) taskIndex(taskId types.ID) int {
	for i := range j.Tasks {
		if j.Tasks[i].ID == taskId {
			return i
		}
	}
	return -1
}

// Clone copies the job deeply, snapshots never share slices with the store.
func (j *Job) Clone() *Job {
	c := *j
	c.AssignedTechs = append([]types.ID(nil), j.AssignedTechs...)
	if j.Tasks != nil {
		c.Tasks = make([]Task, len(j.Tasks))
		for i := range j.Tasks {
			c.Tasks[i] = j.Tasks[i].clone()
		}
	}
	return &c
}

func (t Task) clone() Task {
	c := t
	if t.Sessions != nil {
		c.Sessions = append([]WorkSession{}, t.Sessions...)
	}
	if t.Photos != nil {
		c.Photos = append([]TaskPhoto{}, t.Photos...)
	}
	return c
}
