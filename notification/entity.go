package notification

import (
	"github.com/fundwit/go-commons/types"
)

type Type string

const (
	TypeJobAssigned   = Type("job_assigned")
	TypeJobStarted    = Type("job_started")
	TypeTaskAdded     = Type("task_added")
	TypeTaskCancelled = Type("task_cancelled")
	TypeJobSubmitted  = Type("job_submitted")
	TypeJobApproved   = Type("job_approved")
	TypeJobRejected   = Type("job_rejected")
	TypeJobCancelled  = Type("job_cancelled")
)

type Notification struct {
	ID      types.ID `json:"id" gorm:"primary_key"`
	UserID  types.ID `json:"userId" gorm:"index"`
	Title   string   `json:"title"`
	Message string   `json:"message" sql:"type:TEXT"`
	Type    Type     `json:"type"`
	// zero when the notification is not about a job
	JobID types.ID `json:"jobId"`

	Timestamp types.Timestamp `json:"timestamp" sql:"type:DATETIME(6)"`
	Read      bool            `json:"read"`
}

func (n *Notification) TableName() string {
	return "notifications"
}

// Sink is the single operation the lifecycle engine needs from notification delivery.
type Sink interface {
	Enqueue(n Notification) error
}

type SinkFunc func(n Notification) error

func (f SinkFunc) Enqueue(n Notification) error {
	return f(n)
}
