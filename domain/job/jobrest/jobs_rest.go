package jobrest

import (
	"errors"
	"fieldjobs/bizerror"
	"fieldjobs/domain/job"
	"fieldjobs/session"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathJobs       = "/v1/jobs"
	PathJobHistory = "/v1/job-history"
)

// Service is the part of job.Engine the REST surface drives.
type Service interface {
	CreateJob(c *job.JobCreation, actor *session.Session) (*job.Job, error)
	StartJob(jobId types.ID, actor *session.Session) (*job.Job, error)
	CompleteJob(jobId types.ID, actor *session.Session) (*job.Job, error)
	SubmitJob(jobId types.ID, actor *session.Session) (*job.Job, error)
	ApproveJob(jobId types.ID, actor *session.Session) (*job.Job, error)
	RejectJob(jobId types.ID, reason string, actor *session.Session) (*job.Job, error)
	CancelJob(jobId types.ID, actor *session.Session) error

	AddPendingTask(jobId types.ID, description string, actor *session.Session) (*job.Task, error)
	UpdateTaskStatus(jobId, taskId types.ID, u *job.TaskUpdating, actor *session.Session) (*job.Job, error)
	CancelTask(jobId, taskId types.ID, reason string, actor *session.Session) (*job.Job, error)

	GetJob(jobId types.ID) (*job.Job, error)
	GetJobsForUser(userId types.ID) []job.Job
	GetAllJobs() []job.Job
	GetJobHistory() []job.Job
	ValidateJobCompletion(jobId types.ID) (*job.CompletionValidation, error)
}

type JobsQuery struct {
	UserID types.ID `form:"userId"`
}

type handler struct {
	svc Service
}

func RegisterJobsRestAPI(r *gin.Engine, svc Service, middleWares ...gin.HandlerFunc) {
	h := &handler{svc: svc}

	g := r.Group(PathJobs, middleWares...)
	g.GET("", h.handleListJobs)
	g.POST("", h.handleCreateJob)
	g.GET(":id", h.handleDetailJob)
	g.DELETE(":id", h.handleCancelJob)

	g.POST(":id/start", h.handleTransition(svc.StartJob))
	g.POST(":id/complete", h.handleTransition(svc.CompleteJob))
	g.POST(":id/submit", h.handleTransition(svc.SubmitJob))
	g.POST(":id/approve", h.handleTransition(svc.ApproveJob))
	g.POST(":id/reject", h.handleRejectJob)
	g.GET(":id/completion", h.handleValidateCompletion)

	g.POST(":id/tasks", h.handleAddTask)
	g.PUT(":id/tasks/:taskId", h.handleUpdateTask)
	g.POST(":id/tasks/:taskId/cancel", h.handleCancelTask)

	r.Group(PathJobHistory, middleWares...).GET("", h.handleJobHistory)
}

func bindingPathID(c *gin.Context, name string) types.ID {
	id, err := types.ParseID(c.Param(name))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid " + name + " '" + c.Param(name) + "'")})
	}
	return id
}

func (h *handler) handleListJobs(c *gin.Context) {
	query := JobsQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	s := session.ExtractSessionFromGinContext(c)
	switch {
	case query.UserID != 0:
		if !s.IsBoss() && query.UserID != s.Identity.ID {
			panic(bizerror.ErrForbidden)
		}
		c.JSON(http.StatusOK, h.svc.GetJobsForUser(query.UserID))
	case s.IsBoss():
		c.JSON(http.StatusOK, h.svc.GetAllJobs())
	default:
		c.JSON(http.StatusOK, h.svc.GetJobsForUser(s.Identity.ID))
	}
}

func (h *handler) handleCreateJob(c *gin.Context) {
	creation := job.JobCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	j, err := h.svc.CreateJob(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, j)
}

func (h *handler) handleDetailJob(c *gin.Context) {
	j, err := h.svc.GetJob(bindingPathID(c, "id"))
	if err != nil {
		panic(err)
	}
	s := session.ExtractSessionFromGinContext(c)
	if !s.IsBoss() && !j.IsParticipant(s.Identity.ID) {
		panic(bizerror.ErrForbidden)
	}
	c.JSON(http.StatusOK, j)
}

func (h *handler) handleCancelJob(c *gin.Context) {
	if err := h.svc.CancelJob(bindingPathID(c, "id"), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) handleTransition(command func(types.ID, *session.Session) (*job.Job, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		j, err := command(bindingPathID(c, "id"), session.ExtractSessionFromGinContext(c))
		if err != nil {
			panic(err)
		}
		c.JSON(http.StatusOK, j)
	}
}

func (h *handler) handleRejectJob(c *gin.Context) {
	id := bindingPathID(c, "id")
	rejection := job.JobRejection{}
	if err := c.ShouldBindBodyWith(&rejection, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	j, err := h.svc.RejectJob(id, rejection.Reason, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, j)
}

func (h *handler) handleValidateCompletion(c *gin.Context) {
	v, err := h.svc.ValidateJobCompletion(bindingPathID(c, "id"))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, v)
}

func (h *handler) handleAddTask(c *gin.Context) {
	id := bindingPathID(c, "id")
	creation := job.TaskCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	t, err := h.svc.AddPendingTask(id, creation.Description, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, t)
}

func (h *handler) handleUpdateTask(c *gin.Context) {
	id, taskId := bindingPathID(c, "id"), bindingPathID(c, "taskId")
	updating := job.TaskUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	j, err := h.svc.UpdateTaskStatus(id, taskId, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, j)
}

// the body is optional, an empty reason falls back to the default one
func (h *handler) handleCancelTask(c *gin.Context) {
	id, taskId := bindingPathID(c, "id"), bindingPathID(c, "taskId")
	cancellation := job.TaskCancellation{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindBodyWith(&cancellation, binding.JSON); err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
	}
	j, err := h.svc.CancelTask(id, taskId, cancellation.Reason, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, j)
}

// handleJobHistory shows technicians only the archived jobs they took part in.
func (h *handler) handleJobHistory(c *gin.Context) {
	history := h.svc.GetJobHistory()
	s := session.ExtractSessionFromGinContext(c)
	if s.IsBoss() {
		c.JSON(http.StatusOK, history)
		return
	}
	visible := []job.Job{}
	for _, j := range history {
		if j.IsParticipant(s.Identity.ID) {
			visible = append(visible, j)
		}
	}
	c.JSON(http.StatusOK, visible)
}
