package indices

import (
	"context"
	"fieldjobs/client/es"
	"fieldjobs/domain/job"
	"fieldjobs/event"
	"fmt"

	"github.com/fundwit/go-commons/types"
	"github.com/sirupsen/logrus"
)

const IndexHandlerName = "jobIndexer"

var (
	JobIndexName = "jobs"

	IndexJobFunc = IndexJob
)

type JobDocument struct {
	ID           types.ID      `json:"id"`
	Title        string        `json:"title"`
	SiteLocation string        `json:"siteLocation"`
	Description  string        `json:"description"`
	Status       job.JobStatus `json:"status"`
	CreatorID    types.ID      `json:"creatorId"`
	// creator and assigned technicians
	Participants []types.ID      `json:"participants"`
	Tasks        []string        `json:"tasks"`
	CreateTime   types.Timestamp `json:"createTime"`
	Archived     bool            `json:"archived"`
}

// JobLoader finds active and archived jobs.
type JobLoader func(jobId types.ID) (*job.Job, error)

func NewJobDocument(j *job.Job) JobDocument {
	doc := JobDocument{
		ID:           j.ID,
		Title:        j.Title,
		SiteLocation: j.SiteLocation,
		Description:  j.Description,
		Status:       j.Status,
		CreatorID:    j.CreatorID,
		Participants: append([]types.ID{j.CreatorID}, j.AssignedTechs...),
		Tasks:        []string{},
		CreateTime:   j.CreateTime,
		Archived:     j.Status == job.JobApproved,
	}
	for _, t := range job.ActiveTasks(j.Tasks) {
		doc.Tasks = append(doc.Tasks, t.Description)
	}
	return doc
}

func IndexJob(ctx context.Context, j *job.Job) error {
	doc := NewJobDocument(j)
	if err := es.IndexFunc(ctx, JobIndexName, doc.ID, doc); err != nil {
		logrus.Warnf("index job %d: %v", doc.ID, err)
		return err
	}
	logrus.Debugf("index job %d successfully", doc.ID)
	return nil
}

// IndexHandler keeps the job index in line with committed mutations.
func IndexHandler(load JobLoader) event.EventHandler {
	return func(e *event.EventRecord) *event.EventHandleResult {
		if e.SourceType != event.SourceTypeJob {
			return nil
		}
		ctx := context.Background()

		var err error
		switch e.EventCategory {
		case event.EventCategoryDeleted:
			err = es.DeleteDocumentByIdFunc(ctx, JobIndexName, e.SourceId)
		default:
			var j *job.Job
			if j, err = load(e.SourceId); err == nil {
				err = IndexJobFunc(ctx, j)
			}
		}
		if err != nil {
			return &event.EventHandleResult{Message: fmt.Sprintf("index job %d: %v", e.SourceId, err), HandlerIdentifier: IndexHandlerName}
		}
		return &event.EventHandleResult{Success: true, HandlerIdentifier: IndexHandlerName}
	}
}
