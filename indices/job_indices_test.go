package indices_test

import (
	"context"
	"errors"
	"fieldjobs/client/es"
	"fieldjobs/domain/job"
	"fieldjobs/event"
	"fieldjobs/indices"
	"testing"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func TestIndexHandler(t *testing.T) {
	RegisterTestingT(t)

	demoJob := &job.Job{ID: 100, Title: "Replace pump", SiteLocation: "Plant 3", Status: job.JobInProgress, CreatorID: 1,
		AssignedTechs: []types.ID{10, 11},
		Tasks:         []job.Task{{ID: 1, Description: "drain tank"}, {ID: 2, Description: "skip", Status: job.TaskCancelled}}}
	load := func(id types.ID) (*job.Job, error) {
		if id == demoJob.ID {
			return demoJob, nil
		}
		return nil, errors.New("not found")
	}

	t.Run("should index the committed job", func(t *testing.T) {
		var indexed []interface{}
		es.IndexFunc = func(ctx context.Context, index string, id types.ID, doc interface{}) error {
			Expect(index).To(Equal(indices.JobIndexName))
			Expect(id).To(Equal(demoJob.ID))
			indexed = append(indexed, doc)
			return nil
		}

		r := indices.IndexHandler(load)(&event.EventRecord{Event: event.Event{SourceType: event.SourceTypeJob, SourceId: 100,
			EventCategory: event.EventCategoryPropertyUpdated}})
		Expect(*r).To(Equal(event.EventHandleResult{Success: true, HandlerIdentifier: indices.IndexHandlerName}))
		Expect(indexed).To(HaveLen(1))
		doc := indexed[0].(indices.JobDocument)
		Expect(doc.Participants).To(Equal([]types.ID{1, 10, 11}))
		Expect(doc.Tasks).To(Equal([]string{"drain tank"}))
		Expect(doc.Archived).To(BeFalse())
	})

	t.Run("should drop deleted jobs from the index", func(t *testing.T) {
		var deleted types.ID
		es.DeleteDocumentByIdFunc = func(ctx context.Context, index string, id types.ID) error {
			deleted = id
			return nil
		}
		r := indices.IndexHandler(load)(&event.EventRecord{Event: event.Event{SourceType: event.SourceTypeJob, SourceId: 333,
			EventCategory: event.EventCategoryDeleted}})
		Expect(r.Success).To(BeTrue())
		Expect(deleted).To(Equal(types.ID(333)))
	})

	t.Run("should report failures", func(t *testing.T) {
		r := indices.IndexHandler(load)(&event.EventRecord{Event: event.Event{SourceType: event.SourceTypeJob, SourceId: 404,
			EventCategory: event.EventCategoryCreated}})
		Expect(r.Success).To(BeFalse())
		Expect(r.Message).To(Equal("index job 404: not found"))
	})

	t.Run("should ignore other sources", func(t *testing.T) {
		Expect(indices.IndexHandler(load)(&event.EventRecord{Event: event.Event{SourceType: "USER"}})).To(BeNil())
	})
}
