package job

import (
	"fieldjobs/event"
	"fieldjobs/session"

	"github.com/fundwit/go-commons/types"
)

func jobCreatedEvent(j *Job, identity *session.Identity, now types.Timestamp) *event.EventRecord {
	return event.NewEventRecord(event.SourceTypeJob, j.ID, j.Title, event.EventCategoryCreated, nil, identity, now)
}

func jobDeletedEvent(j *Job, identity *session.Identity, now types.Timestamp) *event.EventRecord {
	return event.NewEventRecord(event.SourceTypeJob, j.ID, j.Title, event.EventCategoryDeleted, nil, identity, now)
}

func jobArchivedEvent(j *Job, identity *session.Identity, now types.Timestamp) *event.EventRecord {
	return event.NewEventRecord(event.SourceTypeJob, j.ID, j.Title, event.EventCategoryArchived, nil, identity, now)
}

// jobUpdatedEvent returns nil when nothing changed.
func jobUpdatedEvent(j *Job, updates []event.UpdatedProperty, identity *session.Identity, now types.Timestamp) *event.EventRecord {
	if len(updates) == 0 {
		return nil
	}
	return event.NewEventRecord(event.SourceTypeJob, j.ID, j.Title, event.EventCategoryPropertyUpdated, updates, identity, now)
}

func statusUpdate(old, new JobStatus) []event.UpdatedProperty {
	if old == new {
		return nil
	}
	return []event.UpdatedProperty{{PropertyName: "status", OldValue: string(old), NewValue: string(new)}}
}

func taskStatusUpdate(t *Task, old TaskStatus) []event.UpdatedProperty {
	if old == t.Status {
		return nil
	}
	return []event.UpdatedProperty{{PropertyName: "task." + t.ID.String() + ".status", OldValue: string(old), NewValue: string(t.Status)}}
}
