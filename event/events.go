package event

import (
	"fieldjobs/common"
	"fieldjobs/session"

	"github.com/fundwit/go-commons/types"
)

var eventIdWorker = common.NewIdWorker()

func NewEventRecord(sourceType string, sourceId types.ID, sourceDesc string, category EventCategory,
	updatedProperties []UpdatedProperty, identity *session.Identity, timestamp types.Timestamp) *EventRecord {

	return &EventRecord{
		ID: common.NextId(eventIdWorker),
		Event: Event{
			SourceType: sourceType,
			SourceId:   sourceId,
			SourceDesc: sourceDesc,

			EventCategory:     category,
			UpdatedProperties: updatedProperties,

			CreatorId:   identity.ID,
			CreatorName: identity.Name,
		},
		Timestamp: timestamp,
	}
}
