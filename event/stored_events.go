package event

import (
	"context"
	"fieldjobs/persistence"
	"fmt"

	"github.com/jinzhu/gorm"
)

const PersistHandlerName = "eventPersister"

var (
	EventPersistCreateFunc = eventPersistCreate
)

func eventPersistCreate(record *EventRecord, db *gorm.DB) error {
	return db.Create(record).Error
}

// PersistHandler keeps every lifecycle event in the events table, cancelled jobs included.
func PersistHandler(ds *persistence.DataSourceManager) EventHandler {
	return func(e *EventRecord) *EventHandleResult {
		var db *gorm.DB
		if ds != nil {
			db = ds.GormDB(context.Background())
		}
		if err := EventPersistCreateFunc(e, db); err != nil {
			return &EventHandleResult{Message: fmt.Sprintf("persist event %d: %v", e.ID, err), HandlerIdentifier: PersistHandlerName}
		}
		return &EventHandleResult{Success: true, HandlerIdentifier: PersistHandlerName}
	}
}
