package notification

import (
	"context"
	"fieldjobs/persistence"
)

// GormSink appends notifications to the notifications table.
type GormSink struct {
	DS *persistence.DataSourceManager
}

func (s *GormSink) Migrate() error {
	return s.DS.GormDB(context.Background()).AutoMigrate(&Notification{}).Error
}

func (s *GormSink) Enqueue(n Notification) error {
	return s.DS.GormDB(context.Background()).Create(&n).Error
}
