package notification_test

import (
	"context"
	"fieldjobs/notification"
	"fieldjobs/testinfra"
	"testing"
	"time"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func TestGormSink(t *testing.T) {
	RegisterTestingT(t)
	testinfra.SkipWithoutMysql(t)

	t.Run("should persist notifications", func(t *testing.T) {
		testDatabase := testinfra.StartMysqlTestDatabase("fieldjobs")
		defer testinfra.StopMysqlTestDatabase(testDatabase)

		sink := &notification.GormSink{DS: testDatabase.DS}
		Expect(sink.Migrate()).To(BeNil())

		n := notification.Notification{ID: 1, UserID: 10, Title: "Job approved", Message: "ok",
			Type: notification.TypeJobApproved, JobID: 3, Timestamp: types.TimestampOfDate(2021, 1, 1, 12, 0, 0, 0, time.Local)}
		Expect(sink.Enqueue(n)).To(BeNil())

		var records []notification.Notification
		Expect(testDatabase.DS.GormDB(context.Background()).Find(&records).Error).To(BeNil())
		Expect(records).To(Equal([]notification.Notification{n}))
	})
}
