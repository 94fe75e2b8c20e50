package notification_test

import (
	"errors"
	"fieldjobs/bizerror"
	"fieldjobs/notification"
	"sync"
	"testing"

	. "github.com/onsi/gomega"
)

func TestStore(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should keep one inbox per user with newest first", func(t *testing.T) {
		s := notification.NewStore()
		Expect(s.Enqueue(notification.Notification{ID: 1, UserID: 10, Type: notification.TypeJobAssigned})).To(BeNil())
		Expect(s.Enqueue(notification.Notification{ID: 2, UserID: 20, Type: notification.TypeJobAssigned})).To(BeNil())
		Expect(s.Enqueue(notification.Notification{ID: 3, UserID: 10, Type: notification.TypeJobApproved})).To(BeNil())

		inbox := s.ListForUser(10)
		Expect(len(inbox)).To(Equal(2))
		Expect(inbox[0].ID).To(BeEquivalentTo(3))
		Expect(inbox[1].ID).To(BeEquivalentTo(1))
		Expect(s.UnreadCount(10)).To(Equal(2))
		Expect(s.ListForUser(30)).To(BeEmpty())
	})

	t.Run("should mark notifications as read", func(t *testing.T) {
		s := notification.NewStore()
		_ = s.Enqueue(notification.Notification{ID: 1, UserID: 10})
		_ = s.Enqueue(notification.Notification{ID: 2, UserID: 10})

		Expect(s.MarkRead(1, 10)).To(BeNil())
		Expect(s.UnreadCount(10)).To(Equal(1))

		err := s.MarkRead(1, 20)
		Expect(errors.Is(err, bizerror.ErrNotFound)).To(BeTrue())

		s.MarkAllRead(10)
		Expect(s.UnreadCount(10)).To(BeZero())
	})
}

func TestDispatcher(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should deliver in enqueue order", func(t *testing.T) {
		var mu sync.Mutex
		var delivered []uint64
		d := notification.NewDispatcher(notification.SinkFunc(func(n notification.Notification) error {
			mu.Lock()
			defer mu.Unlock()
			delivered = append(delivered, uint64(n.ID))
			return nil
		}), 4)
		for i := 1; i <= 20; i++ {
			Expect(d.Enqueue(notification.Notification{ID: notificationID(i)})).To(BeNil())
		}
		d.Stop()

		Expect(len(delivered)).To(Equal(20))
		for i, id := range delivered {
			Expect(id).To(Equal(uint64(i + 1)))
		}
	})

	t.Run("should keep delivering after downstream failures", func(t *testing.T) {
		count := 0
		d := notification.NewDispatcher(notification.SinkFunc(func(n notification.Notification) error {
			count++
			return errors.New("sink down")
		}), 0)
		Expect(d.Enqueue(notification.Notification{ID: 1})).To(BeNil())
		Expect(d.Enqueue(notification.Notification{ID: 2})).To(BeNil())
		d.Stop()
		Expect(count).To(Equal(2))
	})

	t.Run("should drain a full queue right after construction", func(t *testing.T) {
		inbox := notification.NewStore()
		d := notification.NewDispatcher(inbox, 1)
		for i := 1; i <= 5; i++ {
			Expect(d.Enqueue(notification.Notification{ID: notificationID(i), UserID: 10})).To(BeNil())
		}
		d.Stop()
		Expect(inbox.ListForUser(10)).To(HaveLen(5))
	})

	t.Run("should reject notifications after stop", func(t *testing.T) {
		d := notification.NewDispatcher(notification.NewStore(), 1)
		d.Stop()
		d.Stop()
		Expect(d.Enqueue(notification.Notification{ID: 1})).To(Equal(notification.ErrDispatcherStopped))
	})
}

func TestFanout(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should try every sink and report first failure", func(t *testing.T) {
		s1 := notification.NewStore()
		s2 := notification.NewStore()
		failure := errors.New("failure")
		f := notification.Fanout{s1, notification.SinkFunc(func(n notification.Notification) error { return failure }), s2}

		Expect(f.Enqueue(notification.Notification{ID: 1, UserID: 10})).To(Equal(failure))
		Expect(len(s1.ListForUser(10))).To(Equal(1))
		Expect(len(s2.ListForUser(10))).To(Equal(1))
	})
}
