package job

import (
	"sync"

	"github.com/fundwit/go-commons/types"
)

// jobLocks serializes mutations per job id; entries are dropped once nobody holds or waits on them.
type jobLocks struct {
	mu    sync.Mutex
	locks map[types.ID]*jobLock
}

type jobLock struct {
	sync.Mutex
	refs int
}

func newJobLocks() *jobLocks {
	return &jobLocks{locks: map[types.ID]*jobLock{}}
}

func (l *jobLocks) lock(id types.ID) func() {
	l.mu.Lock()
	entry, found := l.locks[id]
	if !found {
		entry = &jobLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.Lock()
	return func() {
		entry.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *jobLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
