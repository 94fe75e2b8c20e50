package job

import (
	"fieldjobs/bizerror"
	"sort"
	"sync"

	"github.com/fundwit/go-commons/types"
)

// Store keeps the active job collection and the approved history.
// Implementations must hand out copies: callers mutate what they get.
type Store interface {
	Get(id types.ID) (*Job, error)
	List() []Job
	Save(job *Job) error
	Delete(id types.ID) error
	// Archive moves the job out of the active collection into the history.
	Archive(job *Job) error
	History() []Job
}

type MemoryStore struct {
	mu      sync.RWMutex
	active  map[types.ID]*Job
	history []*Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{active: map[types.ID]*Job{}}
}

func (s *MemoryStore) Get(id types.ID) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, found := s.active[id]
	if !found {
		return nil, bizerror.Reason(bizerror.ErrNotFound, "job not found")
	}
	return j.Clone(), nil
}

// List returns active jobs, oldest first.
func (s *MemoryStore) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs := make([]Job, 0, len(s.active))
	for _, j := range s.active {
		jobs = append(jobs, *j.Clone())
	}
	sortJobs(jobs)
	return jobs
}

func (s *MemoryStore) Save(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[job.ID] = job.Clone()
	return nil
}

func (s *MemoryStore) Delete(id types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.active[id]; !found {
		return bizerror.Reason(bizerror.ErrNotFound, "job not found")
	}
	delete(s.active, id)
	return nil
}

func (s *MemoryStore) Archive(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.active[job.ID]; !found {
		return bizerror.Reason(bizerror.ErrNotFound, "job not found")
	}
	delete(s.active, job.ID)
	s.history = append(s.history, job.Clone())
	return nil
}

// History is append-only, in archival order.
func (s *MemoryStore) History() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jobs := make([]Job, 0, len(s.history))
	for _, j := range s.history {
		jobs = append(jobs, *j.Clone())
	}
	return jobs
}

func sortJobs(jobs []Job) {
	sort.SliceStable(jobs, func(i, k int) bool {
		ti, tk := jobs[i].CreateTime.Time(), jobs[k].CreateTime.Time()
		if ti.Equal(tk) {
			return jobs[i].ID < jobs[k].ID
		}
		return ti.Before(tk)
	})
}
