package storage

import (
	"sort"
	"sync"

	"github.com/lehigh-university-libraries/ftva-etl/internal/models"
)

// DefaultCapacity bounds the number of records kept in memory.
const DefaultCapacity = 1000

// RecordStore keeps recently composed records for the lifetime of the
// process. The oldest record is dropped once capacity is reached.
type RecordStore struct {
	records  map[string]*models.ComposedRecord
	order    []string
	capacity int
	mu       sync.RWMutex
}

func New(capacity int) *RecordStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RecordStore{
		records:  make(map[string]*models.ComposedRecord),
		capacity: capacity,
	}
}

func (s *RecordStore) Get(id string) (*models.ComposedRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, exists := s.records[id]
	return record, exists
}

func (s *RecordStore) Set(id string, record *models.ComposedRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[id]; !exists {
		s.order = append(s.order, id)
	}
	s.records[id] = record

	for len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.records, oldest)
	}
}

// List returns every stored record, newest first.
func (s *RecordStore) List() []*models.ComposedRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.ComposedRecord, 0, len(s.records))
	for _, id := range s.order {
		result = append(result, s.records[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *RecordStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[id]; !exists {
		return
	}
	delete(s.records, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
