package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/talleres-api/internal/models"
	"github.com/noah-isme/talleres-api/pkg/storage"
)

var (
	// ErrEnrollmentNotFound is returned by FindByID for unknown ids.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrStoreClosed is returned by every operation after Close.
	ErrStoreClosed = errors.New("enrollment store closed")
	// ErrPersist wraps failures writing the collection back to the persistence port.
	ErrPersist = errors.New("persist enrollments")
)

// EnrollmentStore owns the enrollment collection and is the only writer of its storage key.
// The whole collection is rewritten on every change; there is no delta persistence.
// Two processes sharing a key race with last-writer-wins semantics.
type EnrollmentStore struct {
	kv     storage.KeyValue
	key    string
	logger *zap.Logger

	now   func() time.Time
	newID func() string

	mu     sync.RWMutex
	items  []models.Enrollment
	loaded bool
	closed bool
}

// NewEnrollmentStore wires the store to a persistence port under key.
func NewEnrollmentStore(kv storage.KeyValue, key string, logger *zap.Logger) *EnrollmentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if key == "" {
		key = "enrollments"
	}
	return &EnrollmentStore{
		kv:     kv,
		key:    key,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Init loads the persisted collection. It is idempotent and also runs lazily on first access.
// Absent, unreadable or malformed data yields an empty collection. An unreadable collection is
// retried on the next access, and writes are refused until a read succeeds.
func (s *EnrollmentStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	_ = s.loadLocked(ctx)
	return nil
}

// loadLocked reports a read failure so writers can refuse to overwrite data they never saw.
func (s *EnrollmentStore) loadLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	s.items = make([]models.Enrollment, 0)

	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.Warn("enrollment storage unreadable, starting empty", zap.String("key", s.key), zap.Error(err))
			return err
		}
		s.loaded = true
		return nil
	}
	s.loaded = true

	var items []models.Enrollment
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn("enrollment storage malformed, starting empty", zap.String("key", s.key), zap.Error(err))
		// keep the unparseable payload around; the next create overwrites the key
		if err := s.kv.Set(ctx, s.key+".corrupt", raw); err != nil {
			s.logger.Warn("failed to back up malformed enrollments", zap.String("key", s.key), zap.Error(err))
		}
		return nil
	}
	if items != nil {
		s.items = items
	}
	s.logger.Info("enrollments loaded", zap.String("key", s.key), zap.Int("count", len(s.items)))
	return nil
}

// Create assigns id and timestamp, appends the record and rewrites storage. When the write
// fails the in-memory collection is left untouched and the error wraps ErrPersist.
func (s *EnrollmentStore) Create(ctx context.Context, draft models.EnrollmentDraft) (models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return models.Enrollment{}, ErrStoreClosed
	}
	if err := s.loadLocked(ctx); err != nil {
		return models.Enrollment{}, fmt.Errorf("%w: load: %v", ErrPersist, err)
	}

	record := models.Enrollment{
		ID:               s.newID(),
		EnrollmentTypeID: draft.EnrollmentTypeID,
		Student:          draft.Student,
		Guardian:         draft.Guardian,
		Workshop:         draft.Workshop,
		ScheduleID:       draft.ScheduleID,
		Horario:          draft.Horario,
		CreatedAt:        s.now(),
	}

	next := make([]models.Enrollment, len(s.items), len(s.items)+1)
	copy(next, s.items)
	next = append(next, record)
	if err := s.persistLocked(ctx, next); err != nil {
		return models.Enrollment{}, err
	}
	s.items = next
	return record, nil
}

// Import appends records that carry their own id and timestamp, skipping ids already present.
// It returns how many records were added.
func (s *EnrollmentStore) Import(ctx context.Context, records []models.Enrollment) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrStoreClosed
	}
	if err := s.loadLocked(ctx); err != nil {
		return 0, fmt.Errorf("%w: load: %v", ErrPersist, err)
	}

	seen := make(map[string]struct{}, len(s.items))
	for _, e := range s.items {
		seen[e.ID] = struct{}{}
	}
	next := make([]models.Enrollment, len(s.items), len(s.items)+len(records))
	copy(next, s.items)
	for _, e := range records {
		if e.ID == "" {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		next = append(next, e)
	}
	added := len(next) - len(s.items)
	if added == 0 {
		return 0, nil
	}
	if err := s.persistLocked(ctx, next); err != nil {
		return 0, err
	}
	s.items = next
	return added, nil
}

func (s *EnrollmentStore) persistLocked(ctx context.Context, items []models.Enrollment) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrPersist, err)
	}
	if err := s.kv.Set(ctx, s.key, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// List returns a copy of the collection in insertion order.
func (s *EnrollmentStore) List(ctx context.Context) ([]models.Enrollment, error) {
	return s.Search(ctx, models.EnrollmentQuery{})
}

// Search returns the records matching every set predicate, in insertion order.
func (s *EnrollmentStore) Search(ctx context.Context, query models.EnrollmentQuery) ([]models.Enrollment, error) {
	items, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return models.FilterEnrollments(items, query), nil
}

// FindByID returns one enrollment.
func (s *EnrollmentStore) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	items, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			found := items[i]
			return &found, nil
		}
	}
	return nil, ErrEnrollmentNotFound
}

// FindLatestStudent returns the student snapshot of the most recent enrollment with dni.
func (s *EnrollmentStore) FindLatestStudent(ctx context.Context, dni string) (*models.Student, error) {
	items, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].Student.DNI == dni {
			found := items[i].Student
			return &found, nil
		}
	}
	return nil, ErrEnrollmentNotFound
}

// Count returns the number of stored enrollments.
func (s *EnrollmentStore) Count(ctx context.Context) (int, error) {
	items, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Close tears the store down. Later calls fail with ErrStoreClosed.
func (s *EnrollmentStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.items = nil
	return nil
}

// snapshot hands out the current slice. Create never mutates a published slice in place,
// so readers may use it without holding the lock.
func (s *EnrollmentStore) snapshot(ctx context.Context) ([]models.Enrollment, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrStoreClosed
	}
	if s.loaded {
		items := s.items
		s.mu.RUnlock()
		return items, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	_ = s.loadLocked(ctx)
	return s.items, nil
}
