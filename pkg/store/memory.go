package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-formdesigner/pkg/form"
)

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryClock overrides the timestamp source.
func WithMemoryClock(clock Clock) MemoryOption {
	return func(m *MemoryStore) {
		if clock != nil {
			m.now = clock
		}
	}
}

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	forms       map[string]Form
	submissions map[string][]Submission
	nextSubID   int64
	now         Clock
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(options ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		forms:       make(map[string]Form),
		submissions: make(map[string][]Submission),
		now:         defaultClock,
	}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

func (m *MemoryStore) CreateForm(_ context.Context, in NewForm) (Form, error) {
	now := m.now()
	record := Form{
		ID:          form.NewID(),
		UserID:      in.UserID,
		Name:        in.Name,
		Description: in.Description,
		Content:     "[]",
		ShareURL:    uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.forms[record.ID] = record
	return record, nil
}

func (m *MemoryStore) GetForm(_ context.Context, id string) (Form, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.forms[id]
	if !ok {
		return Form{}, fmt.Errorf("%w: %q", ErrFormNotFound, id)
	}
	return record, nil
}

func (m *MemoryStore) ListForms(_ context.Context, userID string) ([]Form, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Form
	for _, record := range m.forms {
		if record.UserID == userID {
			out = append(out, record)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) FormByShareURL(_ context.Context, shareURL string) (Form, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, record := range m.forms {
		if record.ShareURL != shareURL || !record.Published {
			continue
		}
		record.Visits++
		m.forms[id] = record
		return record, nil
	}
	return Form{}, fmt.Errorf("%w: share url %q", ErrFormNotFound, shareURL)
}

func (m *MemoryStore) SaveContent(_ context.Context, id, content, fingerprint string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.forms[id]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrFormNotFound, id)
	}
	if record.Published {
		return false, fmt.Errorf("%w: %q", ErrFormPublished, id)
	}
	if fingerprint != "" && record.Fingerprint == fingerprint {
		return false, nil
	}
	record.Content = content
	record.Fingerprint = fingerprint
	record.UpdatedAt = m.now()
	m.forms[id] = record
	return true, nil
}

func (m *MemoryStore) Publish(_ context.Context, id string) (Form, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.forms[id]
	if !ok {
		return Form{}, fmt.Errorf("%w: %q", ErrFormNotFound, id)
	}
	record.Published = true
	record.UpdatedAt = m.now()
	m.forms[id] = record
	return record, nil
}

func (m *MemoryStore) DeleteForm(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.forms[id]; !ok {
		return fmt.Errorf("%w: %q", ErrFormNotFound, id)
	}
	delete(m.forms, id)
	delete(m.submissions, id)
	return nil
}

func (m *MemoryStore) RecordSubmission(_ context.Context, formID, content string) (Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.forms[formID]
	if !ok {
		return Submission{}, fmt.Errorf("%w: %q", ErrFormNotFound, formID)
	}
	if !record.Published {
		return Submission{}, fmt.Errorf("%w: %q", ErrFormNotPublished, formID)
	}
	m.nextSubID++
	sub := Submission{ID: m.nextSubID, FormID: formID, Content: content, CreatedAt: m.now()}
	m.submissions[formID] = append(m.submissions[formID], sub)
	record.Submissions++
	m.forms[formID] = record
	return sub, nil
}

func (m *MemoryStore) Submissions(_ context.Context, formID string) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.forms[formID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrFormNotFound, formID)
	}
	return append([]Submission(nil), m.submissions[formID]...), nil
}

func (m *MemoryStore) DeleteSubmissions(_ context.Context, formID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.forms[formID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrFormNotFound, formID)
	}
	delete(m.submissions, formID)
	record.Submissions = 0
	m.forms[formID] = record
	return nil
}

func (m *MemoryStore) Stats(_ context.Context, userID string) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var visits, submissions int64
	for _, record := range m.forms {
		if record.UserID != userID {
			continue
		}
		visits += record.Visits
		submissions += record.Submissions
	}
	return newStats(visits, submissions), nil
}
