package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/V4T54L/venue-portal/internal/domain"
)

// UpdatedUser is one recorded MockUserSink.UpdateUser call.
type UpdatedUser struct {
	ID    uuid.UUID
	Draft domain.UserDraft
}

// MockUserSink is a mock implementation of domain.UserSink for testing.
type MockUserSink struct {
	mu        sync.Mutex
	Created   []domain.UserDraft
	Updated   []UpdatedUser
	CreateErr error
	UpdateErr error
}

func (m *MockUserSink) CreateUser(ctx context.Context, draft domain.UserDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Created = append(m.Created, draft)
	return nil
}

func (m *MockUserSink) UpdateUser(ctx context.Context, id uuid.UUID, draft domain.UserDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updated = append(m.Updated, UpdatedUser{ID: id, Draft: draft})
	return nil
}

// MockVenueCatalog is a mock implementation of domain.VenueCatalog for testing.
type MockVenueCatalog struct {
	List []string
	Err  error
}

func (m *MockVenueCatalog) Venues(ctx context.Context) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]string, len(m.List))
	copy(out, m.List)
	return out, nil
}

// MockNotificationPublisher delivers synchronously to the last subscriber and records
// everything published.
type MockNotificationPublisher struct {
	mu         sync.Mutex
	Published  []domain.Notification
	PublishErr error
	handler    func(domain.Notification)
}

func (m *MockNotificationPublisher) Publish(ctx context.Context, n domain.Notification) error {
	m.mu.Lock()
	if m.PublishErr != nil {
		m.mu.Unlock()
		return m.PublishErr
	}
	m.Published = append(m.Published, n)
	h := m.handler
	m.mu.Unlock()

	if h != nil {
		h(n)
	}
	return nil
}

// Subscribe records handler and returns immediately.
func (m *MockNotificationPublisher) Subscribe(ctx context.Context, handler func(domain.Notification)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = handler
	return nil
}
