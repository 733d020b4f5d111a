package notifier

import (
	"context"
	"sync"

	"github.com/V4T54L/venue-portal/internal/domain"
)

// MemoryPublisher fans notifications out to subscribers in this process only.
// It is used when no redis is configured.
type MemoryPublisher struct {
	mu   sync.RWMutex
	subs map[int]func(domain.Notification)
	next int
}

// NewMemoryPublisher creates a new MemoryPublisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{subs: make(map[int]func(domain.Notification))}
}

// Publish delivers n to every current subscriber before returning.
func (p *MemoryPublisher) Publish(ctx context.Context, n domain.Notification) error {
	p.mu.RLock()
	handlers := make([]func(domain.Notification), 0, len(p.subs))
	for _, h := range p.subs {
		handlers = append(handlers, h)
	}
	p.mu.RUnlock()

	for _, h := range handlers {
		h(n)
	}
	return nil
}

// Subscribe registers handler and blocks until ctx is done.
func (p *MemoryPublisher) Subscribe(ctx context.Context, handler func(domain.Notification)) error {
	p.mu.Lock()
	id := p.next
	p.next++
	p.subs[id] = handler
	p.mu.Unlock()

	<-ctx.Done()

	p.mu.Lock()
	delete(p.subs, id)
	p.mu.Unlock()
	return nil
}

// Subscribers returns the number of active subscriptions.
func (p *MemoryPublisher) Subscribers() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subs)
}
