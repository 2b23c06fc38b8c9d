package engine

import (
	stderrors "errors"
	"sync"
)

var (
	errMailboxClosed = stderrors.New("mailbox closed")
	errMailboxFull   = stderrors.New("mailbox full")
)

// mailbox is an unbounded FIFO with many producers and one consumer.
// Producers never block, and once closed every push fails, so a dead
// consumer cannot strand a submitter.
type mailbox struct {
	signal chan struct{}
	queue  []*request
	limit  int
	mu     sync.Mutex
	closed bool
}

func newMailbox(limit int) *mailbox {
	return &mailbox{
		signal: make(chan struct{}, 1),
		limit:  limit,
	}
}

func (m *mailbox) wake() {
	select {
	case m.signal <- struct{}{}:
	default:
	}
}

func (m *mailbox) push(r *request) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return errMailboxClosed
	}
	if m.limit > 0 && len(m.queue) >= m.limit {
		m.mu.Unlock()
		return errMailboxFull
	}
	m.queue = append(m.queue, r)
	m.mu.Unlock()
	m.wake()
	return nil
}

// pop blocks for the next request. After shutdown it keeps returning
// queued requests and reports false once the queue is empty.
func (m *mailbox) pop() (*request, bool) {
	for {
		m.mu.Lock()
		if len(m.queue) > 0 {
			r := m.queue[0]
			m.queue[0] = nil
			m.queue = m.queue[1:]
			m.mu.Unlock()
			return r, true
		}
		if m.closed {
			m.mu.Unlock()
			return nil, false
		}
		m.mu.Unlock()
		<-m.signal
	}
}

// shutdown stops accepting requests; queued ones are still delivered.
func (m *mailbox) shutdown() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.wake()
}

// abort stops accepting requests and returns the ones still queued.
func (m *mailbox) abort() []*request {
	m.mu.Lock()
	m.closed = true
	pending := m.queue
	m.queue = nil
	m.mu.Unlock()
	m.wake()
	return pending
}

func (m *mailbox) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}
