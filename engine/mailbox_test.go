package engine

import (
	"testing"
	"time"
)

func TestMailboxFIFO(t *testing.T) {
	m := newMailbox(0)
	for i := 1; i <= 3; i++ {
		if err := m.push(&request{seq: uint64(i)}); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	for i := 1; i <= 3; i++ {
		r, ok := m.pop()
		if !ok || r.seq != uint64(i) {
			t.Fatalf("pop %d: got %v, %v", i, r, ok)
		}
	}
}

func TestMailboxPopBlocksUntilPush(t *testing.T) {
	m := newMailbox(0)
	got := make(chan uint64)
	go func() {
		r, _ := m.pop()
		got <- r.seq
	}()

	select {
	case <-got:
		t.Fatal("pop returned from an empty mailbox")
	case <-time.After(20 * time.Millisecond):
	}

	if err := m.push(&request{seq: 7}); err != nil {
		t.Fatal(err)
	}
	if seq := <-got; seq != 7 {
		t.Fatalf("got %d, want 7", seq)
	}
}

func TestMailboxShutdownDrains(t *testing.T) {
	m := newMailbox(0)
	m.push(&request{seq: 1})
	m.push(&request{seq: 2})
	m.shutdown()

	if err := m.push(&request{seq: 3}); err != errMailboxClosed {
		t.Fatalf("push after shutdown: %v", err)
	}
	for i := 1; i <= 2; i++ {
		if r, ok := m.pop(); !ok || r.seq != uint64(i) {
			t.Fatalf("drain %d: got %v, %v", i, r, ok)
		}
	}
	if _, ok := m.pop(); ok {
		t.Fatal("pop after drain should report closed")
	}
}

func TestMailboxShutdownWakesConsumer(t *testing.T) {
	m := newMailbox(0)
	done := make(chan bool)
	go func() {
		_, ok := m.pop()
		done <- ok
	}()
	time.Sleep(10 * time.Millisecond)
	m.shutdown()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("expected closed")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("consumer not woken")
	}
}

func TestMailboxAbort(t *testing.T) {
	m := newMailbox(0)
	m.push(&request{seq: 1})
	m.push(&request{seq: 2})

	pending := m.abort()
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	if _, ok := m.pop(); ok {
		t.Fatal("aborted mailbox should be empty and closed")
	}
	if m.len() != 0 {
		t.Fatal("expected empty queue")
	}
}

func TestMailboxLimit(t *testing.T) {
	m := newMailbox(2)
	m.push(&request{})
	m.push(&request{})
	if err := m.push(&request{}); err != errMailboxFull {
		t.Fatalf("expected errMailboxFull, got %v", err)
	}
	m.pop()
	if err := m.push(&request{}); err != nil {
		t.Fatalf("push after pop: %v", err)
	}
}
