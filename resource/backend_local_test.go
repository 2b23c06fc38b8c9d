package resource

import (
	"errors"
	"sync"
	"testing"
)

func TestLocalBackend_Basic(t *testing.T) {
	b := NewLocalBackend()

	// Create a resource
	handle, err := b.Create("test value")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if handle == 0 {
		t.Fatal("Expected non-zero handle")
	}

	// Get it back
	val, ok := b.Get(handle)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test value" {
		t.Fatalf("Expected 'test value', got %v", val)
	}

	// Drop it
	val, ok = b.Drop(handle)
	if !ok {
		t.Fatal("Drop failed")
	}
	if val != "test value" {
		t.Fatalf("Expected 'test value', got %v", val)
	}

	// Should not exist anymore
	_, ok = b.Get(handle)
	if ok {
		t.Fatal("Expected Get to fail after Drop")
	}
}

func TestLocalBackend_HandleReuse(t *testing.T) {
	b := NewLocalBackend()

	h1, _ := b.Create(1)
	h2, _ := b.Create(2)
	h3, _ := b.Create(3)

	b.Drop(h2)
	b.Drop(h1)

	// Freed slots are reused LIFO with a new generation
	h4, _ := b.Create(4)
	h5, _ := b.Create(5)

	if h4.slot() != h1.slot() || h5.slot() != h2.slot() {
		t.Fatalf("Expected slots %d and %d reused, got %d and %d", h1.slot(), h2.slot(), h4.slot(), h5.slot())
	}
	if h4 == h1 || h5 == h2 {
		t.Fatal("Reused slots must produce new handles")
	}

	for _, h := range []Handle{h1, h2} {
		if _, ok := b.Get(h); ok {
			t.Fatalf("Stale handle %s should be invalid", h)
		}
	}
	for _, h := range []Handle{h3, h4, h5} {
		if _, ok := b.Get(h); !ok {
			t.Fatalf("Handle %s should be valid", h)
		}
	}
}

func TestLocalBackend_GenerationWraps(t *testing.T) {
	b := NewLocalBackend()

	h, _ := b.Create("x")
	for i := 0; i < 3; i++ {
		b.Drop(h)
		h, _ = b.Create("x")
	}
	if h.Generation() != 3 {
		t.Fatalf("Expected generation 3, got %d", h.Generation())
	}
	if h.slot() != 0 {
		t.Fatalf("Expected slot 0, got %d", h.slot())
	}
}

func TestLocalBackend_Close(t *testing.T) {
	b := NewLocalBackend()

	b.Create(1)
	b.Create(2)

	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}

	// Operations should fail after close
	_, err := b.Create("test")
	if !errors.Is(err, ErrClosed) {
		t.Fatal("Expected ErrClosed after Close")
	}
}

func TestLocalBackend_Concurrent(t *testing.T) {
	b := NewLocalBackend()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			h, _ := b.Create(id)
			if v, ok := b.Get(h); !ok || v != id {
				t.Errorf("Get(%s) = %v, %v", h, v, ok)
			}
			b.Drop(h)
		}(i)
	}

	wg.Wait()
	if b.Len() != 0 {
		t.Fatalf("Expected Len() == 0, got %d", b.Len())
	}
}

func TestLocalBackend_Len(t *testing.T) {
	b := NewLocalBackend()

	if b.Len() != 0 {
		t.Fatal("Expected Len() == 0 initially")
	}

	h1, _ := b.Create("a")
	h2, _ := b.Create("b")
	b.Create("c")

	if b.Len() != 3 {
		t.Fatalf("Expected Len() == 3, got %d", b.Len())
	}

	b.Drop(h1)
	if b.Len() != 2 {
		t.Fatalf("Expected Len() == 2, got %d", b.Len())
	}

	b.Drop(h2)
	if b.Len() != 1 {
		t.Fatalf("Expected Len() == 1, got %d", b.Len())
	}
}

func TestLocalBackend_Each(t *testing.T) {
	b := NewLocalBackend()

	b.Create("a")
	b.Create("b")
	b.Create("c")

	count := 0
	b.Each(func(h Handle, value any) bool {
		count++
		return true
	})

	if count != 3 {
		t.Fatalf("Expected to iterate over 3 items, got %d", count)
	}

	// Test early termination
	count = 0
	b.Each(func(h Handle, value any) bool {
		count++
		return false
	})

	if count != 1 {
		t.Fatalf("Expected to iterate over 1 item (early term), got %d", count)
	}
}

func TestLocalBackend_InvalidHandle(t *testing.T) {
	b := NewLocalBackend()

	// Handle 0 is always invalid
	if _, ok := b.Get(0); ok {
		t.Fatal("Handle 0 should be invalid")
	}
	if _, ok := b.Drop(0); ok {
		t.Fatal("Handle 0 should fail Drop")
	}

	// Non-existent handle
	if _, ok := b.Get(999); ok {
		t.Fatal("Non-existent handle should be invalid")
	}

	// Right slot, wrong generation
	h, _ := b.Create("v")
	forged := makeHandle(h.slot(), h.Generation()+1)
	if _, ok := b.Get(forged); ok {
		t.Fatal("Handle with wrong generation should be invalid")
	}
}
