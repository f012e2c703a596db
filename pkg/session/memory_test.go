package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryStoreAppendAndReadRecent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		err := s.Append(ctx, "sess-1", Turn{Role: role, Text: fmt.Sprintf("turn %d", i)})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	turns, err := s.ReadRecent(ctx, "sess-1", 4)
	if err != nil {
		t.Fatalf("ReadRecent() error = %v", err)
	}
	if len(turns) != 4 {
		t.Fatalf("ReadRecent() returned %d turns, want 4", len(turns))
	}
	// The suffix of the log, oldest first.
	if turns[0].Text != "turn 2" || turns[3].Text != "turn 5" {
		t.Errorf("ReadRecent() window = %q..%q, want turn 2..turn 5", turns[0].Text, turns[3].Text)
	}
	if turns[0].CreatedAt.IsZero() {
		t.Error("Append() did not stamp CreatedAt")
	}
}

func TestMemoryStoreSessionsIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Append(ctx, "a", Turn{Role: RoleUser, Text: "hello from a"})
	s.Append(ctx, "b", Turn{Role: RoleUser, Text: "hello from b"})

	turns, _ := s.ReadRecent(ctx, "a", 10)
	if len(turns) != 1 || turns[0].Text != "hello from a" {
		t.Errorf("session a sees %v", turns)
	}
}

func TestMemoryStoreReadRecentEmptySession(t *testing.T) {
	s := NewMemoryStore()

	turns, err := s.ReadRecent(context.Background(), "nobody", 10)
	if err != nil {
		t.Fatalf("ReadRecent() error = %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("ReadRecent() = %v, want empty", turns)
	}
}

func TestMemoryStoreConcurrentAppends(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Append(ctx, "shared", Turn{Role: RoleUser, Text: fmt.Sprintf("t%d", i)})
		}(i)
	}
	wg.Wait()

	turns, err := s.ReadRecent(ctx, "shared", 0)
	if err != nil {
		t.Fatalf("ReadRecent() error = %v", err)
	}
	if len(turns) != 50 {
		t.Errorf("got %d turns, want 50", len(turns))
	}
}

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	km := NewKeyedMutex()

	var order []int
	var wg sync.WaitGroup
	unlock := km.Lock("k")

	wg.Add(1)
	go func() {
		defer wg.Done()
		u := km.Lock("k")
		order = append(order, 2)
		u()
	}()

	order = append(order, 1)
	unlock()
	wg.Wait()

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2]", order)
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()

	unlockA := km.Lock("a")
	defer unlockA()

	// A different key must not block.
	done := make(chan struct{})
	go func() {
		u := km.Lock("b")
		u()
		close(done)
	}()
	<-done
}
