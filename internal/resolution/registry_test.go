package resolution

import (
	"context"
	"sync"
	"testing"

	"github.com/vietddude/availability/internal/core/domain"
)

func TestRegistry_AddRemove(t *testing.T) {
	a := &mockStrategy{name: "a"}
	b := &mockStrategy{name: "b"}
	r := NewRegistry(a)

	before := Names(r.Snapshot())

	if !r.Add(b) {
		t.Fatal("expected add to succeed")
	}
	if !r.Remove(b) {
		t.Fatal("expected remove to succeed")
	}

	after := Names(r.Snapshot())
	if len(before) != len(after) || before[0] != after[0] {
		t.Errorf("expected %v after add/remove, got %v", before, after)
	}
}

func TestRegistry_DuplicateAddIsNoop(t *testing.T) {
	a := &mockStrategy{name: "a"}
	r := NewRegistry()

	r.Add(a)
	if r.Add(a) {
		t.Error("second add should report no change")
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 strategy, got %d", r.Len())
	}
}

func TestRegistry_RemoveAbsentIsNoop(t *testing.T) {
	r := NewRegistry(&mockStrategy{name: "a"})
	if r.Remove(&mockStrategy{name: "a"}) {
		t.Error("removing a different instance should be a no-op")
	}
	if r.Remove(nil) {
		t.Error("removing nil should be a no-op")
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 strategy, got %d", r.Len())
	}
}

func TestRegistry_InsertionOrder(t *testing.T) {
	a := &mockStrategy{name: "a"}
	b := &mockStrategy{name: "b"}
	c := &mockStrategy{name: "c"}
	r := NewRegistry(c, a, b)

	names := Names(r.Snapshot())
	want := []string{"c", "a", "b"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestRegistry_SnapshotUnaffectedByLaterChanges(t *testing.T) {
	a := &mockStrategy{name: "a"}
	b := &mockStrategy{name: "b"}
	r := NewRegistry(a)

	snap := r.Snapshot()
	r.Add(b)
	r.Remove(a)

	if len(snap) != 1 || snap[0] != Strategy(a) {
		t.Errorf("snapshot changed after mutation: %v", Names(snap))
	}
	if !r.Contains(b) || r.Contains(a) {
		t.Error("registry should reflect the mutations")
	}
}

func TestRegistry_DuplicateAttemptedOnce(t *testing.T) {
	s := &mockStrategy{name: "perm", kinds: []domain.FailureKind{domain.FailureKindPermissionDenied}}
	r := NewRegistry()
	r.Add(s)
	r.Add(s)

	_, err := NewResolver().ResolveAll(
		context.Background(),
		[]domain.Failure{domain.NewFailure(domain.FailureKindPermissionDenied, "")},
		r.Snapshot(),
	)
	if err != nil {
		t.Fatalf("ResolveAll failed: %v", err)
	}
	if s.callCount() != 1 {
		t.Errorf("expected 1 attempt, got %d", s.callCount())
	}
}

func TestRegistry_ConcurrentMutation(t *testing.T) {
	r := NewRegistry()
	strategies := make([]*mockStrategy, 20)
	for i := range strategies {
		strategies[i] = &mockStrategy{name: "s"}
	}

	var wg sync.WaitGroup
	for _, s := range strategies {
		wg.Add(2)
		go func(s *mockStrategy) {
			defer wg.Done()
			r.Add(s)
		}(s)
		go func() {
			defer wg.Done()
			_ = r.Snapshot()
		}()
	}
	wg.Wait()

	if r.Len() != len(strategies) {
		t.Errorf("expected %d strategies, got %d", len(strategies), r.Len())
	}
}
