package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vietddude/availability/internal/core/domain"
	"github.com/vietddude/availability/internal/storage"
)

func TestPassRepo_SaveAndGetRecent(t *testing.T) {
	repo := NewPassRepo(0)
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3"} {
		if err := repo.Save(ctx, &domain.PassRecord{ID: id, SessionID: "s1"}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	recent, err := repo.GetRecent(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "p3" || recent[1].ID != "p2" {
		t.Errorf("expected newest first [p3 p2], got %v", recent)
	}

	count, _ := repo.Count(ctx, "s1")
	if count != 3 {
		t.Errorf("expected 3 records, got %d", count)
	}
}

func TestPassRepo_Capped(t *testing.T) {
	repo := NewPassRepo(2)
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3"} {
		_ = repo.Save(ctx, &domain.PassRecord{ID: id, SessionID: "s1"})
	}

	recent, _ := repo.GetRecent(ctx, "s1", 0)
	if len(recent) != 2 || recent[1].ID != "p2" {
		t.Errorf("expected oldest record dropped, got %v", recent)
	}
}

func TestPassRepo_Invalid(t *testing.T) {
	repo := NewPassRepo(0)
	if err := repo.Save(context.Background(), &domain.PassRecord{ID: "x"}); !errors.Is(err, storage.ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestPassRepo_DeleteOlderThan(t *testing.T) {
	repo := NewPassRepo(0)
	ctx := context.Background()
	now := time.Now()

	_ = repo.Save(ctx, &domain.PassRecord{ID: "old", SessionID: "s1", StartedAt: now.Add(-2 * time.Hour)})
	_ = repo.Save(ctx, &domain.PassRecord{ID: "new", SessionID: "s1", StartedAt: now})
	_ = repo.Save(ctx, &domain.PassRecord{ID: "old2", SessionID: "s2", StartedAt: now.Add(-3 * time.Hour)})

	deleted, err := repo.DeleteOlderThan(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	recent, _ := repo.GetRecent(ctx, "s1", 0)
	if len(recent) != 1 || recent[0].ID != "new" {
		t.Errorf("expected only the new pass kept, got %v", recent)
	}
	if count, _ := repo.Count(ctx, "s2"); count != 0 {
		t.Errorf("expected s2 emptied, got %d", count)
	}
}
