package interaction

import (
	"context"
	"testing"
	"time"

	"github.com/vietddude/availability/internal/flow"
	"github.com/vietddude/availability/internal/permission"
)

func TestBoard_PermissionLifecycle(t *testing.T) {
	b := NewBoard()
	ctx := context.Background()

	if err := b.PromptPermission(ctx, permission.Request{Code: 4, Permissions: []string{"location.fine"}}); err != nil {
		t.Fatalf("PromptPermission failed: %v", err)
	}

	items := b.List()
	if len(items) != 1 || items[0].Type != TypePermission || items[0].Permission.Code != 4 {
		t.Fatalf("unexpected interactions: %+v", items)
	}

	b.DismissPermission(4)
	if b.Len() != 0 {
		t.Error("expected board to be empty after dismiss")
	}
}

func TestBoard_ListOrder(t *testing.T) {
	b := NewBoard()
	ctx := context.Background()
	now := time.Now()

	_ = b.PresentFlow(ctx, flow.Flow{ID: "late", LaunchedAt: now.Add(time.Second)})
	_ = b.PresentFlow(ctx, flow.Flow{ID: "early", LaunchedAt: now})

	items := b.List()
	if len(items) != 2 {
		t.Fatalf("expected 2 interactions, got %d", len(items))
	}
	if items[0].Flow.ID != "early" || items[1].Flow.ID != "late" {
		t.Errorf("expected oldest first, got %s, %s", items[0].Flow.ID, items[1].Flow.ID)
	}
}

func TestBoard_DismissUnknownIsNoop(t *testing.T) {
	b := NewBoard()
	b.DismissFlow("missing")
	b.DismissPermission(1)
	if b.Len() != 0 {
		t.Error("expected empty board")
	}
}
