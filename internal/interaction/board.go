// Package interaction tracks prompts and flows that are waiting on the user.
package interaction

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vietddude/availability/internal/flow"
	"github.com/vietddude/availability/internal/metrics"
	"github.com/vietddude/availability/internal/permission"
)

// Type distinguishes interaction payloads.
type Type string

const (
	TypePermission Type = "permission"
	TypeFlow       Type = "flow"
)

// Interaction is something a client should render and answer.
type Interaction struct {
	ID         string              `json:"id"`
	Type       Type                `json:"type"`
	Permission *permission.Request `json:"permission,omitempty"`
	Flow       *flow.Flow          `json:"flow,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// Board holds pending interactions. It is both the permission.Prompter and
// the flow.Presenter of the service.
type Board struct {
	mu    sync.RWMutex
	items map[string]Interaction
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{items: make(map[string]Interaction)}
}

func permissionID(code int) string {
	return fmt.Sprintf("permission:%d", code)
}

func flowID(id string) string {
	return "flow:" + id
}

func (b *Board) PromptPermission(ctx context.Context, req permission.Request) error {
	r := req
	b.put(Interaction{
		ID:         permissionID(req.Code),
		Type:       TypePermission,
		Permission: &r,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (b *Board) DismissPermission(code int) {
	b.remove(permissionID(code))
}

func (b *Board) PresentFlow(ctx context.Context, f flow.Flow) error {
	fl := f
	b.put(Interaction{
		ID:        flowID(f.ID),
		Type:      TypeFlow,
		Flow:      &fl,
		CreatedAt: f.LaunchedAt,
	})
	return nil
}

func (b *Board) DismissFlow(id string) {
	b.remove(flowID(id))
}

// List returns pending interactions, oldest first.
func (b *Board) List() []Interaction {
	b.mu.RLock()
	out := make([]Interaction, 0, len(b.items))
	for _, it := range b.items {
		out = append(out, it)
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of pending interactions.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

func (b *Board) put(it Interaction) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.items[it.ID]; !exists {
		metrics.PendingInteractions.WithLabelValues(string(it.Type)).Inc()
	}
	b.items[it.ID] = it
}

func (b *Board) remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if it, ok := b.items[id]; ok {
		delete(b.items, id)
		metrics.PendingInteractions.WithLabelValues(string(it.Type)).Dec()
	}
}
