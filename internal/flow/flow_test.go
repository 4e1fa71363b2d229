package flow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type mockPresenter struct {
	mu        sync.Mutex
	shown     chan Flow
	dismissed []string
}

func newMockPresenter() *mockPresenter {
	return &mockPresenter{shown: make(chan Flow, 4)}
}

func (p *mockPresenter) PresentFlow(ctx context.Context, f Flow) error {
	p.shown <- f
	return nil
}

func (p *mockPresenter) DismissFlow(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dismissed = append(p.dismissed, id)
}

func (p *mockPresenter) waitFlow(t *testing.T) Flow {
	t.Helper()
	select {
	case f := <-p.shown:
		return f
	case <-time.After(time.Second):
		t.Fatal("flow was not presented")
		return Flow{}
	}
}

func TestLauncher_Completed(t *testing.T) {
	presenter := newMockPresenter()
	l := NewLauncher(presenter)

	done := make(chan Result, 1)
	go func() {
		r, _ := l.Launch(context.Background(), Action{Kind: ActionEnableSetting, Setting: "location_enabled"})
		done <- r
	}()

	f := presenter.waitFlow(t)
	if f.Action.Setting != "location_enabled" {
		t.Errorf("expected setting location_enabled, got %s", f.Action.Setting)
	}
	if err := l.Complete(f.ID, ResultCompleted); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if r := <-done; r != ResultCompleted {
		t.Errorf("expected completed, got %s", r)
	}
	if len(l.Pending()) != 0 {
		t.Error("flow should no longer be pending")
	}
}

func TestLauncher_CompleteUnknown(t *testing.T) {
	l := NewLauncher(newMockPresenter())
	if err := l.Complete("missing", ResultCompleted); !errors.Is(err, ErrUnknownFlow) {
		t.Errorf("expected ErrUnknownFlow, got %v", err)
	}
}

func TestLauncher_Cancelled(t *testing.T) {
	presenter := newMockPresenter()
	l := NewLauncher(presenter)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := l.Launch(ctx, Action{Kind: ActionUpdateServices})
		errCh <- err
	}()

	f := presenter.waitFlow(t)
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	if len(presenter.dismissed) != 1 || presenter.dismissed[0] != f.ID {
		t.Errorf("expected flow %s dismissed, got %v", f.ID, presenter.dismissed)
	}
}

func TestParseResult(t *testing.T) {
	if r, err := ParseResult("cancelled"); err != nil || r != ResultCancelled {
		t.Errorf("expected cancelled, got %s (%v)", r, err)
	}
	if _, err := ParseResult("maybe"); err == nil {
		t.Error("expected error for unknown result")
	}
}
