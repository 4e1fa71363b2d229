// Package permission checks and requests runtime permissions.
package permission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	// ErrRequestReplaced is returned when a newer request with the same code
	// takes over a pending one.
	ErrRequestReplaced = errors.New("permission request replaced")

	// ErrEmptyRequest is returned for a request without permissions.
	ErrEmptyRequest = errors.New("permission request has no permissions")
)

// Request describes a set of permissions asked for together.
// Code correlates the prompt with its result.
type Request struct {
	Code        int      `json:"code"`
	Permissions []string `json:"permissions"`
	Rationale   string   `json:"rationale,omitempty"`
}

// GrantStore records which permissions have been granted.
type GrantStore interface {
	Granted(ctx context.Context, permission string) (bool, error)
	Grant(ctx context.Context, permissions ...string) error
	Revoke(ctx context.Context, permissions ...string) error
}

// Prompter shows a permission prompt to the user. It returns once the prompt
// is displayed; the answer arrives through Manager.OnResult.
type Prompter interface {
	PromptPermission(ctx context.Context, req Request) error
	DismissPermission(code int)
}

type pending struct {
	req    Request
	result chan bool
	err    chan error
}

// Manager checks permissions against a GrantStore and runs request flows.
type Manager struct {
	grants   GrantStore
	prompter Prompter
	mu       sync.Mutex
	pending  map[int]*pending
	log      *slog.Logger
}

// NewManager creates a new permission manager.
func NewManager(grants GrantStore, prompter Prompter) *Manager {
	return &Manager{
		grants:   grants,
		prompter: prompter,
		pending:  make(map[int]*pending),
		log:      slog.Default().With("component", "permission"),
	}
}

// Check reports whether every permission in req is granted, without prompting.
func (m *Manager) Check(ctx context.Context, req Request) (bool, error) {
	for _, p := range req.Permissions {
		ok, err := m.grants.Granted(ctx, p)
		if err != nil {
			return false, fmt.Errorf("failed to check permission %s: %w", p, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Request asks the user for the permissions in req and waits for the answer.
// Already granted permissions complete immediately without a prompt.
func (m *Manager) Request(ctx context.Context, req Request) (bool, error) {
	if len(req.Permissions) == 0 {
		return false, ErrEmptyRequest
	}

	granted, err := m.Check(ctx, req)
	if err != nil {
		return false, err
	}
	if granted {
		return true, nil
	}

	p := &pending{req: req, result: make(chan bool, 1), err: make(chan error, 1)}
	m.mu.Lock()
	if prev, ok := m.pending[req.Code]; ok {
		prev.err <- ErrRequestReplaced
	}
	m.pending[req.Code] = p
	m.mu.Unlock()

	defer m.release(req.Code, p)

	if err := m.prompter.PromptPermission(ctx, req); err != nil {
		return false, fmt.Errorf("failed to prompt for permission: %w", err)
	}
	m.log.Debug("Permission prompt shown", "code", req.Code, "permissions", req.Permissions)

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-p.err:
		return false, err
	case ok := <-p.result:
		return ok, nil
	}
}

// OnResult delivers the user's answer for the request with the given code.
// grants holds one entry per requested permission, in request order; the
// request succeeds only if all of them are granted. It returns false if no
// request with that code is pending.
func (m *Manager) OnResult(ctx context.Context, code int, grants []bool) bool {
	m.mu.Lock()
	p, ok := m.pending[code]
	if ok {
		delete(m.pending, code)
	}
	m.mu.Unlock()
	if !ok {
		return false
	}

	allGranted := len(grants) == len(p.req.Permissions)
	var granted []string
	for i, g := range grants {
		if !g || i >= len(p.req.Permissions) {
			allGranted = false
			continue
		}
		granted = append(granted, p.req.Permissions[i])
	}

	if len(granted) > 0 {
		if err := m.grants.Grant(ctx, granted...); err != nil {
			m.log.Warn("Failed to persist grant", "code", code, "error", err)
			p.err <- fmt.Errorf("failed to persist grant: %w", err)
			return true
		}
	}

	m.log.Info("Permission result received", "code", code, "granted", allGranted)
	p.result <- allGranted
	return true
}

// PendingCodes returns the codes of requests waiting on the user.
func (m *Manager) PendingCodes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	codes := make([]int, 0, len(m.pending))
	for code := range m.pending {
		codes = append(codes, code)
	}
	return codes
}

func (m *Manager) release(code int, p *pending) {
	m.mu.Lock()
	current, ok := m.pending[code]
	if ok && current == p {
		delete(m.pending, code)
	}
	replaced := ok && current != p
	m.mu.Unlock()

	if !replaced {
		m.prompter.DismissPermission(code)
	}
}
