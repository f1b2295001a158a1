package leave_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"personnel-management/internal/events"
	"personnel-management/internal/leave"
	leaveerrors "personnel-management/internal/leave/errors"

	"gorm.io/gorm"
)

// serialTx runs callbacks one at a time, the way a row lock serializes
// concurrent decisions on the same request.
type serialTx struct {
	mu    sync.Mutex
	calls int
}

func (t *serialTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	return fn(ctx)
}

// memStore is an in-memory Repository and BalanceRepository with the same
// conditional semantics as the SQL implementations.
type memStore struct {
	mu        sync.Mutex
	balances  map[string]*leave.LeaveBalance
	requests  map[string]*leave.LeaveRequest
	ensures   int
	debits    int
	finalizes int
}

func newMemStore() *memStore {
	return &memStore{
		balances: map[string]*leave.LeaveBalance{},
		requests: map[string]*leave.LeaveRequest{},
	}
}

func (m *memStore) setBalance(userID string, days int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = &leave.LeaveBalance{UserID: userID, TotalDays: days}
}

func (m *memStore) balance(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.balances[userID]; ok {
		return b.TotalDays
	}
	return 0
}

func (m *memStore) put(r leave.LeaveRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := r
	m.requests[r.ID.String()] = &cp
}

func (m *memStore) status(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.requests[id]; ok {
		return r.Status
	}
	return ""
}

func (m *memStore) Ensure(ctx context.Context, userID string, initialDays int) (*leave.LeaveBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensures++
	b, ok := m.balances[userID]
	if !ok {
		b = &leave.LeaveBalance{UserID: userID, TotalDays: initialDays}
		m.balances[userID] = b
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) Debit(ctx context.Context, userID string, days int) (*leave.LeaveBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debits++
	b, ok := m.balances[userID]
	if !ok || b.TotalDays < days {
		return nil, leaveerrors.ErrInsufficientBalance
	}
	b.TotalDays -= days
	b.UsedDays += days
	cp := *b
	return &cp, nil
}

func (m *memStore) Remaining(ctx context.Context, userID string) (int, error) {
	return m.balance(userID), nil
}

func (m *memStore) Create(ctx context.Context, r *leave.LeaveRequest) error {
	if r.EndDate.Before(r.StartDate) {
		return leaveerrors.ErrInvalidRange
	}
	r.CreatedAt = time.Now()
	m.put(*r)
	return nil
}

func (m *memStore) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) FindByIDForUpdate(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	return m.FindByID(ctx, id)
}

func (m *memStore) Finalize(ctx context.Context, id, status string, rejectReason *string) (*leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finalizes++
	r, ok := m.requests[id]
	if !ok {
		return nil, leaveerrors.ErrLeaveNotFound
	}
	if r.Status != leave.StatusPending {
		return nil, leaveerrors.ErrAlreadyProcessed
	}
	now := time.Now().UTC()
	r.Status = status
	r.RejectReason = rejectReason
	r.DecidedAt = &now
	cp := *r
	return &cp, nil
}

func (m *memStore) FindAllByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []leave.LeaveRequest
	for _, r := range m.requests {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakePublisher struct {
	err       error
	published chan events.LeaveDecidedEvent
}

func newFakePublisher(err error) *fakePublisher {
	return &fakePublisher{err: err, published: make(chan events.LeaveDecidedEvent, 16)}
}

func (p *fakePublisher) PublishLeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) error {
	p.published <- event
	return p.err
}
