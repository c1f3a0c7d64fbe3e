package channel

import (
	"context"
	"sync"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

var (
	_ Transport     = &transportMock{}
	_ router        = &routerMock{}
	_ lifecycle     = &lifecycleMock{}
	_ auditRecorder = &auditRecorderMock{}
)

type transportMock struct {
	SendFunc func(ctx context.Context, msg domain.Outbound) error
	// CloseFunc, when set, runs after the reason is recorded.
	CloseFunc func(reason string) error

	mu      sync.Mutex
	sent    []domain.Outbound
	reasons []string
}

func (mock *transportMock) Send(ctx context.Context, msg domain.Outbound) error {
	if mock.SendFunc != nil {
		if err := mock.SendFunc(ctx, msg); err != nil {
			return err
		}
	}
	mock.mu.Lock()
	mock.sent = append(mock.sent, msg)
	mock.mu.Unlock()
	return nil
}

func (mock *transportMock) Close(reason string) error {
	mock.mu.Lock()
	mock.reasons = append(mock.reasons, reason)
	mock.mu.Unlock()
	if mock.CloseFunc != nil {
		return mock.CloseFunc(reason)
	}
	return nil
}

func (mock *transportMock) Sent() []domain.Outbound {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return append([]domain.Outbound(nil), mock.sent...)
}

func (mock *transportMock) CloseReasons() []string {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return append([]string(nil), mock.reasons...)
}

type routerMock struct {
	OnFragmentFunc func(ctx context.Context, f domain.Fragment) ([]domain.DispatchEvent, error)
}

func (mock *routerMock) OnFragment(ctx context.Context, f domain.Fragment) ([]domain.DispatchEvent, error) {
	if mock.OnFragmentFunc == nil {
		panic("routerMock.OnFragmentFunc: method is nil but router.OnFragment was just called")
	}
	return mock.OnFragmentFunc(ctx, f)
}

type lifecycleMock struct {
	mu       sync.Mutex
	armed    []domain.AccountID
	detached []domain.AccountID
}

func (mock *lifecycleMock) Arm(account domain.AccountID) {
	mock.mu.Lock()
	mock.armed = append(mock.armed, account)
	mock.mu.Unlock()
}

func (mock *lifecycleMock) Detach(account domain.AccountID) {
	mock.mu.Lock()
	mock.detached = append(mock.detached, account)
	mock.mu.Unlock()
}

func (mock *lifecycleMock) ArmCalls() []domain.AccountID {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return append([]domain.AccountID(nil), mock.armed...)
}

func (mock *lifecycleMock) DetachCalls() []domain.AccountID {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return append([]domain.AccountID(nil), mock.detached...)
}

type auditRecorderMock struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (mock *auditRecorderMock) Record(ctx context.Context, entry domain.AuditEntry) {
	mock.mu.Lock()
	mock.entries = append(mock.entries, entry)
	mock.mu.Unlock()
}

func (mock *auditRecorderMock) Actions() []domain.AuditAction {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	out := make([]domain.AuditAction, len(mock.entries))
	for i, e := range mock.entries {
		out[i] = e.Action
	}
	return out
}

func (mock *auditRecorderMock) Entries() []domain.AuditEntry {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return append([]domain.AuditEntry(nil), mock.entries...)
}
