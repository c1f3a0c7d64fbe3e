package auth

import (
	"context"
	"sync"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

var _ accountRepo = &accountRepoMock{}

type accountRepoMock struct {
	GetByUsernameFunc func(ctx context.Context, username string) (domain.Account, error)

	calls struct {
		GetByUsername []struct {
			Ctx      context.Context
			Username string
		}
	}
	lockGetByUsername sync.RWMutex
}

func (mock *accountRepoMock) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	if mock.GetByUsernameFunc == nil {
		panic("accountRepoMock.GetByUsernameFunc: method is nil but accountRepo.GetByUsername was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Username string
	}{
		Ctx:      ctx,
		Username: username,
	}
	mock.lockGetByUsername.Lock()
	mock.calls.GetByUsername = append(mock.calls.GetByUsername, callInfo)
	mock.lockGetByUsername.Unlock()
	return mock.GetByUsernameFunc(ctx, username)
}

func (mock *accountRepoMock) GetByUsernameCalls() []struct {
	Ctx      context.Context
	Username string
} {
	mock.lockGetByUsername.RLock()
	calls := mock.calls.GetByUsername
	mock.lockGetByUsername.RUnlock()
	return calls
}

var _ auditRecorder = &auditRecorderMock{}

type auditRecorderMock struct {
	calls struct {
		Record []struct {
			Entry domain.AuditEntry
		}
	}
	lockRecord sync.RWMutex
}

func (mock *auditRecorderMock) Record(ctx context.Context, entry domain.AuditEntry) {
	mock.lockRecord.Lock()
	mock.calls.Record = append(mock.calls.Record, struct{ Entry domain.AuditEntry }{Entry: entry})
	mock.lockRecord.Unlock()
}

func (mock *auditRecorderMock) RecordCalls() []struct {
	Entry domain.AuditEntry
} {
	mock.lockRecord.RLock()
	calls := mock.calls.Record
	mock.lockRecord.RUnlock()
	return calls
}
