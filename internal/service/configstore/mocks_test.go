package configstore

import (
	"context"
	"sync"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

var (
	_ accountRepo   = &accountRepoMock{}
	_ linkRepo      = &linkRepoMock{}
	_ alarmRepo     = &alarmRepoMock{}
	_ auditRecorder = &auditRecorderMock{}
	_ txManager     = &txManagerMock{}
)

type accountRepoMock struct {
	ExistsFunc func(ctx context.Context, id domain.AccountID) (bool, error)

	calls struct {
		Exists []struct{ ID domain.AccountID }
	}
	lockExists sync.RWMutex
}

func (mock *accountRepoMock) Exists(ctx context.Context, id domain.AccountID) (bool, error) {
	if mock.ExistsFunc == nil {
		panic("accountRepoMock.ExistsFunc: method is nil but accountRepo.Exists was just called")
	}
	mock.lockExists.Lock()
	mock.calls.Exists = append(mock.calls.Exists, struct{ ID domain.AccountID }{ID: id})
	mock.lockExists.Unlock()
	return mock.ExistsFunc(ctx, id)
}

func (mock *accountRepoMock) ExistsCalls() []struct{ ID domain.AccountID } {
	mock.lockExists.RLock()
	calls := mock.calls.Exists
	mock.lockExists.RUnlock()
	return calls
}

type linkRepoMock struct {
	ListFunc    func(ctx context.Context, account domain.AccountID) ([]domain.LinkConfig, error)
	ReplaceFunc func(ctx context.Context, account domain.AccountID, links []domain.LinkConfig) error

	calls struct {
		List    []struct{ Account domain.AccountID }
		Replace []struct {
			Account domain.AccountID
			Links   []domain.LinkConfig
		}
	}
	lockList    sync.RWMutex
	lockReplace sync.RWMutex
}

func (mock *linkRepoMock) List(ctx context.Context, account domain.AccountID) ([]domain.LinkConfig, error) {
	if mock.ListFunc == nil {
		panic("linkRepoMock.ListFunc: method is nil but linkRepo.List was just called")
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, struct{ Account domain.AccountID }{Account: account})
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, account)
}

func (mock *linkRepoMock) ListCalls() []struct{ Account domain.AccountID } {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *linkRepoMock) Replace(ctx context.Context, account domain.AccountID, links []domain.LinkConfig) error {
	if mock.ReplaceFunc == nil {
		panic("linkRepoMock.ReplaceFunc: method is nil but linkRepo.Replace was just called")
	}
	callInfo := struct {
		Account domain.AccountID
		Links   []domain.LinkConfig
	}{Account: account, Links: links}
	mock.lockReplace.Lock()
	mock.calls.Replace = append(mock.calls.Replace, callInfo)
	mock.lockReplace.Unlock()
	return mock.ReplaceFunc(ctx, account, links)
}

func (mock *linkRepoMock) ReplaceCalls() []struct {
	Account domain.AccountID
	Links   []domain.LinkConfig
} {
	mock.lockReplace.RLock()
	calls := mock.calls.Replace
	mock.lockReplace.RUnlock()
	return calls
}

type alarmRepoMock struct {
	GetFunc    func(ctx context.Context, account domain.AccountID) (domain.AlarmConfig, error)
	UpsertFunc func(ctx context.Context, account domain.AccountID, cfg domain.AlarmConfig) error

	calls struct {
		Upsert []struct {
			Account domain.AccountID
			Cfg     domain.AlarmConfig
		}
	}
	lockUpsert sync.RWMutex
}

func (mock *alarmRepoMock) Get(ctx context.Context, account domain.AccountID) (domain.AlarmConfig, error) {
	if mock.GetFunc == nil {
		panic("alarmRepoMock.GetFunc: method is nil but alarmRepo.Get was just called")
	}
	return mock.GetFunc(ctx, account)
}

func (mock *alarmRepoMock) Upsert(ctx context.Context, account domain.AccountID, cfg domain.AlarmConfig) error {
	if mock.UpsertFunc == nil {
		panic("alarmRepoMock.UpsertFunc: method is nil but alarmRepo.Upsert was just called")
	}
	callInfo := struct {
		Account domain.AccountID
		Cfg     domain.AlarmConfig
	}{Account: account, Cfg: cfg}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, account, cfg)
}

func (mock *alarmRepoMock) UpsertCalls() []struct {
	Account domain.AccountID
	Cfg     domain.AlarmConfig
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}

type auditRecorderMock struct {
	calls struct {
		Record []struct{ Entry domain.AuditEntry }
	}
	lockRecord sync.RWMutex
}

func (mock *auditRecorderMock) Record(ctx context.Context, entry domain.AuditEntry) {
	mock.lockRecord.Lock()
	mock.calls.Record = append(mock.calls.Record, struct{ Entry domain.AuditEntry }{Entry: entry})
	mock.lockRecord.Unlock()
}

func (mock *auditRecorderMock) RecordCalls() []struct{ Entry domain.AuditEntry } {
	mock.lockRecord.RLock()
	calls := mock.calls.Record
	mock.lockRecord.RUnlock()
	return calls
}

// txManagerMock runs fn inline, like a transaction that always commits.
type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
