package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/livecue-backend/internal/domain"
	"github.com/heartmarshall/livecue-backend/internal/service/configstore"
)

var (
	_ configSource    = &configSourceMock{}
	_ activityTracker = &activityTrackerMock{}
	_ sink            = &sinkMock{}
	_ journal         = &journalMock{}
)

type configSourceMock struct {
	SnapshotFunc func(ctx context.Context, account domain.AccountID) (*configstore.Snapshot, error)
}

func (mock *configSourceMock) Snapshot(ctx context.Context, account domain.AccountID) (*configstore.Snapshot, error) {
	if mock.SnapshotFunc == nil {
		panic("configSourceMock.SnapshotFunc: method is nil but configSource.Snapshot was just called")
	}
	return mock.SnapshotFunc(ctx, account)
}

type activityTrackerMock struct {
	calls struct {
		Touch []struct {
			Account domain.AccountID
			At      time.Time
		}
	}
	lockTouch sync.RWMutex
}

func (mock *activityTrackerMock) Touch(account domain.AccountID, at time.Time) {
	mock.lockTouch.Lock()
	mock.calls.Touch = append(mock.calls.Touch, struct {
		Account domain.AccountID
		At      time.Time
	}{Account: account, At: at})
	mock.lockTouch.Unlock()
}

func (mock *activityTrackerMock) TouchCalls() []struct {
	Account domain.AccountID
	At      time.Time
} {
	mock.lockTouch.RLock()
	calls := mock.calls.Touch
	mock.lockTouch.RUnlock()
	return calls
}

type sinkMock struct {
	calls struct {
		Send []struct {
			Account domain.AccountID
			Msg     domain.Outbound
		}
	}
	lockSend sync.RWMutex
}

func (mock *sinkMock) Send(account domain.AccountID, msg domain.Outbound) {
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, struct {
		Account domain.AccountID
		Msg     domain.Outbound
	}{Account: account, Msg: msg})
	mock.lockSend.Unlock()
}

func (mock *sinkMock) SendCalls() []struct {
	Account domain.AccountID
	Msg     domain.Outbound
} {
	mock.lockSend.RLock()
	calls := mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}

type journalMock struct {
	CreateFunc func(ctx context.Context, entry domain.ActivityEntry) (int64, error)

	calls struct {
		Create []struct{ Entry domain.ActivityEntry }
	}
	lockCreate sync.RWMutex
}

func (mock *journalMock) Create(ctx context.Context, entry domain.ActivityEntry) (int64, error) {
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ Entry domain.ActivityEntry }{Entry: entry})
	mock.lockCreate.Unlock()
	if mock.CreateFunc == nil {
		return 1, nil
	}
	return mock.CreateFunc(ctx, entry)
}

func (mock *journalMock) CreateCalls() []struct{ Entry domain.ActivityEntry } {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}
