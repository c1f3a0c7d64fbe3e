package watchdog

import (
	"context"
	"sync"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

var (
	_ configSource = &configSourceMock{}
	_ sink         = &sinkMock{}
	_ mailer       = &mailerMock{}
)

type configSourceMock struct {
	// VerifyFunc is optional; nil treats every account as existing.
	VerifyFunc func(ctx context.Context, account domain.AccountID) error
	AlarmFunc  func(ctx context.Context, account domain.AccountID) (domain.AlarmConfig, error)

	calls struct {
		Verify []struct{ Account domain.AccountID }
		Alarm  []struct{ Account domain.AccountID }
	}
	lockVerify sync.RWMutex
	lockAlarm  sync.RWMutex
}

func (mock *configSourceMock) Verify(ctx context.Context, account domain.AccountID) error {
	mock.lockVerify.Lock()
	mock.calls.Verify = append(mock.calls.Verify, struct{ Account domain.AccountID }{Account: account})
	mock.lockVerify.Unlock()
	if mock.VerifyFunc == nil {
		return nil
	}
	return mock.VerifyFunc(ctx, account)
}

func (mock *configSourceMock) VerifyCalls() []struct{ Account domain.AccountID } {
	mock.lockVerify.RLock()
	calls := mock.calls.Verify
	mock.lockVerify.RUnlock()
	return calls
}

func (mock *configSourceMock) Alarm(ctx context.Context, account domain.AccountID) (domain.AlarmConfig, error) {
	if mock.AlarmFunc == nil {
		panic("configSourceMock.AlarmFunc: method is nil but configSource.Alarm was just called")
	}
	mock.lockAlarm.Lock()
	mock.calls.Alarm = append(mock.calls.Alarm, struct{ Account domain.AccountID }{Account: account})
	mock.lockAlarm.Unlock()
	return mock.AlarmFunc(ctx, account)
}

func (mock *configSourceMock) AlarmCalls() []struct{ Account domain.AccountID } {
	mock.lockAlarm.RLock()
	calls := mock.calls.Alarm
	mock.lockAlarm.RUnlock()
	return calls
}

type sinkMock struct {
	mu   sync.Mutex
	msgs []domain.Outbound
}

func (mock *sinkMock) Send(account domain.AccountID, msg domain.Outbound) {
	mock.mu.Lock()
	mock.msgs = append(mock.msgs, msg)
	mock.mu.Unlock()
}

func (mock *sinkMock) alarms() []bool {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	var out []bool
	for _, m := range mock.msgs {
		if m.Alarm != nil {
			out = append(out, m.Alarm.Triggered)
		}
	}
	return out
}

func (mock *sinkMock) lines(level domain.LogLevel) []string {
	mock.mu.Lock()
	defer mock.mu.Unlock()

	var out []string
	for _, m := range mock.msgs {
		if m.Log != nil && m.Log.Level == level {
			out = append(out, m.Log.Message)
		}
	}
	return out
}

type mailerMock struct {
	SendFunc func(ctx context.Context, to, subject, body string) error

	calls struct {
		Send []struct {
			To      string
			Subject string
			Body    string
		}
	}
	lockSend sync.RWMutex
}

func (mock *mailerMock) Send(ctx context.Context, to, subject, body string) error {
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, struct {
		To      string
		Subject string
		Body    string
	}{To: to, Subject: subject, Body: body})
	mock.lockSend.Unlock()
	if mock.SendFunc == nil {
		return nil
	}
	return mock.SendFunc(ctx, to, subject, body)
}

func (mock *mailerMock) SendCalls() []struct {
	To      string
	Subject string
	Body    string
} {
	mock.lockSend.RLock()
	calls := mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}
