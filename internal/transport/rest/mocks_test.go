package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/livecue-backend/internal/domain"
	"github.com/heartmarshall/livecue-backend/internal/service/activity"
	"github.com/heartmarshall/livecue-backend/internal/service/auth"
)

var (
	_ authService     = &authServiceMock{}
	_ configService   = &configServiceMock{}
	_ auditLister     = &auditListerMock{}
	_ activityService = &activityServiceMock{}
)

type authServiceMock struct {
	LoginFunc func(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error)

	mu    sync.Mutex
	calls []auth.LoginInput
}

func (mock *authServiceMock) Login(ctx context.Context, input auth.LoginInput) (*auth.LoginResult, error) {
	if mock.LoginFunc == nil {
		panic("authServiceMock.LoginFunc: method is nil but authService.Login was just called")
	}
	mock.mu.Lock()
	mock.calls = append(mock.calls, input)
	mock.mu.Unlock()
	return mock.LoginFunc(ctx, input)
}

type configServiceMock struct {
	GetFunc                func(ctx context.Context, account domain.AccountID) ([]domain.LinkConfig, domain.AlarmConfig, error)
	ReplaceLinksFunc       func(ctx context.Context, account domain.AccountID, links []domain.LinkConfig) error
	ReplaceAlarmConfigFunc func(ctx context.Context, account domain.AccountID, cfg domain.AlarmConfig) error
}

func (mock *configServiceMock) Get(ctx context.Context, account domain.AccountID) ([]domain.LinkConfig, domain.AlarmConfig, error) {
	if mock.GetFunc == nil {
		panic("configServiceMock.GetFunc: method is nil but configService.Get was just called")
	}
	return mock.GetFunc(ctx, account)
}

func (mock *configServiceMock) ReplaceLinks(ctx context.Context, account domain.AccountID, links []domain.LinkConfig) error {
	if mock.ReplaceLinksFunc == nil {
		panic("configServiceMock.ReplaceLinksFunc: method is nil but configService.ReplaceLinks was just called")
	}
	return mock.ReplaceLinksFunc(ctx, account, links)
}

func (mock *configServiceMock) ReplaceAlarmConfig(ctx context.Context, account domain.AccountID, cfg domain.AlarmConfig) error {
	if mock.ReplaceAlarmConfigFunc == nil {
		panic("configServiceMock.ReplaceAlarmConfigFunc: method is nil but configService.ReplaceAlarmConfig was just called")
	}
	return mock.ReplaceAlarmConfigFunc(ctx, account, cfg)
}

type auditListerMock struct {
	ListFunc func(ctx context.Context, account domain.AccountID, limit int) ([]domain.AuditEntry, error)
}

func (mock *auditListerMock) List(ctx context.Context, account domain.AccountID, limit int) ([]domain.AuditEntry, error) {
	if mock.ListFunc == nil {
		panic("auditListerMock.ListFunc: method is nil but auditLister.List was just called")
	}
	return mock.ListFunc(ctx, account, limit)
}

type activityServiceMock struct {
	HistoryFunc func(ctx context.Context, account domain.AccountID, limit int) ([]domain.ActivityEntry, error)
	StatsFunc   func(ctx context.Context, account domain.AccountID) (activity.Stats, error)
}

func (mock *activityServiceMock) History(ctx context.Context, account domain.AccountID, limit int) ([]domain.ActivityEntry, error) {
	if mock.HistoryFunc == nil {
		panic("activityServiceMock.HistoryFunc: method is nil but activityService.History was just called")
	}
	return mock.HistoryFunc(ctx, account, limit)
}

func (mock *activityServiceMock) Stats(ctx context.Context, account domain.AccountID) (activity.Stats, error) {
	if mock.StatsFunc == nil {
		panic("activityServiceMock.StatsFunc: method is nil but activityService.Stats was just called")
	}
	return mock.StatsFunc(ctx, account)
}

// tokenStub accepts "token-<id>" for accounts 1..9.
type tokenStub struct{}

func (tokenStub) ValidateToken(ctx context.Context, token string) (domain.AccountID, error) {
	if len(token) == 7 && token[:6] == "token-" && token[6] >= '1' && token[6] <= '9' {
		return domain.AccountID(token[6] - '0'), nil
	}
	return 0, domain.ErrUnauthorized
}
