package httpapi

import (
	"context"
	"time"

	"poslink/internal/domain/models"
)

// MockConfigs - ServerConfigRepository с подменяемыми функциями
type MockConfigs struct {
	OnActive        func(ctx context.Context) (*models.ServerConfiguration, error)
	OnMarkConnected func(ctx context.Context, id int64, at time.Time) error
}

func (m *MockConfigs) Active(ctx context.Context) (*models.ServerConfiguration, error) {
	if m.OnActive != nil {
		return m.OnActive(ctx)
	}
	return nil, nil
}

func (m *MockConfigs) Save(context.Context, *models.ServerConfiguration) (int64, error) {
	return 0, nil
}

func (m *MockConfigs) Activate(context.Context, int64) error { return nil }

func (m *MockConfigs) List(context.Context) ([]*models.ServerConfiguration, error) {
	return nil, nil
}

func (m *MockConfigs) Delete(context.Context, int64) error { return nil }

func (m *MockConfigs) MarkConnected(ctx context.Context, id int64, at time.Time) error {
	if m.OnMarkConnected != nil {
		return m.OnMarkConnected(ctx, id, at)
	}
	return nil
}

// MockSessions хранит токен в памяти
type MockSessions struct {
	token   string
	OnToken func(ctx context.Context) (string, error)
}

func (m *MockSessions) Token(ctx context.Context) (string, error) {
	if m.OnToken != nil {
		return m.OnToken(ctx)
	}
	return m.token, nil
}

func (m *MockSessions) SetToken(_ context.Context, token string) error {
	m.token = token
	return nil
}

func (m *MockSessions) ClearToken(context.Context) error {
	m.token = ""
	return nil
}

func staticConfig(cfg *models.ServerConfiguration) *MockConfigs {
	return &MockConfigs{
		OnActive: func(context.Context) (*models.ServerConfiguration, error) {
			return cfg, nil
		},
	}
}
