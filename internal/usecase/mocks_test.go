package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByToken(ctx context.Context, token string) (*entity.Lead, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateSubmission(ctx context.Context, email, name, industry, token string, sentAt time.Time) error {
	args := m.Called(ctx, email, name, industry, token, sentAt)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateToken(ctx context.Context, id, token string, sentAt time.Time) error {
	args := m.Called(ctx, id, token, sentAt)
	return args.Error(0)
}

func (m *MockLeadRepository) Confirm(ctx context.Context, id string, confirmedAt time.Time) error {
	args := m.Called(ctx, id, confirmedAt)
	return args.Error(0)
}

// MockConfirmationMailer
type MockConfirmationMailer struct {
	mock.Mock
}

func (m *MockConfirmationMailer) SendConfirmation(to, name, confirmURL string) error {
	args := m.Called(to, name, confirmURL)
	return args.Error(0)
}

// MockLeadEventPublisher
type MockLeadEventPublisher struct {
	mock.Mock
}

func (m *MockLeadEventPublisher) PublishLeadEvent(ctx context.Context, payload queue.LeadEventPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
