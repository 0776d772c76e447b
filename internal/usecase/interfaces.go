package usecase

import (
	"context"

	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

type ConfirmationMailer interface {
	SendConfirmation(to, name, confirmURL string) error
}

type LeadEventPublisherInterface interface {
	PublishLeadEvent(ctx context.Context, payload queue.LeadEventPayload) error
}
