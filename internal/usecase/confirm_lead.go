package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

type ConfirmLeadUseCase struct {
	Repo   entity.LeadRepositoryInterface
	Events LeadEventPublisherInterface

	// DefaultRedirect é a landing page usada quando o link não traz
	// um destino próprio.
	DefaultRedirect string
}

func NewConfirmLeadUseCase(repo entity.LeadRepositoryInterface, events LeadEventPublisherInterface, defaultRedirect string) *ConfirmLeadUseCase {
	return &ConfirmLeadUseCase{
		Repo:            repo,
		Events:          events,
		DefaultRedirect: defaultRedirect,
	}
}

// Execute resolve o token do link de confirmação e marca o lead como
// confirmado em uma única escrita, limpando o token para impedir replay.
// Visitas repetidas com um lead já confirmado são no-op idempotente.
func (uc *ConfirmLeadUseCase) Execute(ctx context.Context, input ConfirmLeadInput) (*ConfirmLeadOutput, error) {
	token := strings.TrimSpace(input.Token)
	if token == "" {
		return nil, &DomainError{
			Code:    "MISSING_TOKEN",
			Message: "Missing token",
		}
	}

	lead, err := uc.Repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			// Tokens são limpos após a confirmação, então um link
			// reutilizado cai naturalmente aqui.
			return nil, &DomainError{
				Code:    "INVALID_TOKEN",
				Message: "Invalid or expired token",
			}
		}
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to look up token: " + err.Error(),
		}
	}

	if !lead.IsEmailConfirmed {
		now := time.Now()
		if err := uc.Repo.Confirm(ctx, lead.ID, now); err != nil {
			return nil, &TechnicalError{
				Code:    "DATABASE_ERROR",
				Message: "failed to confirm lead: " + err.Error(),
			}
		}
		lead.IsEmailConfirmed = true
		lead.ConfirmedAt = &now
		lead.ConfirmationToken = ""

		uc.publishConfirmed(ctx, lead)
	}

	redirectTo := input.RedirectTo
	if redirectTo == "" {
		redirectTo = uc.DefaultRedirect
	}

	return &ConfirmLeadOutput{RedirectTo: redirectTo}, nil
}

func (uc *ConfirmLeadUseCase) publishConfirmed(ctx context.Context, lead *entity.Lead) {
	if uc.Events == nil {
		return
	}
	payload := queue.LeadEventPayload{
		Event:      queue.EventLeadConfirmed,
		LeadID:     lead.ID,
		Email:      lead.Email,
		Name:       lead.Name,
		Industry:   lead.Industry,
		OccurredAt: time.Now(),
	}
	if err := uc.Events.PublishLeadEvent(ctx, payload); err != nil {
		log.Printf("failed to publish %s event for lead %s: %v", queue.EventLeadConfirmed, lead.ID, err)
	}
}
