package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
)

const (
	// Cooldown aplicado em reenvios implícitos via novo submit.
	SubmitCooldown = 2 * time.Minute

	// Colisão de token é raríssima (espaço UUID); 5 tentativas bastam.
	maxTokenAttempts = 5
)

type SubmitLeadUseCase struct {
	Repo       entity.LeadRepositoryInterface
	Mailer     ConfirmationMailer
	Events     LeadEventPublisherInterface
	URLBuilder ConfirmURLBuilder
}

func NewSubmitLeadUseCase(
	repo entity.LeadRepositoryInterface,
	mailer ConfirmationMailer,
	events LeadEventPublisherInterface,
	urlBuilder ConfirmURLBuilder,
) *SubmitLeadUseCase {
	return &SubmitLeadUseCase{
		Repo:       repo,
		Mailer:     mailer,
		Events:     events,
		URLBuilder: urlBuilder,
	}
}

// Execute cadastra ou atualiza um lead pelo email normalizado e dispara o
// email de confirmação. A resposta é sempre um sucesso genérico nos casos
// "já confirmado" e "dentro do cooldown" para não revelar estado da base.
func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*SubmitLeadOutput, error) {
	validationErrors := ValidateSubmitLeadInput(input)
	if len(validationErrors) > 0 {
		return nil, validationDomainError(validationErrors)
	}

	name := strings.TrimSpace(input.Name)
	email := NormalizeEmail(input.Email)
	industry := strings.ToLower(strings.TrimSpace(input.Industry))

	existing, err := uc.Repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, entity.ErrLeadNotFound) {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to look up lead: " + err.Error(),
		}
	}

	if existing == nil {
		lead, err := uc.insertNewLead(ctx, name, email, industry)
		if err != nil {
			return nil, err
		}

		if err := uc.sendConfirmation(lead, input.RedirectTo); err != nil {
			return nil, err
		}
		uc.publishEvent(ctx, queue.EventLeadCreated, lead)

		return &SubmitLeadOutput{Success: true}, nil
	}

	if existing.IsEmailConfirmed {
		// Já confirmado: não reenvia, não atualiza, responde genérico.
		return &SubmitLeadOutput{Success: true}, nil
	}

	if time.Since(existing.LastSentAt()) < SubmitCooldown {
		// Dentro do cooldown o registro fica intocado e nada é enviado,
		// mas o caller ainda recebe sucesso (anti-enumeração).
		return &SubmitLeadOutput{Success: true}, nil
	}

	lead, err := uc.updateExistingLead(ctx, existing, name, email, industry)
	if err != nil {
		return nil, err
	}

	if err := uc.sendConfirmation(lead, input.RedirectTo); err != nil {
		return nil, err
	}

	return &SubmitLeadOutput{Success: true}, nil
}

func (uc *SubmitLeadUseCase) insertNewLead(ctx context.Context, name, email, industry string) (*entity.Lead, error) {
	lead := entity.NewLead(name, email, industry, uuid.New().String())

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		err := uc.Repo.Insert(ctx, lead)
		if err == nil {
			return lead, nil
		}
		if errors.Is(err, entity.ErrDuplicateToken) {
			lead.ConfirmationToken = uuid.New().String()
			continue
		}
		if errors.Is(err, entity.ErrDuplicateEmail) {
			// Corrida entre dois primeiros submits do mesmo email: o
			// primeiro escritor vence e o perdedor recebe falha genérica.
			return nil, &TechnicalError{
				Code:    "EMAIL_CONFLICT",
				Message: "concurrent submission for the same email",
			}
		}
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to insert lead: " + err.Error(),
		}
	}

	return nil, &TechnicalError{
		Code:    "TOKEN_EXHAUSTED",
		Message: "failed to insert lead after retries",
	}
}

func (uc *SubmitLeadUseCase) updateExistingLead(ctx context.Context, existing *entity.Lead, name, email, industry string) (*entity.Lead, error) {
	now := time.Now()

	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token := uuid.New().String()
		err := uc.Repo.UpdateSubmission(ctx, email, name, industry, token, now)
		if err == nil {
			existing.Name = name
			existing.Industry = industry
			existing.ConfirmationToken = token
			existing.LastConfirmationSentAt = now
			return existing, nil
		}
		if errors.Is(err, entity.ErrDuplicateToken) {
			continue
		}
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to update lead: " + err.Error(),
		}
	}

	return nil, &TechnicalError{
		Code:    "TOKEN_EXHAUSTED",
		Message: "failed to update lead after retries",
	}
}

// sendConfirmation dispara o email de forma síncrona. Uma falha dura do
// mailer vira erro técnico mesmo com a escrita já commitada; o lead fica
// recuperável via resend.
func (uc *SubmitLeadUseCase) sendConfirmation(lead *entity.Lead, redirectTo string) error {
	confirmURL := uc.URLBuilder.Build(lead.ConfirmationToken, redirectTo)
	if err := uc.Mailer.SendConfirmation(lead.Email, lead.Name, confirmURL); err != nil {
		return &TechnicalError{
			Code:    "MAIL_ERROR",
			Message: "failed to send confirmation email: " + err.Error(),
		}
	}
	return nil
}

// publishEvent é best effort: falha de broker não derruba o cadastro.
func (uc *SubmitLeadUseCase) publishEvent(ctx context.Context, event string, lead *entity.Lead) {
	if uc.Events == nil {
		return
	}
	payload := queue.LeadEventPayload{
		Event:      event,
		LeadID:     lead.ID,
		Email:      lead.Email,
		Name:       lead.Name,
		Industry:   lead.Industry,
		OccurredAt: time.Now(),
	}
	if err := uc.Events.PublishLeadEvent(ctx, payload); err != nil {
		log.Printf("failed to publish %s event for lead %s: %v", event, lead.ID, err)
	}
}
