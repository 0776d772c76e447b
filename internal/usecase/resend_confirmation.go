package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/ligue-leads/internal/entity"
)

// Cooldown entre reenvios explícitos. Mais curto que o do submit porque
// quem pede reenvio já demonstrou conhecer o email cadastrado.
const ResendCooldown = 60 * time.Second

type ResendConfirmationUseCase struct {
	Repo       entity.LeadRepositoryInterface
	Mailer     ConfirmationMailer
	URLBuilder ConfirmURLBuilder
}

func NewResendConfirmationUseCase(
	repo entity.LeadRepositoryInterface,
	mailer ConfirmationMailer,
	urlBuilder ConfirmURLBuilder,
) *ResendConfirmationUseCase {
	return &ResendConfirmationUseCase{
		Repo:       repo,
		Mailer:     mailer,
		URLBuilder: urlBuilder,
	}
}

// Execute reemite o token de um lead não confirmado e reenvia o email.
// Ao contrário do submit, este caminho revela o cooldown restante: o 429
// carrega retry_after em segundos.
func (uc *ResendConfirmationUseCase) Execute(ctx context.Context, input ResendConfirmationInput) (*ResendConfirmationOutput, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || !IsValidEmail(email) {
		return nil, &DomainError{
			Code:    "INVALID_EMAIL",
			Message: "Invalid email",
		}
	}

	lead, err := uc.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			return nil, &DomainError{
				Code:    "NOT_FOUND",
				Message: "Lead not found",
			}
		}
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to look up lead: " + err.Error(),
		}
	}

	if lead.IsEmailConfirmed {
		return nil, &DomainError{
			Code:    "ALREADY_CONFIRMED",
			Message: "Already confirmed",
		}
	}

	if last := lead.LastSentAt(); !last.IsZero() {
		elapsed := time.Since(last)
		if elapsed < ResendCooldown {
			remaining := ResendCooldown - elapsed
			return nil, &RateLimitError{
				RetryAfter: int(math.Ceil(remaining.Seconds())),
			}
		}
	}

	now := time.Now()
	token, err := uc.reissueToken(ctx, lead.ID, now)
	if err != nil {
		return nil, err
	}

	confirmURL := uc.URLBuilder.Build(token, input.RedirectTo)
	if err := uc.Mailer.SendConfirmation(lead.Email, lead.Name, confirmURL); err != nil {
		return nil, &TechnicalError{
			Code:    "MAIL_ERROR",
			Message: "failed to send confirmation email: " + err.Error(),
		}
	}

	return &ResendConfirmationOutput{Success: true}, nil
}

func (uc *ResendConfirmationUseCase) reissueToken(ctx context.Context, leadID string, sentAt time.Time) (string, error) {
	for attempt := 0; attempt < maxTokenAttempts; attempt++ {
		token := uuid.New().String()
		err := uc.Repo.UpdateToken(ctx, leadID, token, sentAt)
		if err == nil {
			return token, nil
		}
		if errors.Is(err, entity.ErrDuplicateToken) {
			continue
		}
		return "", &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to update token: " + err.Error(),
		}
	}
	return "", &TechnicalError{
		Code:    "TOKEN_EXHAUSTED",
		Message: "failed to update token after retries",
	}
}
