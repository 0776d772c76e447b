package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Industries aceitas pelo formulário de captação.
var Industries = []string{
	"technology",
	"healthcare",
	"finance",
	"education",
	"retail",
	"manufacturing",
	"consulting",
	"other",
}

func IsValidIndustry(industry string) bool {
	for _, i := range Industries {
		if i == industry {
			return true
		}
	}
	return false
}

type Lead struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Industry string `json:"industry"`

	IsEmailConfirmed bool `json:"is_email_confirmed"`

	// ConfirmationToken vazio significa NULL no banco (lead já confirmado).
	ConfirmationToken      string     `json:"confirmation_token,omitempty"`
	ConfirmationSentAt     time.Time  `json:"confirmation_sent_at"`
	LastConfirmationSentAt time.Time  `json:"last_confirmation_sent_at"`
	ConfirmedAt            *time.Time `json:"confirmed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Factory
func NewLead(name, email, industry, token string) *Lead {
	now := time.Now()
	return &Lead{
		ID:                     uuid.New().String(),
		Name:                   name,
		Email:                  email,
		Industry:               industry,
		IsEmailConfirmed:       false,
		ConfirmationToken:      token,
		ConfirmationSentAt:     now,
		LastConfirmationSentAt: now,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// LastSentAt devolve o instante do último envio, caindo para o primeiro
// envio quando o campo ainda não foi atualizado.
func (l *Lead) LastSentAt() time.Time {
	if !l.LastConfirmationSentAt.IsZero() {
		return l.LastConfirmationSentAt
	}
	return l.ConfirmationSentAt
}

type LeadRepositoryInterface interface {
	FindByEmail(ctx context.Context, email string) (*Lead, error)
	FindByToken(ctx context.Context, token string) (*Lead, error)
	Insert(ctx context.Context, lead *Lead) error
	UpdateSubmission(ctx context.Context, email, name, industry, token string, sentAt time.Time) error
	UpdateToken(ctx context.Context, id, token string, sentAt time.Time) error
	Confirm(ctx context.Context, id string, confirmedAt time.Time) error
}
