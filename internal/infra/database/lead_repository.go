package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/xavierca1/ligue-leads/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	id, name, email, industry, is_email_confirmed,
	confirmation_token, confirmation_sent_at, last_confirmation_sent_at,
	confirmed_at, created_at, updated_at
`

func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE email = $1`
	return r.scanLead(r.DB.QueryRowContext(ctx, query, email))
}

func (r *LeadRepository) FindByToken(ctx context.Context, token string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE confirmation_token = $1`
	return r.scanLead(r.DB.QueryRowContext(ctx, query, token))
}

func (r *LeadRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			id, name, email, industry, is_email_confirmed,
			confirmation_token, confirmation_sent_at, last_confirmation_sent_at,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.DB.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Industry,
		lead.IsEmailConfirmed,
		nullString(lead.ConfirmationToken),
		lead.ConfirmationSentAt,
		lead.LastConfirmationSentAt,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return translateUniqueViolation(err)
	}

	return nil
}

// UpdateSubmission reaproveita o registro de um lead ainda não confirmado
// que submeteu o formulário de novo: atualiza nome/indústria e troca o token.
func (r *LeadRepository) UpdateSubmission(ctx context.Context, email, name, industry, token string, sentAt time.Time) error {
	query := `
		UPDATE leads
		SET name = $2, industry = $3, confirmation_token = $4,
		    last_confirmation_sent_at = $5, updated_at = NOW()
		WHERE email = $1
	`

	result, err := r.DB.ExecContext(ctx, query, email, name, industry, token, sentAt)
	if err != nil {
		return translateUniqueViolation(err)
	}

	return checkAffected(result)
}

func (r *LeadRepository) UpdateToken(ctx context.Context, id, token string, sentAt time.Time) error {
	query := `
		UPDATE leads
		SET confirmation_token = $2, last_confirmation_sent_at = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.DB.ExecContext(ctx, query, id, token, sentAt)
	if err != nil {
		return translateUniqueViolation(err)
	}

	return checkAffected(result)
}

// Confirm vira a flag, grava confirmed_at e limpa o token numa única
// escrita. Token limpo significa que o mesmo link nunca confirma duas vezes.
func (r *LeadRepository) Confirm(ctx context.Context, id string, confirmedAt time.Time) error {
	query := `
		UPDATE leads
		SET is_email_confirmed = TRUE, confirmed_at = $2,
		    confirmation_token = NULL, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.DB.ExecContext(ctx, query, id, confirmedAt)
	if err != nil {
		return err
	}

	return checkAffected(result)
}

func (r *LeadRepository) scanLead(row *sql.Row) (*entity.Lead, error) {
	var lead entity.Lead
	var token sql.NullString
	var confirmationSentAt, lastConfirmationSentAt, confirmedAt sql.NullTime

	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Industry,
		&lead.IsEmailConfirmed,
		&token,
		&confirmationSentAt,
		&lastConfirmationSentAt,
		&confirmedAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}

	lead.ConfirmationToken = token.String
	if confirmationSentAt.Valid {
		lead.ConfirmationSentAt = confirmationSentAt.Time
	}
	if lastConfirmationSentAt.Valid {
		lead.LastConfirmationSentAt = lastConfirmationSentAt.Time
	}
	if confirmedAt.Valid {
		t := confirmedAt.Time
		lead.ConfirmedAt = &t
	}

	return &lead, nil
}

// translateUniqueViolation mapeia o 23505 do Postgres para erros tipados
// por constraint, para o caller distinguir colisão de token (retentável)
// de corrida no email (não retentável).
func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "leads_email_key":
			return entity.ErrDuplicateEmail
		case "leads_confirmation_token_key":
			return entity.ErrDuplicateToken
		}
	}
	return err
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
