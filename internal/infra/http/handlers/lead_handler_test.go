package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// MockLeadRepositoryHandler
type MockLeadRepositoryHandler struct {
	mock.Mock
}

func (m *MockLeadRepositoryHandler) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepositoryHandler) FindByToken(ctx context.Context, token string) (*entity.Lead, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepositoryHandler) Insert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepositoryHandler) UpdateSubmission(ctx context.Context, email, name, industry, token string, sentAt time.Time) error {
	args := m.Called(ctx, email, name, industry, token, sentAt)
	return args.Error(0)
}

func (m *MockLeadRepositoryHandler) UpdateToken(ctx context.Context, id, token string, sentAt time.Time) error {
	args := m.Called(ctx, id, token, sentAt)
	return args.Error(0)
}

func (m *MockLeadRepositoryHandler) Confirm(ctx context.Context, id string, confirmedAt time.Time) error {
	args := m.Called(ctx, id, confirmedAt)
	return args.Error(0)
}

// MockMailerHandler
type MockMailerHandler struct {
	mock.Mock
}

func (m *MockMailerHandler) SendConfirmation(to, name, confirmURL string) error {
	args := m.Called(to, name, confirmURL)
	return args.Error(0)
}

func newLeadHandler(repo *MockLeadRepositoryHandler, mailer *MockMailerHandler) *handlers.LeadHandler {
	urlBuilder := usecase.ConfirmURLBuilder{BaseURL: "https://api.example.com"}
	return handlers.NewLeadHandler(
		usecase.NewSubmitLeadUseCase(repo, mailer, nil, urlBuilder),
		usecase.NewConfirmLeadUseCase(repo, nil, "https://site.example.com/lead-confirmed"),
		usecase.NewResendConfirmationUseCase(repo, mailer, urlBuilder),
	)
}

// ============ /submit-lead ============

func TestSubmitHandlerUnsupportedContentType(t *testing.T) {
	handler := newLeadHandler(new(MockLeadRepositoryHandler), new(MockMailerHandler))

	req := httptest.NewRequest("POST", "/submit-lead", bytes.NewReader([]byte("name=Ann")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	handler.Submit(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	var errResponse map[string]string
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, "UNSUPPORTED_CONTENT_TYPE", errResponse["error"])
}

func TestSubmitHandlerInvalidJSON(t *testing.T) {
	handler := newLeadHandler(new(MockLeadRepositoryHandler), new(MockMailerHandler))

	req := httptest.NewRequest("POST", "/submit-lead", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Submit(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResponse map[string]string
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, "INVALID_JSON", errResponse["error"])
}

func TestSubmitHandlerSuccess(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockMailer := new(MockMailerHandler)

	mockRepo.On("FindByEmail", mock.Anything, "ann@example.com").Return(nil, entity.ErrLeadNotFound)
	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)
	mockMailer.On("SendConfirmation", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	handler := newLeadHandler(mockRepo, mockMailer)

	body, _ := json.Marshal(usecase.SubmitLeadInput{
		Name:     "Ann",
		Email:    "Ann@Example.com",
		Industry: "finance",
	})
	req := httptest.NewRequest("POST", "/submit-lead", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Submit(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response usecase.SubmitLeadOutput
	json.NewDecoder(w.Body).Decode(&response)
	assert.True(t, response.Success)
}

func TestSubmitHandlerValidationError(t *testing.T) {
	handler := newLeadHandler(new(MockLeadRepositoryHandler), new(MockMailerHandler))

	body, _ := json.Marshal(usecase.SubmitLeadInput{
		Name:     "Ann",
		Email:    "not-an-email",
		Industry: "finance",
	})
	req := httptest.NewRequest("POST", "/submit-lead", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Submit(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResponse map[string]string
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, "VALIDATION_ERROR", errResponse["error"])
}

func TestSubmitHandlerInternalError(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockMailer := new(MockMailerHandler)

	mockRepo.On("FindByEmail", mock.Anything, "ann@example.com").Return(nil, entity.ErrLeadNotFound)
	mockRepo.On("Insert", mock.Anything, mock.Anything).Return(entity.ErrDuplicateEmail)

	handler := newLeadHandler(mockRepo, mockMailer)

	body, _ := json.Marshal(usecase.SubmitLeadInput{
		Name:     "Ann",
		Email:    "ann@example.com",
		Industry: "finance",
	})
	req := httptest.NewRequest("POST", "/submit-lead", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Submit(w, req)

	// A corrida de email vira falha genérica, sem detalhe de estado
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var errResponse map[string]string
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, "INTERNAL_ERROR", errResponse["error"])
}

// ============ /confirm-lead ============

func TestConfirmHandlerMissingToken(t *testing.T) {
	handler := newLeadHandler(new(MockLeadRepositoryHandler), new(MockMailerHandler))

	req := httptest.NewRequest("GET", "/confirm-lead", nil)
	w := httptest.NewRecorder()

	handler.Confirm(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing token")
}

func TestConfirmHandlerUnknownToken(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("FindByToken", mock.Anything, "nope").Return(nil, entity.ErrLeadNotFound)

	handler := newLeadHandler(mockRepo, new(MockMailerHandler))

	req := httptest.NewRequest("GET", "/confirm-lead?token=nope", nil)
	w := httptest.NewRecorder()

	handler.Confirm(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestConfirmHandlerRedirects(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("FindByToken", mock.Anything, "tok-123").Return(&entity.Lead{
		ID:                "lead-1",
		ConfirmationToken: "tok-123",
	}, nil)
	mockRepo.On("Confirm", mock.Anything, "lead-1", mock.Anything).Return(nil)

	handler := newLeadHandler(mockRepo, new(MockMailerHandler))

	req := httptest.NewRequest("GET", "/confirm-lead?token=tok-123", nil)
	w := httptest.NewRecorder()

	handler.Confirm(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://site.example.com/lead-confirmed", w.Header().Get("Location"))
}

func TestConfirmHandlerAcceptsShortTokenParam(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("FindByToken", mock.Anything, "tok-123").Return(&entity.Lead{
		ID:                "lead-1",
		ConfirmationToken: "tok-123",
	}, nil)
	mockRepo.On("Confirm", mock.Anything, "lead-1", mock.Anything).Return(nil)

	handler := newLeadHandler(mockRepo, new(MockMailerHandler))

	// Alias curto ?t= também é aceito
	req := httptest.NewRequest("GET", "/confirm-lead?t=tok-123", nil)
	w := httptest.NewRecorder()

	handler.Confirm(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
}

func TestConfirmHandlerCallerRedirect(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("FindByToken", mock.Anything, "tok-123").Return(&entity.Lead{
		ID:                "lead-1",
		ConfirmationToken: "tok-123",
	}, nil)
	mockRepo.On("Confirm", mock.Anything, "lead-1", mock.Anything).Return(nil)

	handler := newLeadHandler(mockRepo, new(MockMailerHandler))

	req := httptest.NewRequest("GET", "/confirm-lead?token=tok-123&redirect=https%3A%2F%2Foutra.example.com%2Fok", nil)
	w := httptest.NewRecorder()

	handler.Confirm(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://outra.example.com/ok", w.Header().Get("Location"))
}

// ============ /resend-lead-confirmation ============

func TestResendHandlerNotFound(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, entity.ErrLeadNotFound)

	handler := newLeadHandler(mockRepo, new(MockMailerHandler))

	body, _ := json.Marshal(usecase.ResendConfirmationInput{Email: "ghost@example.com"})
	req := httptest.NewRequest("POST", "/resend-lead-confirmation", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Resend(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var errResponse map[string]string
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, "NOT_FOUND", errResponse["error"])
}

func TestResendHandlerAlreadyConfirmed(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	confirmedAt := time.Now().Add(-time.Hour)
	mockRepo.On("FindByEmail", mock.Anything, "ann@example.com").Return(&entity.Lead{
		ID:               "lead-1",
		Email:            "ann@example.com",
		IsEmailConfirmed: true,
		ConfirmedAt:      &confirmedAt,
	}, nil)

	handler := newLeadHandler(mockRepo, new(MockMailerHandler))

	body, _ := json.Marshal(usecase.ResendConfirmationInput{Email: "ann@example.com"})
	req := httptest.NewRequest("POST", "/resend-lead-confirmation", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Resend(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResponse map[string]string
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, "ALREADY_CONFIRMED", errResponse["error"])
}

func TestResendHandlerCooldownDisclosesRetryAfter(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("FindByEmail", mock.Anything, "ann@example.com").Return(&entity.Lead{
		ID:                     "lead-1",
		Email:                  "ann@example.com",
		ConfirmationToken:      "old-token",
		LastConfirmationSentAt: time.Now().Add(-10 * time.Second),
	}, nil)

	handler := newLeadHandler(mockRepo, new(MockMailerHandler))

	body, _ := json.Marshal(usecase.ResendConfirmationInput{Email: "ann@example.com"})
	req := httptest.NewRequest("POST", "/resend-lead-confirmation", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Resend(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var response map[string]any
	json.NewDecoder(w.Body).Decode(&response)
	retryAfter, ok := response["retry_after"].(float64)
	assert.True(t, ok)
	assert.Greater(t, retryAfter, float64(0))
}

func TestResendHandlerSuccess(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockMailer := new(MockMailerHandler)

	mockRepo.On("FindByEmail", mock.Anything, "ann@example.com").Return(&entity.Lead{
		ID:                     "lead-1",
		Name:                   "Ann",
		Email:                  "ann@example.com",
		ConfirmationToken:      "old-token",
		LastConfirmationSentAt: time.Now().Add(-5 * time.Minute),
	}, nil)
	mockRepo.On("UpdateToken", mock.Anything, "lead-1", mock.Anything, mock.Anything).Return(nil)
	mockMailer.On("SendConfirmation", "ann@example.com", "Ann", mock.Anything).Return(nil)

	handler := newLeadHandler(mockRepo, mockMailer)

	body, _ := json.Marshal(usecase.ResendConfirmationInput{Email: "ann@example.com"})
	req := httptest.NewRequest("POST", "/resend-lead-confirmation", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Resend(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response usecase.ResendConfirmationOutput
	json.NewDecoder(w.Body).Decode(&response)
	assert.True(t, response.Success)
	mockMailer.AssertNumberOfCalls(t, "SendConfirmation", 1)
}

func TestResendHandlerInvalidEmail(t *testing.T) {
	handler := newLeadHandler(new(MockLeadRepositoryHandler), new(MockMailerHandler))

	body, _ := json.Marshal(usecase.ResendConfirmationInput{Email: "not-an-email"})
	req := httptest.NewRequest("POST", "/resend-lead-confirmation", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Resend(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResponse map[string]string
	json.NewDecoder(w.Body).Decode(&errResponse)
	assert.Equal(t, "INVALID_EMAIL", errResponse["error"])
}
