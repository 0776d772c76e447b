package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

type LeadHandler struct {
	SubmitUC  *usecase.SubmitLeadUseCase
	ConfirmUC *usecase.ConfirmLeadUseCase
	ResendUC  *usecase.ResendConfirmationUseCase
}

func NewLeadHandler(
	submitUC *usecase.SubmitLeadUseCase,
	confirmUC *usecase.ConfirmLeadUseCase,
	resendUC *usecase.ResendConfirmationUseCase,
) *LeadHandler {
	return &LeadHandler{
		SubmitUC:  submitUC,
		ConfirmUC: confirmUC,
		ResendUC:  resendUC,
	}
}

// Submit (POST /submit-lead)
func (h *LeadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	contentType := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "application/json") {
		writeErrorResponse(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_CONTENT_TYPE", "Unsupported content type")
		return
	}

	var input usecase.SubmitLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	output, err := h.SubmitUC.Execute(r.Context(), input)
	if err != nil {
		middleware.RecordLeadSubmitted("error")
		h.writeUseCaseError(w, err)
		return
	}

	middleware.RecordLeadSubmitted("accepted")
	writeJSON(w, http.StatusOK, output)
}

// Confirm (GET /confirm-lead) é um endpoint de navegação: sucesso é um
// redirect 302, erros são texto puro para o browser.
func (h *LeadHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = r.URL.Query().Get("t")
	}

	input := usecase.ConfirmLeadInput{
		Token:      token,
		RedirectTo: r.URL.Query().Get("redirect"),
	}

	output, err := h.ConfirmUC.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsDomainError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("confirm-lead failed: %v", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	middleware.RecordLeadConfirmed()
	http.Redirect(w, r, output.RedirectTo, http.StatusFound)
}

// Resend (POST /resend-lead-confirmation)
func (h *LeadHandler) Resend(w http.ResponseWriter, r *http.Request) {
	var input usecase.ResendConfirmationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	output, err := h.ResendUC.Execute(r.Context(), input)
	if err != nil {
		h.writeUseCaseError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (h *LeadHandler) writeUseCaseError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *usecase.RateLimitError:
		// Único caminho que revela cooldown: o caller já provou conhecer
		// o email cadastrado.
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":       "TOO_MANY_REQUESTS",
			"message":     "Too many requests",
			"retry_after": e.RetryAfter,
		})
	case *usecase.DomainError:
		status := http.StatusBadRequest
		if e.Code == "NOT_FOUND" {
			status = http.StatusNotFound
		}
		writeErrorResponse(w, status, e.Code, e.Message)
	default:
		log.Printf("lead handler internal error: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
