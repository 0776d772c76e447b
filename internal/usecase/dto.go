package usecase

type SubmitLeadInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Industry   string `json:"industry"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

type SubmitLeadOutput struct {
	Success bool `json:"success"`
}

type ConfirmLeadInput struct {
	Token      string
	RedirectTo string
}

type ConfirmLeadOutput struct {
	RedirectTo string
}

type ResendConfirmationInput struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

type ResendConfirmationOutput struct {
	Success bool `json:"success"`
}
