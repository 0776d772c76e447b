package usecase

import (
	"net/url"
	"strings"
)

// ConfirmURLBuilder monta o link de confirmação enviado por email:
// <base>/confirm-lead?token=<token>&redirect=<url>
type ConfirmURLBuilder struct {
	BaseURL string
}

func (b ConfirmURLBuilder) Build(token, redirectTo string) string {
	params := url.Values{}
	params.Set("token", token)
	if redirectTo != "" {
		params.Set("redirect", redirectTo)
	}
	return strings.TrimRight(b.BaseURL, "/") + "/confirm-lead?" + params.Encode()
}
