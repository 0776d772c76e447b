package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gopkg.in/gomail.v2"
)

var confirmationEmailsSent = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "confirmation_emails_sent_total",
		Help: "Total number of confirmation emails dispatched",
	},
)

func NewConfirmationSender(host string, port int, user, password, from string) *ConfirmationSender {
	return &ConfirmationSender{
		Host:         host,
		Port:         port,
		User:         user,
		Password:     password,
		From:         from,
		TemplatePath: filepath.Join("templates", "confirmation.html"),
	}
}

// SendConfirmation envia o email de confirmação com o link de opt-in.
// html/template escapa o nome do lead, que é input de usuário.
func (s *ConfirmationSender) SendConfirmation(to, name, confirmURL string) error {
	body, err := s.renderBody(name, confirmURL)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Please confirm your email")
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	confirmationEmailsSent.Inc()
	return nil
}

func (s *ConfirmationSender) renderBody(name, confirmURL string) (string, error) {
	data := ConfirmationEmailData{
		Name:       name,
		ConfirmURL: confirmURL,
	}

	t, err := template.ParseFiles(s.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("erro ao ler template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}

	return body.String(), nil
}
