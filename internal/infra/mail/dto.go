package mail

type ConfirmationEmailData struct {
	Name       string
	ConfirmURL string
}

type ConfirmationSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string

	// TemplatePath aponta para o corpo HTML do email. Sobrescrevível
	// em testes.
	TemplatePath string
}
