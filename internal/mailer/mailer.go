package mailer

import (
	"fmt"

	"github.com/ecommerce-project/backend/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer is the outbound-mail collaborator. Registration depends on it
// synchronously: a dispatch failure surfaces to the caller as a
// notification error, the created user is kept.
type Mailer interface {
	Send(to, subject, body string) error
	SendActivationEmail(to, username, activationLink string) error
}

type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

func New(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(m.host, m.port, m.user, m.password)

	return d.DialAndSend(msg)
}

func (m *SMTPMailer) SendActivationEmail(to, username, activationLink string) error {
	body := fmt.Sprintf(
		`<p>Hola %s,</p>
<p>Gracias por registrarte. Haz clic en el siguiente enlace para activar tu cuenta:</p>
<p><a href="%s">%s</a></p>
<p>Si no creaste esta cuenta, ignora este correo.</p>`,
		username, activationLink, activationLink,
	)

	return m.Send(to, "Activa tu cuenta de usuario", body)
}
