package contact

import (
	"fmt"
	"net/smtp"
)

// Mailer relays a contact form message to the site owner.
type Mailer interface {
	SendContactMessage(name, email, phone, message string) error
}

type smtpMailer struct {
	host      string
	port      string
	username  string
	password  string
	recipient string
}

var _ Mailer = (*smtpMailer)(nil)

func NewSMTPMailer(host, port, username, password, recipient string) Mailer {
	return &smtpMailer{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		recipient: recipient,
	}
}

func (m *smtpMailer) SendContactMessage(name, email, phone, message string) error {
	msg := fmt.Sprintf(
		"Subject:New Message\n\nName: %s\nEmail: %s\nPhone: %s\nMessage: %s",
		name, email, phone, message,
	)

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := m.host + ":" + m.port

	// smtp.SendMail upgrades the connection with STARTTLS when the
	// server offers it, which gmail does on 587
	if err := smtp.SendMail(addr, auth, m.username, []string{m.recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("send contact mail: %w", err)
	}
	return nil
}
