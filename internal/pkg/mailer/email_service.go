package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendCollaboratorInvite(toEmail, inviterName, notebookTitle, role string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendCollaboratorInvite(toEmail, inviterName, notebookTitle, role string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("%s shared a notebook with you", inviterName))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>You have been added to a notebook</h2>
			<p><strong>%s</strong> gave you <strong>%s</strong> access to the notebook <strong>%s</strong>.</p>
			<p>Sign in to start collaborating.</p>
		</div>
	`, inviterName, role, notebookTitle)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send invite to %s: %w", toEmail, err)
	}

	return nil
}
