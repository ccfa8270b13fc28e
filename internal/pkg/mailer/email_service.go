package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendReportReady(toEmail, caseName string) error
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

// SendReportReady notifies the advisor that a case has reached the report
// stage with all workflow steps confirmed complete.
func (s *emailService) SendReportReady(toEmail, caseName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Report ready: %s", caseName))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your case report is ready</h2>
			<p>All workflow steps for <strong>%s</strong> are complete.</p>
			<p>Open the case to review and deliver the report.</p>
		</div>
	`, caseName)

	m.SetBody("text/html", body)

	return s.dialer.DialAndSend(m)
}
