package services

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"deal-hunter/config"
	"deal-hunter/utils"
)

// Emailer delivers the weekly digest over SMTP.
type Emailer struct {
	cfg    *config.Config
	logger *utils.Logger
}

func NewEmailer(cfg *config.Config, logger *utils.Logger) *Emailer {
	return &Emailer{cfg: cfg, logger: logger}
}

// SendDigest sends the HTML digest, attaching the Excel tracker when a path
// is given.
func (e *Emailer) SendDigest(subject, htmlBody, attachmentPath string) error {
	if e.cfg.SMTPHost == "" || e.cfg.DigestTo == "" {
		return fmt.Errorf("emailer: SMTP host and recipient must be configured")
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Deal Hunter <%s>", e.cfg.SMTPAddress)
	mail.To = []string{e.cfg.DigestTo}
	mail.Subject = subject
	mail.HTML = []byte(htmlBody)

	if attachmentPath != "" {
		if _, err := mail.AttachFile(attachmentPath); err != nil {
			return fmt.Errorf("emailer: attach %q: %w", attachmentPath, err)
		}
	}

	addr := fmt.Sprintf("%s:%d", e.cfg.SMTPHost, e.cfg.SMTPPort)
	auth := smtp.PlainAuth("", e.cfg.SMTPAddress, e.cfg.SMTPPassword, e.cfg.SMTPHost)
	if err := mail.Send(addr, auth); err != nil {
		return fmt.Errorf("emailer: send via %s: %w", addr, err)
	}

	e.logger.Info("[emailer] Digest sent to %s", e.cfg.DigestTo)
	return nil
}
