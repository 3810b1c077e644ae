package digest

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/Dan9191/super-blog/internal/config"
	"github.com/Dan9191/super-blog/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendDigest mails a summary of the given posts to every recipient
func (s *Sender) SendDigest(to []string, posts []models.Post, now time.Time) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = to
	e.Subject = fmt.Sprintf("Super Blog digest for %s", now.Format("2006-01-02"))
	e.Text = []byte(digestBody(posts))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send digest to %s: %v", strings.Join(to, ", "), err)
		return fmt.Errorf("failed to send digest: %w", err)
	}

	s.logger.Infof("Digest sent to %d recipients: %d posts", len(to), len(posts))
	return nil
}

func digestBody(posts []models.Post) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello,\n\nThere are %d posts on Super Blog:\n\n", len(posts))
	for _, p := range posts {
		fmt.Fprintf(&b, "* %s by %s", p.Title, p.Author.Username)
		if t, ok := p.Posted(); ok {
			fmt.Fprintf(&b, " (%s)", t.Format("02 Jan 2006 15:04"))
		}
		b.WriteString("\n")
		if p.Content != "" {
			fmt.Fprintf(&b, "  %s\n", p.Content)
		}
	}
	b.WriteString("\nBest regards,\nSuper Blog")
	return b.String()
}
