package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"github.com/priorly/priorly-server/internal/logger"
	"github.com/priorly/priorly-server/internal/model"
)

var _ model.MailSender = (*SMTPSender)(nil)

// SMTPSender delivers mail over plain SMTP. Delivery runs in a
// goroutine and failures are logged, never returned: the auth flows
// must not fail or stall because the mail transport is down.
type SMTPSender struct {
	addr      string
	auth      smtp.Auth
	from      string
	clientURI string
	logger    *logger.Logger
}

func NewSMTPSender(host, port, username, password, from, clientURI string, logger *logger.Logger) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPSender{
		addr:      fmt.Sprintf("%s:%s", host, port),
		auth:      auth,
		from:      from,
		clientURI: clientURI,
		logger:    logger,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to string, subject string, template string, context map[string]string) {
	msg := s.compose(to, subject, template, context)

	go func() {
		if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, msg); err != nil {
			s.logger.Error("failed to send mail",
				"to", to,
				"template", template,
				"error", err.Error())
			return
		}
		s.logger.Info("mail sent",
			"to", to,
			"template", template)
	}()
}

// compose renders a minimal plain-text body. Proper template rendering
// lives with whoever owns the mail content, not here.
func (s *SMTPSender) compose(to, subject, template string, context map[string]string) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", s.from)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("\r\n")
	fmt.Fprintf(&sb, "[%s]\r\n", template)

	keys := make([]string, 0, len(context))
	for k := range context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s: %s\r\n", k, context[k])
	}
	if s.clientURI != "" {
		fmt.Fprintf(&sb, "\r\n%s\r\n", s.clientURI)
	}

	return []byte(sb.String())
}

// NoopSender drops every mail. Used in tests and local setups without
// an SMTP endpoint.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, to string, subject string, template string, context map[string]string) {
}
