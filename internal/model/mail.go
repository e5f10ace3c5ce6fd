package model

import "context"

// Mail template identifiers. Rendering belongs to the sender
// implementation; the core only names the template and its context.
const (
	MailTemplateSignupOTP       = "signup"
	MailTemplateWelcome         = "welcome"
	MailTemplateForgotOTP       = "forgot-password"
	MailTemplatePasswordChanged = "password-changed"
	MailTemplateEmailChangeOTP  = "change-email"
	MailTemplateEmailChangedOld = "email-changed-old"
	MailTemplateEmailChangedNew = "email-changed-new"
	MailTemplateGoodbye         = "goodbye"
)

// MailSender delivers mail out-of-band. Delivery is best-effort: the
// core never fails a request because a mail could not be sent, and it
// never blocks on delivery.
type MailSender interface {
	Send(ctx context.Context, to string, subject string, template string, context map[string]string)
}
