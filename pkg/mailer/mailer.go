package mailer

import (
	"errors"
	"strings"

	"banquet-backoffice/pkg/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var Module = fx.Module("mailer", fx.Provide(New))

var (
	ErrNotConfigured    = errors.New("smtp channel not configured")
	ErrTemplateNotFound = errors.New("email template not found")
)

// Mailer renders named templates and delivers them over SMTP. Delivery is
// always best-effort: callers treat any error here as advisory.
type Mailer interface {
	Configured() bool
	Send(to, template string, vars map[string]string) error
}

type smtpMailer struct {
	cfg       *config.Config
	dialer    *gomail.Dialer
	templates map[string]Template
}

// Template is a named subject/html/text triple with {{variable}}
// placeholders.
type Template struct {
	Subject string
	HTML    string
	Text    string
}

func New(cfg *config.Config) Mailer {
	m := &smtpMailer{
		cfg:       cfg,
		templates: defaultTemplates(),
	}

	if cfg.EmailConfigured() {
		m.dialer = gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	} else {
		zap.L().Warn("smtp not configured, email channel disabled")
	}

	return m
}

func (m *smtpMailer) Configured() bool {
	return m.dialer != nil
}

func (m *smtpMailer) Send(to, template string, vars map[string]string) error {
	if m.dialer == nil {
		return ErrNotConfigured
	}

	tpl, ok := m.templates[template]
	if !ok {
		return ErrTemplateNotFound
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SMTP.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", substitute(tpl.Subject, vars))
	msg.SetBody("text/plain", substitute(tpl.Text, vars))
	msg.AddAlternative("text/html", substitute(tpl.HTML, vars))

	return m.dialer.DialAndSend(msg)
}

// substitute replaces every {{name}} placeholder with its value. Unknown
// placeholders are left as-is so a template typo is visible in the output.
func substitute(s string, vars map[string]string) string {
	if len(vars) == 0 {
		return s
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
