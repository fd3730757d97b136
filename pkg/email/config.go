package email

import "github.com/dmitrymomot/stockalert/pkg/notifications"

// Config holds e-mail escalation settings.
type Config struct {
	PostmarkServerToken  string   `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string   `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string   `env:"SENDER_EMAIL"`
	Recipients           []string `env:"ALERT_EMAIL_RECIPIENTS" envSeparator:","`
	MinPriority          string   `env:"ALERT_EMAIL_MIN_PRIORITY" envDefault:"critical"`
	DevDir               string   `env:"EMAIL_DEV_DIR"` // write e-mails to disk instead of sending
}

// Enabled reports whether e-mail escalation should be wired.
func (c Config) Enabled() bool {
	if len(c.Recipients) == 0 {
		return false
	}
	return c.DevDir != "" || c.PostmarkServerToken != ""
}

// Threshold returns MinPriority as a notifications.Priority.
func (c Config) Threshold() notifications.Priority {
	if c.MinPriority == "" {
		return notifications.PriorityCritical
	}
	return notifications.Priority(c.MinPriority)
}
