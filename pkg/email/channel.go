package email

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"

	"github.com/dmitrymomot/stockalert/pkg/logger"
	"github.com/dmitrymomot/stockalert/pkg/notifications"
)

var alertTemplate = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif">
  <h2 style="color: {{if .Color}}{{.Color}}{{else}}#333333{{end}}">{{.Title}}</h2>
  <p>{{.Message}}</p>
  {{- with .UserInfo.Metadata}}
  <table>
    {{- if .ItemName}}<tr><td>Item</td><td>{{.ItemName}}</td></tr>{{end}}
    {{- if .LocationName}}<tr><td>Location</td><td>{{.LocationName}}</td></tr>{{end}}
    <tr><td>Current stock</td><td>{{.CurrentStock}}</td></tr>
    <tr><td>Minimum</td><td>{{.MinStockLevel}}</td></tr>
  </table>
  {{- end}}
  <p style="color: #999999">Priority: {{.Priority}}</p>
</body>
</html>`))

// Channel e-mails packages at or above a priority threshold.
type Channel struct {
	sender     Sender
	recipients []string
	threshold  notifications.Priority
	logger     *slog.Logger
}

// ChannelOption configures a Channel.
type ChannelOption func(*Channel)

// WithThreshold sets the minimum priority that triggers an e-mail.
func WithThreshold(p notifications.Priority) ChannelOption {
	return func(c *Channel) {
		c.threshold = p
	}
}

// WithChannelLogger sets the logger for the Channel.
func WithChannelLogger(l *slog.Logger) ChannelOption {
	return func(c *Channel) {
		c.logger = l
	}
}

// NewChannel creates an escalation channel. The default threshold is critical.
func NewChannel(sender Sender, recipients []string, opts ...ChannelOption) *Channel {
	c := &Channel{
		sender:     sender,
		recipients: recipients,
		threshold:  notifications.PriorityCritical,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Deliver implements notifications.Channel. Packages below the threshold are
// ignored. It fails only when no recipient could be reached.
func (c *Channel) Deliver(ctx context.Context, pkg notifications.Package) error {
	if !pkg.Priority.AtLeast(c.threshold) || len(c.recipients) == 0 {
		return nil
	}

	var body bytes.Buffer
	if err := alertTemplate.Execute(&body, pkg); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}

	var errs []error
	for _, to := range c.recipients {
		err := c.sender.SendEmail(ctx, SendEmailParams{
			SendTo:   to,
			Subject:  "[" + string(pkg.Priority) + "] " + pkg.Title,
			BodyHTML: body.String(),
			Tag:      pkg.Group,
		})
		if err != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "failed to send alert e-mail",
				logger.NotificationID(pkg.UserInfo.NotificationID),
				logger.Error(err),
			)
			errs = append(errs, err)
		}
	}
	if len(errs) == len(c.recipients) {
		return errors.Join(errs...)
	}
	return nil
}
