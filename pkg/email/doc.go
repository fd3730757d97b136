// Package email escalates high-priority stock alerts by e-mail.
//
// Channel implements notifications.Channel and e-mails every configured
// recipient when a package reaches the priority threshold (critical by
// default). Two senders are provided: PostmarkClient for production and
// DevSender, which writes messages to a directory for local runs.
//
//	sender, err := email.NewPostmarkClient(cfg)
//	if err != nil {
//		return err
//	}
//	ch := email.NewChannel(sender, cfg.Recipients, email.WithThreshold(cfg.Threshold()))
package email
