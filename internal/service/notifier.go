package service

import (
	"log/slog"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"
)

// Notifier 尽力发送通知邮件，失败只记日志
type Notifier struct {
	mailer pkg.Mailer
}

func NewNotifier(mailer pkg.Mailer) *Notifier {
	if mailer == nil {
		mailer = pkg.NopMailer{}
	}
	return &Notifier{mailer: mailer}
}

func (n *Notifier) Welcome(u *model.User) {
	n.send(u, "Welcome to Cerezo Blog", pkg.WelcomeHTML(u.Username))
}

func (n *Notifier) BlockChanged(u *model.User) {
	subject := "Your account has been unblocked"
	if u.IsBlocked {
		subject = "Your account has been blocked"
	}
	n.send(u, subject, pkg.BlockNoticeHTML(u.Username, u.IsBlocked))
}

func (n *Notifier) send(u *model.User, subject, body string) {
	if err := n.mailer.Send(u.Email, subject, body); err != nil {
		slog.Warn("mail delivery failed", "user_id", u.ID, "subject", subject, "err", err)
	}
}
