package pkg

import (
	"crypto/tls"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

// Mailer 发送 HTML 邮件
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: m.cfg.Host}
	return d.DialAndSend(msg)
}

// NopMailer 未配置 SMTP 时使用
type NopMailer struct{}

func (NopMailer) Send(string, string, string) error { return nil }

// 用户名由用户填写，写入正文前转义
func WelcomeHTML(username string) string {
	username = html.EscapeString(username)
	return fmt.Sprintf(`<p>Hi <b>%s</b>,</p><p>your account has been created. Welcome aboard!</p>`, username)
}

func BlockNoticeHTML(username string, blocked bool) string {
	username = html.EscapeString(username)
	if blocked {
		return fmt.Sprintf(`<p>Hi <b>%s</b>,</p><p>your account has been blocked and all sessions were closed. Contact the administrator for details.</p>`, username)
	}
	return fmt.Sprintf(`<p>Hi <b>%s</b>,</p><p>your account has been unblocked. You can log in again.</p>`, username)
}
