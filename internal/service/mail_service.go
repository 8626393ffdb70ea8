package service

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/config"
)

// ErrMailNotConfigured SMTP 未配置时发送接口直接报错，不做静默吞掉
var ErrMailNotConfigured = errors.New("SMTP 未配置")

// Mailer 邮件发送接口（提醒服务依赖此抽象，测试时注入假实现）
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

type smtpMailer struct {
	cfg    *config.MailConfig
	logger *zap.Logger
}

// NewSMTPMailer 创建基于 net/smtp 的 Mailer
func NewSMTPMailer(cfg *config.MailConfig, logger *zap.Logger) Mailer {
	return &smtpMailer{cfg: cfg, logger: logger}
}

func (m *smtpMailer) Send(ctx context.Context, to []string, subject, body string) error {
	if m.cfg.SMTPHost == "" {
		return ErrMailNotConfigured
	}
	if len(to) == 0 {
		return errors.New("收件人为空")
	}

	// ctx 仅用于提前取消；net/smtp 本身不接收 context
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, to, []byte(msg)); err != nil {
		m.logger.Error("邮件发送失败",
			zap.Strings("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return err
	}

	m.logger.Info("邮件已发送",
		zap.Strings("to", to),
		zap.String("subject", subject))
	return nil
}
