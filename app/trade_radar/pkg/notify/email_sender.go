package notify

import (
	"time"

	gomail "gopkg.in/mail.v2"

	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/config"
	"github.com/iWorld-y/trade_radar/app/trade_radar/pkg/logger"
)

// Dialer 发送邮件的最小接口，便于测试替换
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailSender 通过 SMTP 发送报告
type EmailSender struct {
	cfg    config.SMTPConfig
	dialer Dialer
}

// NewEmailSender 创建发送器
func NewEmailSender(cfg config.SMTPConfig) *EmailSender {
	d := gomail.NewDialer(cfg.Server, cfg.Port, cfg.User, cfg.Pass)
	d.Timeout = 10 * time.Second
	return &EmailSender{cfg: cfg, dialer: d}
}

// WithDialer 替换底层 dialer
func (s *EmailSender) WithDialer(d Dialer) *EmailSender {
	s.dialer = d
	return s
}

// Send 未启用时直接返回
func (s *EmailSender) Send(msg *RenderedMessage) error {
	if !s.cfg.Enabled() {
		logger.Log.Debug("未配置 SMTP，跳过邮件发送")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.To)
	m.SetHeader("Subject", msg.Subject)

	if msg.HTML != "" && msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else if msg.HTML != "" {
		m.SetBody("text/html", msg.HTML)
	} else {
		m.SetBody("text/plain", msg.Text)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		logger.Log.Errorf("邮件发送失败 [%s]: %v", msg.Subject, err)
		return err
	}

	logger.Log.Infof("邮件已发送: %s", msg.Subject)
	return nil
}
