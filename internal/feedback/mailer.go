// Package feedback はユーザーフィードバックのメール送信を提供する。
package feedback

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Mailer はメール送信のインターフェース。
// テスタビリティのためSMTPMailerを抽象化する。
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPConfig はSMTP接続の設定。
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer はgo-mailによるSMTP送信の実装。
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer はSMTPMailerの新しいインスタンスを生成する。
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send はプレーンテキストメールを1通送信する。
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("送信元アドレスが不正です: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("宛先アドレスが不正です: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("SMTPクライアントの作成に失敗しました: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("メールの送信に失敗しました: %w", err)
	}
	return nil
}
