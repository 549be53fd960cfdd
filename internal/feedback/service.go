package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/scanote/internal/model"
)

// maxSubjectLength は件名の文字数上限。
const maxSubjectLength = 200

// maxMessageLength は本文の文字数上限。
const maxMessageLength = 5000

// Service はフィードバック送信のサービス層。
// mailerがnilの場合、SMTPが未設定として送信を拒否する。
type Service struct {
	mailer Mailer
	to     string
	logger *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
// SMTPが未設定の環境ではmailerにnilを渡す。
func NewService(mailer Mailer, to string, logger *slog.Logger) *Service {
	return &Service{
		mailer: mailer,
		to:     to,
		logger: logger,
	}
}

// Send はユーザーからのフィードバックを運用者宛てに送信する。
func (s *Service) Send(ctx context.Context, userEmail, subject, message string) error {
	if s.mailer == nil || s.to == "" {
		return model.NewMailNotConfiguredError()
	}

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return model.NewValidationError("件名が指定されていません")
	}
	if len([]rune(subject)) > maxSubjectLength {
		return model.NewValidationError("件名が長すぎます")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return model.NewValidationError("本文が指定されていません")
	}
	if len([]rune(message)) > maxMessageLength {
		return model.NewValidationError("本文が長すぎます")
	}

	body := fmt.Sprintf("From: %s\n\n%s", userEmail, message)
	if err := s.mailer.Send(ctx, s.to, "[scanote] "+subject, body); err != nil {
		s.logger.Error("failed to send feedback mail",
			slog.String("user_email", userEmail),
			slog.String("error", err.Error()))
		return fmt.Errorf("フィードバックの送信に失敗しました: %w", err)
	}

	s.logger.Info("feedback sent", slog.String("user_email", userEmail))
	return nil
}
