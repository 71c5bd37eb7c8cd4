// Package notifier отправляет почтовые уведомления по событиям из очередей:
// о разблокированных достижениях и об истекающих сегодня пробных периодах.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/studyhub-app/gamification-service/internal/lib/sl"
	"github.com/studyhub-app/gamification-service/internal/lib/smtp"
	"github.com/studyhub-app/gamification-service/internal/models"
)

// ContactRepository ищет контактные данные получателя по идентификатору.
type ContactRepository interface {
	GetUserContact(ctx context.Context, userUID string) (*models.UserContact, error)
}

// Service потребляет события уведомлений и отправляет письма через SMTP.
type Service struct {
	transport smtp.TransportInterface
	repo      ContactRepository
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport smtp.TransportInterface, repo ContactRepository, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		repo:      repo,
		log:       log,
	}
}

// SendAchievementUnlocked отправляет письмо о разблокированном достижении.
// Событие несёт только идентификатор пользователя, контакты берутся из
// хранилища. Отсутствие почты не считается ошибкой: письмо просто не
// отправляется, сообщение подтверждается.
func (s *Service) SendAchievementUnlocked(ctx context.Context, body []byte) error {
	var event models.AchievementEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal achievement event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	contact, err := s.repo.GetUserContact(ctx, event.UserUID)
	if err != nil {
		s.log.Error("failed to look up user contact", sl.Err(err))
		return err
	}
	if contact == nil || contact.Email == "" {
		s.log.Info("no email for user, skipping achievement notification",
			slog.String("user_uid", event.UserUID))
		return nil
	}

	to := []string{contact.Email}
	subject := "Новое достижение в StudyHub"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВы разблокировали достижение «%s» и получили %d очков.\n\nПродолжайте в том же духе!",
		contact.Username, event.Title, event.Points)

	return s.sendEmail(to, subject, bodyText)
}

// SendTrialExpiring отправляет письмо об истекающем сегодня пробном периоде.
func (s *Service) SendTrialExpiring(_ context.Context, body []byte) error {
	var event models.TrialExpiringEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal trial expiry event", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if event.Email == "" {
		s.log.Info("no email for user, skipping trial notification",
			slog.String("user_uid", event.UserUID))
		return nil
	}

	to := []string{event.Email}
	subject := "Пробный период премиума StudyHub заканчивается сегодня"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаш пробный период премиум-доступа заканчивается сегодня.\nЧтобы сохранить доступ к премиум-возможностям, оформите подписку в приложении.",
		event.Username)

	return s.sendEmail(to, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent", slog.String("to", strings.Join(to, ";")))
	return nil
}
