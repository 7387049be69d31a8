// Package mailer отвечает за составление и отправку писем: коды
// подтверждения и приветственные письма после регистрации.
package mailer

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/smtp"
)

// Service отправляет письма через SMTP транспорт.
type Service struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(transport smtp.TransportInterface, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendOTP отправляет код подтверждения на адрес пользователя.
func (s *Service) SendOTP(email, code string) error {
	subject := "Your Verification Code"
	bodyText := fmt.Sprintf("Your verification code is: %s. This code will expire in 10 minutes.", code)
	return s.sendEmail([]string{email}, subject, bodyText)
}

// SendWelcome отправляет приветственное письмо после регистрации.
func (s *Service) SendWelcome(username, email string) error {
	subject := "Welcome to Estate Aggregator"
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour account has been created. You can now browse projects and save properties to your favourites.", username)
	return s.sendEmail([]string{email}, subject, bodyText)
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
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", "error", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", "error", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", "error", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", "error", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}

// ClassifyDeliveryError возвращает сообщение для клиента по причине сбоя
// доставки: недоступный сервер, сбой аутентификации канала, отклоненные
// учетные данные. Прочие причины получают общее сообщение.
func ClassifyDeliveryError(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) || strings.Contains(err.Error(), "failed to dial SMTP server") {
		return "Could not connect to email server. Please check your internet connection."
	}
	if strings.Contains(err.Error(), "535") || strings.Contains(err.Error(), "Invalid login") {
		return "Invalid email credentials. Please check your email configuration."
	}
	if strings.Contains(err.Error(), "smtp auth failed") {
		return "Email authentication failed. Please check your email credentials."
	}
	return "Failed to send verification code. Please try again."
}
