package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailService отправляет транзакционные письма.
type EmailService interface {
	SendSurveyInvitation(ctx context.Context, toEmail, surveyTitle string) error
}

// NoopEmailService используется, когда отправка писем отключена.
type NoopEmailService struct{}

func (s *NoopEmailService) SendSurveyInvitation(ctx context.Context, toEmail, surveyTitle string) error {
	log.Printf("[EmailService] noop send survey invitation to=%s survey=%q", toEmail, surveyTitle)
	return nil
}

// ResendEmailService отправляет письма через Resend REST API.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

// SendSurveyInvitation отправляет приглашение пройти опрос.
// Повторяет отправку при rate limit и сетевых таймаутах (до 3 попыток).
func (s *ResendEmailService) SendSurveyInvitation(ctx context.Context, toEmail, surveyTitle string) error {
	if toEmail == "" || surveyTitle == "" {
		return fmt.Errorf("toEmail and surveyTitle are required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: fmt.Sprintf("You are invited to the survey \"%s\"", surveyTitle),
		Text:    fmt.Sprintf("You have been invited to take part in the survey \"%s\". Log in to answer the questions.", surveyTitle),
		Html:    fmt.Sprintf("<p>You have been invited to take part in the survey <strong>%s</strong>.</p><p>Log in to answer the questions.</p>", surveyTitle),
	}

	options := &resend.SendEmailOptions{}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
