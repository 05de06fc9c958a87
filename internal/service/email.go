package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, body, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	logger.ExternalServiceResult("sendgrid", "Send", err, "to", to, "subject", subject)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func itemNames(r *domain.Reservation) string {
	names := make([]string, 0, len(r.Items))
	for _, it := range r.Items {
		names = append(names, it.Equipment.Name)
	}
	return strings.Join(names, ", ")
}

func (s *emailService) SendReservationApproved(ctx context.Context, email, name string, r *domain.Reservation) error {
	span := r.Span()
	body := fmt.Sprintf("Hello %s,\n\nYour reservation for %s has been approved.\n\nPickup: %s\nReturn: %s\n\nThe Gear Room",
		name, itemNames(r), span.Start.Format(time.RFC1123), span.End.Format(time.RFC1123))
	return s.send(email, name, "Reservation Approved", body)
}

func (s *emailService) SendReservationRejected(ctx context.Context, email, name string, r *domain.Reservation, reason string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour reservation for %s was rejected.", name, itemNames(r))
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nThe Gear Room"
	return s.send(email, name, "Reservation Rejected", body)
}

func (s *emailService) SendReturnProcessed(ctx context.Context, email, name string, r *domain.Reservation) error {
	body := fmt.Sprintf("Hello %s,\n\nYour return of %s has been processed (status: %s).",
		name, itemNames(r), r.ReturnStatus)
	if r.PenaltyPoints > 0 {
		body += fmt.Sprintf("\n\nPenalty applied: %d points (%s)", r.PenaltyPoints, r.PenaltyReason)
	}
	body += "\n\nThe Gear Room"
	return s.send(email, name, "Return Processed", body)
}

func (s *emailService) SendOverdueNotice(ctx context.Context, email, name string, r *domain.Reservation) error {
	body := fmt.Sprintf("Hello %s,\n\nYour rental of %s was due back on %s and has not been returned yet. Please return it as soon as possible.\n\nThe Gear Room",
		name, itemNames(r), r.LatestReturn().Format(time.RFC1123))
	return s.send(email, name, "Equipment Overdue", body)
}

// NoopEmailService is used when no SendGrid API key is configured.
type NoopEmailService struct{}

func (NoopEmailService) SendReservationApproved(ctx context.Context, email, name string, r *domain.Reservation) error {
	return nil
}

func (NoopEmailService) SendReservationRejected(ctx context.Context, email, name string, r *domain.Reservation, reason string) error {
	return nil
}

func (NoopEmailService) SendReturnProcessed(ctx context.Context, email, name string, r *domain.Reservation) error {
	return nil
}

func (NoopEmailService) SendOverdueNotice(ctx context.Context, email, name string, r *domain.Reservation) error {
	return nil
}
