package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/logger"
)

// calendarService posts one-way event registrations to the configured
// webhook. No automatic retry: a failed registration is reported to the
// caller for manual follow-up, and never reverses a committed transition.
type calendarService struct {
	webhookURL string
	client     *http.Client
}

func NewCalendarService(webhookURL string, timeout time.Duration) CalendarService {
	return &calendarService{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *calendarService) RegisterEvent(ctx context.Context, ev CalendarEvent) error {
	const op = "calendar.registerEvent"
	if s.webhookURL == "" {
		logger.Debug("Calendar webhook not configured, skipping event registration", "title", ev.Title)
		return nil
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return domain.WrapE(domain.KindExternalServiceFailure, op, "failed to encode event", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return domain.WrapE(domain.KindExternalServiceFailure, op, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger.ExternalServiceCall("calendar", "RegisterEvent", "title", ev.Title)
	resp, err := s.client.Do(req)
	if err != nil {
		return domain.WrapE(domain.KindExternalServiceFailure, op, "calendar webhook unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return domain.E(domain.KindExternalServiceFailure, op,
			fmt.Sprintf("calendar webhook returned status %d", resp.StatusCode))
	}
	return nil
}

// NoopCalendarService is used when the side-channel is not configured.
type NoopCalendarService struct{}

func (NoopCalendarService) RegisterEvent(ctx context.Context, ev CalendarEvent) error {
	return nil
}
