package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/minitwitter/accounts-auth/internal/core/domain"
	"github.com/minitwitter/accounts-auth/internal/core/ports"
	"github.com/minitwitter/accounts-auth/internal/pkg/metrics"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record counts the event and appends it to the audit trail.
func (s *auditService) Record(ctx context.Context, event domain.AuthEvent) error {
	metrics.AuthEventsTotal.WithLabelValues(string(event.Type), event.Result()).Inc()

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	if !event.Success && event.Type == domain.EventLogin {
		s.log.Warn().
			Str("username", event.Username).
			Str("reason", event.Reason).
			Msg("login failed")
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("record %s event: %w", event.Type, err)
	}

	s.log.Debug().
		Str("type", string(event.Type)).
		Str("user_id", event.UserID).
		Str("result", event.Result()).
		Msg("audit event recorded")

	return nil
}
