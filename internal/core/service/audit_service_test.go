package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/minitwitter/accounts-auth/internal/core/domain"
)

type stubAuditRepo struct {
	insertErr error
	inserted  []*domain.AuthEvent
}

func (r *stubAuditRepo) InsertEvent(_ context.Context, e *domain.AuthEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

func TestAuditService_Record_HappyPath(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	err := svc.Record(context.Background(), domain.AuthEvent{
		Type:       domain.EventLogin,
		UserID:     "user-1",
		Username:   "alice",
		Success:    true,
		OccurredAt: at,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected one event inserted, got %d", len(repo.inserted))
	}
	if got := repo.inserted[0]; got.UserID != "user-1" || !got.OccurredAt.Equal(at) {
		t.Errorf("unexpected stored event: %+v", got)
	}
}

func TestAuditService_Record_DefaultsTimestamp(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	before := time.Now().UTC()
	if err := svc.Record(context.Background(), domain.AuthEvent{Type: domain.EventLogout, UserID: "user-1", Success: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.inserted[0].OccurredAt.Before(before) {
		t.Errorf("expected OccurredAt to be set, got %v", repo.inserted[0].OccurredAt)
	}
}

func TestAuditService_Record_FailedLoginIsStored(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	err := svc.Record(context.Background(), domain.AuthEvent{
		Type:     domain.EventLogin,
		Username: "mallory",
		Reason:   "unknown_user",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.inserted[0]; got.Success || got.Result() != "failure" {
		t.Errorf("expected failure event, got %+v", got)
	}
}

func TestAuditService_Record_StoreError(t *testing.T) {
	repo := &stubAuditRepo{insertErr: errors.New("mongo unavailable")}
	svc := NewAuditService(repo, zerolog.Nop())

	err := svc.Record(context.Background(), domain.AuthEvent{Type: domain.EventSignup, Success: true})
	if err == nil || !errors.Is(err, repo.insertErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
