package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/session-gateway/internal/domain"
	"github.com/spec-kit/session-gateway/internal/events"
	"github.com/spec-kit/session-gateway/internal/repository"
)

// AuditService persists identity-lifecycle events for diagnostics. It is
// strictly an observer: resolution and teardown never wait on it, and a
// failing sink only logs.
type AuditService struct {
	repo       repository.AuthEventRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService builds the service. repo may be nil when postgres is
// disabled; events are then log-only.
func NewAuditService(repo repository.AuthEventRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes the sink to every identity-lifecycle event.
func (s *AuditService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventConflictDetected,
		events.EventIdentityEvicted,
		events.EventSessionEnded,
	} {
		s.dispatcher.Subscribe(eventType, s.handle)
	}
}

func (s *AuditService) handle(ctx context.Context, event events.Event) error {
	s.logger.Debug("auth event",
		zap.String("type", string(event.Type)),
		zap.String("path", event.Path))

	if s.repo == nil {
		return nil
	}

	record := &domain.AuthEvent{
		ID:       event.ID,
		Type:     string(event.Type),
		DeviceID: event.DeviceID,
		Path:     event.Path,
		Detail:   payloadDetail(event.Payload),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Warn("audit sink write failed", zap.Error(err))
	}
	return nil
}

func payloadDetail(payload interface{}) map[string]any {
	if payload == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	var detail map[string]any
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil
	}
	return detail
}
