package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/config"
	"github.com/aniketsharma889/faculty-appraisal-system-sub001/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventAppraisalSubmitted, n.handleSubmitted)
	n.dispatcher.Subscribe(events.EventAppraisalStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventAppraisalEdited, n.handleEdited)
}

func (n *NotificationService) handleSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("AppraisalSubmitted", zap.String("appraisal_id", event.AppraisalID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("AppraisalStatusChanged", zap.String("appraisal_id", event.AppraisalID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleEdited(ctx context.Context, event events.Event) error {
	n.logger.Info("AppraisalEdited", zap.String("appraisal_id", event.AppraisalID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("appraisal_id", event.AppraisalID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("appraisal_id", event.AppraisalID),
		zap.String("event_type", string(event.Type)))
}
