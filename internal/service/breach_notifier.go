package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-sla/internal/events"
	"github.com/spec-kit/ticket-sla/internal/repository"
)

// BreachNotifier mirrors verdicts into the verdict store and logs breaches.
type BreachNotifier struct {
	dispatcher events.Dispatcher
	store      repository.VerdictStore
	logger     *zap.Logger
}

// NewBreachNotifier creates the notifier. A nil store only logs.
func NewBreachNotifier(dispatcher events.Dispatcher, store repository.VerdictStore, logger *zap.Logger) *BreachNotifier {
	return &BreachNotifier{
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *BreachNotifier) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSLAEvaluated, n.handleEvaluated)
	n.dispatcher.Subscribe(events.EventSLABreached, n.handleBreached)
	n.dispatcher.Subscribe(events.EventTicketFailed, n.handleTicketFailed)
	n.dispatcher.Subscribe(events.EventReportCompleted, n.handleReportCompleted)
}

func (n *BreachNotifier) handleEvaluated(ctx context.Context, event events.Event) error {
	if n.store == nil {
		return nil
	}
	payload, ok := event.Payload.(events.SLAEvaluatedPayload)
	if !ok || payload.Report == nil {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	if err := n.store.SaveVerdict(ctx, payload.Report); err != nil {
		return fmt.Errorf("save verdict %s: %w", event.IssueKey, err)
	}
	return nil
}

func (n *BreachNotifier) handleBreached(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SLAEvaluatedPayload)
	if !ok || payload.Report == nil {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Warn("SLABreached",
		zap.String("issue_key", event.IssueKey),
		zap.String("run_id", event.RunID),
		zap.Int64("breach_minutes", payload.Report.Verdict.BreachMinutes),
		zap.Int64("time_to_resolution_minutes", payload.Report.Durations.TimeToResolutionMinutes))
	return nil
}

func (n *BreachNotifier) handleTicketFailed(_ context.Context, event events.Event) error {
	n.logger.Debug("TicketFailed", zap.String("issue_key", event.IssueKey), zap.Any("payload", event.Payload))
	return nil
}

func (n *BreachNotifier) handleReportCompleted(_ context.Context, event events.Event) error {
	n.logger.Info("ReportCompleted", zap.String("run_id", event.RunID), zap.Any("payload", event.Payload))
	return nil
}
