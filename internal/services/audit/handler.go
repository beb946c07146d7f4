package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/BearBump/VesselBrief/internal/broker/messages"
	"github.com/BearBump/VesselBrief/internal/metrics"
	"github.com/BearBump/VesselBrief/internal/models"
	"github.com/pkg/errors"
)

type Store interface {
	InsertReportAudit(ctx context.Context, a models.ReportAudit) error
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Handle stores one report.generated message. Malformed messages are dropped
// so they do not block the partition; storage errors are returned for retry.
func (h *Handler) Handle(ctx context.Context, _, value []byte) error {
	var msg messages.ReportGenerated
	if err := json.Unmarshal(value, &msg); err != nil {
		slog.WarnContext(ctx, "drop malformed report.generated", "error", err)
		metrics.AuditEventsTotal.WithLabelValues("malformed").Inc()
		return nil
	}
	if msg.IMO == "" || msg.GeneratedAt.IsZero() {
		slog.WarnContext(ctx, "drop incomplete report.generated", "request_id", msg.RequestID)
		metrics.AuditEventsTotal.WithLabelValues("malformed").Inc()
		return nil
	}

	err := h.store.InsertReportAudit(ctx, models.ReportAudit{
		RequestID:      msg.RequestID,
		IMO:            msg.IMO,
		AccountID:      msg.AccountID,
		Outcome:        msg.Outcome,
		Degraded:       msg.Degraded,
		HasCoordinates: msg.HasCoordinates,
		GeneratedAt:    msg.GeneratedAt,
	})
	if err != nil {
		metrics.AuditEventsTotal.WithLabelValues("error").Inc()
		return errors.Wrap(err, "store report audit")
	}
	metrics.AuditEventsTotal.WithLabelValues("stored").Inc()
	return nil
}
