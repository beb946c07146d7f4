package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/BearBump/VesselBrief/internal/broker/messages"
	"github.com/BearBump/VesselBrief/internal/models"
)

type Producer interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Publisher emits report.generated. Publishing is best effort: failures are
// logged and never reach the caller.
type Publisher struct {
	producer Producer
	topic    string
	timeout  time.Duration
	now      func() time.Time
}

func NewPublisher(p Producer, topic string) *Publisher {
	if topic == "" {
		topic = messages.TopicReportGenerated
	}
	return &Publisher{producer: p, topic: topic, timeout: 2 * time.Second, now: time.Now}
}

func (p *Publisher) ReportGenerated(ctx context.Context, imo string, accountID *uint64, requestID string, rep models.Report) {
	if p == nil || p.producer == nil {
		return
	}
	msg := messages.ReportGenerated{
		RequestID:      requestID,
		IMO:            imo,
		AccountID:      accountID,
		Outcome:        string(rep.Outcome),
		Degraded:       rep.Degraded,
		HasCoordinates: rep.Coordinates != nil,
		GeneratedAt:    p.now().UTC(),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		slog.ErrorContext(ctx, "marshal report.generated", "error", err)
		return
	}

	// The request may already be finished; keep its values but not its deadline.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.producer.Publish(pctx, p.topic, []byte(imo), b); err != nil {
		slog.WarnContext(ctx, "publish report.generated failed", "imo", imo, "error", err)
	}
}
