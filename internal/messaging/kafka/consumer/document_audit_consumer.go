package consumer

import (
	"context"
	"encoding/json"

	"github.com/monaguib-hub/DocTrack/internal/bootstrap"
	"github.com/monaguib-hub/DocTrack/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeDocumentLifecycle membaca event perubahan dokumen dan menulisnya ke
// audit log agar ada jejak kepatuhan di luar tabel utama.
func ConsumeDocumentLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	auditLogger bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.document_lifecycle")
	log.Info("document lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("document lifecycle consumer stopped")
				return
			}
			log.Error("fetch document lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.DocumentLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode document lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		meta := map[string]any{
			"document_id": event.DocumentID,
			"employee_id": event.EmployeeID,
			"name":        event.Name,
			"request_id":  event.RequestID,
		}
		if event.ExpiryDate != nil {
			meta["expiry_date"] = event.ExpiryDate.Format("2006-01-02")
		}

		auditLogger.Log(ctx, bootstrap.AuditLog{
			Action:  event.EventType,
			Message: "employee document changed",
			Meta:    meta,
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit document lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("document lifecycle event audited",
			zap.String("event_type", event.EventType),
			zap.String("document_id", event.DocumentID),
			zap.String("employee_id", event.EmployeeID),
		)
	}
}
