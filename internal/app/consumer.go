package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/monaguib-hub/DocTrack/internal/bootstrap"
	"github.com/monaguib-hub/DocTrack/internal/events"
	"github.com/monaguib-hub/DocTrack/internal/messaging/kafka/consumer"
	"github.com/monaguib-hub/DocTrack/internal/shared/connection"

	"go.uber.org/zap"
)

// RunConsumer membaca event lifecycle dokumen dan menulis audit trail.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	reader := connection.NewKafkaReader(kafkaBroker, events.DocumentLifecycleTopic, "doctrack-document-audit")
	defer reader.Close()

	auditLogger := bootstrap.NewStdoutAuditLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeDocumentLifecycle(ctx, reader, auditLogger, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
