package consumer

import (
	"context"
	"encoding/json"

	"go-timetrack/internal/activitylog"
	"go-timetrack/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeTimeEntryLifecycle turns time entry stop events into activity log
// rows. Malformed messages are committed and dropped; storage failures leave
// the message uncommitted so it is retried.
func ConsumeTimeEntryLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	activityLogService activitylog.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.time_entry_lifecycle")
	log.Info("time entry lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("time entry lifecycle consumer stopped")
				return
			}
			log.Error("fetch time entry lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.TimeEntryStoppedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode time_entry_stopped event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := activityLogService.RecordTimeEntryStopped(ctx, event); err != nil {
			log.Error("record time entry activity failed",
				zap.String("time_entry_id", event.TimeEntryID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit time entry lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("activity log written from time_entry_stopped event",
			zap.String("time_entry_id", event.TimeEntryID),
			zap.String("company_id", event.CompanyID),
		)
	}
}
