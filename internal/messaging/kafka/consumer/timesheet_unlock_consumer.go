package consumer

import (
	"context"
	"encoding/json"

	"go-timetrack/internal/activitylog"
	"go-timetrack/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func ConsumeTimesheetLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	activityLogService activitylog.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.timesheet_lifecycle")
	log.Info("timesheet lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("timesheet lifecycle consumer stopped")
				return
			}
			log.Error("fetch timesheet lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.TimesheetUnlockedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode timesheet_unlocked event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := activityLogService.RecordTimesheetUnlocked(ctx, event); err != nil {
			log.Error("record timesheet unlock activity failed",
				zap.String("timesheet_id", event.TimesheetID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit timesheet lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("activity log written from timesheet_unlocked event",
			zap.String("timesheet_id", event.TimesheetID),
			zap.String("company_id", event.CompanyID),
		)
	}
}
