// Package sinks provides progress.Sink implementations.
package sinks

import (
	"go.uber.org/zap"

	"partnerscout/internal/progress"
)

// LogSink emits structured logs for the progress stream. It is the
// default human-readable telemetry surface.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a Zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs the event using structured fields.
func (s *LogSink) Consume(evt progress.Event) {
	fields := []zap.Field{
		zap.String("stage", string(evt.Stage)),
	}
	if evt.SubjectID != "" {
		fields = append(fields,
			zap.String("subject_id", evt.SubjectID),
			zap.String("subject", evt.SubjectName),
		)
	}
	if evt.Batch > 0 {
		fields = append(fields, zap.Int("batch", evt.Batch))
	}
	if evt.Stage == progress.StageBatchDone || evt.Stage == progress.StageRunDone {
		fields = append(fields,
			zap.Int("total", evt.Summary.Total),
			zap.Int("successful", evt.Summary.Successful),
			zap.Int("failed", evt.Summary.Failed),
		)
	}
	if evt.Dur > 0 {
		fields = append(fields, zap.Duration("dur", evt.Dur))
	}
	if evt.Note != "" {
		fields = append(fields, zap.String("note", evt.Note))
	}
	s.logger.Info("progress", fields...)
}
