package progress

import (
	"go.uber.org/zap"
)

// Sink consumes individual progress events. Implementations must be safe
// for concurrent use; the orchestrator emits from every subject pipeline.
type Sink interface {
	Consume(evt Event)
}

// Emitter publishes events; Fanout satisfies this interface so the
// orchestrator stays agnostic about which sinks are wired.
type Emitter interface {
	Emit(evt Event)
}

// Fanout delivers each event to every registered sink, dropping events
// that fail validation. A nil *Fanout is a valid no-op emitter.
type Fanout struct {
	sinks  []Sink
	logger *zap.Logger
}

// NewFanout builds a Fanout over the provided sinks.
func NewFanout(logger *zap.Logger, sinks ...Sink) *Fanout {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fanout{sinks: append([]Sink(nil), sinks...), logger: logger}
}

// Emit validates and distributes one event.
func (f *Fanout) Emit(evt Event) {
	if f == nil {
		return
	}
	if err := evt.Validate(); err != nil {
		f.logger.Debug("discarding invalid progress event", zap.Error(err))
		return
	}
	for _, sink := range f.sinks {
		if sink != nil {
			sink.Consume(evt)
		}
	}
}
