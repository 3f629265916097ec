// Package events delivers the advisory operation events to whoever wants
// them. The default sink writes them as structured log lines; tests install a
// capturing sink instead.
package events

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/solmm/mmw/internal/logger"
)

// Sink receives every event emitted by the operation handlers.
type Sink interface {
	Emit(event any)
}

// LogSink writes events as structured log lines under the "events" component.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink() *LogSink {
	return &LogSink{log: logger.GetForComponent("events")}
}

func (s *LogSink) Emit(event any) {
	s.log.Info().
		Str("event", fmt.Sprintf("%T", event)).
		Interface("payload", event).
		Msg("Event emitted.")
}

// CaptureSink records every event in order. Test helper.
type CaptureSink struct {
	Events []any
}

func (s *CaptureSink) Emit(event any) {
	s.Events = append(s.Events, event)
}
