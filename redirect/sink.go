package redirect

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink receives one forwarded log line per call. The line carries no
// trailing newline; sinks append their own.
type Sink interface {
	Log(level zapcore.Level, tag, line string)
}

// ZapSink adapts a zap logger to the Sink interface.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink wraps l as a redirect sink.
func NewZapSink(l *zap.Logger) *ZapSink {
	return &ZapSink{logger: l}
}

// Log writes one line at the given level with the tag as a field.
func (s *ZapSink) Log(level zapcore.Level, tag, line string) {
	if ce := s.logger.Check(level, line); ce != nil {
		ce.Write(zap.String("tag", tag))
	}
}
