package bridge

import (
	"sync"

	"go.uber.org/zap"

	"github.com/nodemobile/bridge/attach"
	"github.com/nodemobile/bridge/dispatch"
	"github.com/nodemobile/bridge/engine"
	"github.com/nodemobile/bridge/redirect"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the bridge package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the logger for the bridge and all its packages.
// This must be called before New.
func SetLogger(l *zap.Logger) {
	logger = l
	attach.SetLogger(l)
	dispatch.SetLogger(l)
	redirect.SetLogger(l)
	engine.SetLogger(l)
}
