package sig

import (
	"log/slog"
	"time"
)

type logObserver struct {
	logger *slog.Logger
}

// LogObserver returns an Observer that logs flush failures and runaway
// update loops through logger.
func LogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}

	return &logObserver{logger: logger.With("component", "sig")}
}

func (o *logObserver) EffectRan(depth int, elapsed time.Duration, recovered any) {
	if recovered != nil {
		o.logger.Debug("effect panicked", "depth", depth, "elapsed", elapsed, "error", recovered)
	}
}

func (o *logObserver) Flushed(passes int, effects int, recovered any) {
	if recovered != nil {
		o.logger.Debug("flush finished with error", "passes", passes, "effects", effects, "error", recovered)
	}
}

func (o *logObserver) Runaway(passes int) {
	o.logger.Warn("update loop suppressed", "passes", passes)
}
