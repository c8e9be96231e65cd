package driver

import (
	"github.com/sirupsen/logrus"

	"github.com/plus3/blockfall/game"
)

// LogListener reports session events to logger. Locks and spawns are logged
// at debug level, everything else at info.
func LogListener(logger logrus.FieldLogger) game.Listener {
	return game.ListenerFunc(func(ev game.Event) {
		entry := logger.WithFields(logrus.Fields{
			"event": ev.Kind.String(),
			"tick":  ev.Tick,
			"piece": ev.Piece.String(),
			"score": ev.Score,
		})
		switch ev.Kind {
		case game.EventLinesCleared:
			entry.WithField("lines", ev.Lines).Info("lines cleared")
		case game.EventGameOver:
			entry.Info("session over")
		case game.EventHeld:
			entry.Info("piece held")
		default:
			entry.Debug("piece event")
		}
	})
}

// NewLogger builds a logger at the named level ("info", "debug", ...).
func NewLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logger, nil
}
