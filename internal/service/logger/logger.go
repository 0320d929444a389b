package logger

import (
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	AccessLogger = zap.NewNop()
	DBLogger     = zap.NewNop()
	GameLogger   = zap.NewNop()
)

func newFileLogger(dir, name string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{
		filepath.Join(dir, name),
	}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}

// InitLoggers builds access.log, db.log and game.log inside dir.
func InitLoggers(dir string) error {
	var err error
	AccessLogger, err = newFileLogger(dir, "access.log")
	if err != nil {
		return err
	}

	DBLogger, err = newFileLogger(dir, "db.log")
	if err != nil {
		return err
	}

	GameLogger, err = newFileLogger(dir, "game.log")
	if err != nil {
		return err
	}

	return nil
}

func SyncLoggers() error {
	for _, l := range []*zap.Logger{AccessLogger, DBLogger, GameLogger} {
		if err := l.Sync(); err != nil {
			return err
		}
	}
	return nil
}
