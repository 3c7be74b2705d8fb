package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gastronom/internal/config"
)

// Init builds the process logger from settings and installs it as the zap
// global, so packages log through zap.L() / zap.S().
func Init(cfg config.LoggerSettings) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Encoding == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	if level, err := zapcore.ParseLevel(cfg.Level); err == nil {
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}

	log, err := zapConfig.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}
