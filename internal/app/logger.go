package app

import (
	"fmt"

	"github.com/Freeeeeet/study_planner/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "study_planner"

// NewLogger production-конфиг для ENV=production, иначе цветной dev-вывод.
// LOG_LEVEL переопределяет уровень по умолчанию (info в production, debug иначе).
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config

	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
		}
		zcfg.Level = level
	}

	zcfg.OutputPaths = []string{"stdout"}
	zcfg.InitialFields = map[string]interface{}{
		"service": serviceName,
		"env":     cfg.Environment,
		"tz":      cfg.Timezone.String(),
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
