package main

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/linktable/pkg/types"
)

// newLogger builds a stderr logger from the log_level and log_format keys.
// JSON format uses the production encoder, console the development one.
func newLogger(c types.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if c.LogFormat == types.LogFormatJSON {
		zc = zap.NewProductionConfig()
	}

	level := c.LogLevel
	if level == "" {
		level = defaultLogLevel
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zc.Level = lvl
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}
