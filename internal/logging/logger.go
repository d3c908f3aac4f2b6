// Package logging 初始化全局 zap logger，其他包通过 zap.L() 使用
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init 按级别构建 production logger 并替换全局 logger
func Init(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
