package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the structured logger behind the CLI's message sink.
// Human-readable output goes to the console through the sink itself; the zap
// logger only writes the rotated log file, so without a configured log file
// it is a no-op.
func newLogger(logFile string) (*zap.Logger, error) {
	if logFile == "" {
		return zap.NewNop(), nil
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	})

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), writer, zapcore.InfoLevel)
	return zap.New(core), nil
}
