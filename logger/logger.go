package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var instance *zap.Logger = zap.NewNop()

// Init builds the application logger: JSON records to a rotated file plus a
// console core for operators. isProd switches the console encoder to JSON too.
func Init(logFilePath string, level string, isProd bool) *zap.Logger {
	rotator := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)

	minLevel := parseLevel(level)

	fileCore := zapcore.NewCore(jsonEncoder, zapcore.AddSync(rotator), minLevel)

	var consoleEncoder zapcore.Encoder
	if isProd {
		consoleEncoder = jsonEncoder
	} else {
		devConfig := zap.NewDevelopmentEncoderConfig()
		devConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEncoder = zapcore.NewConsoleEncoder(devConfig)
	}
	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), minLevel)

	instance = zap.New(zapcore.NewTee(fileCore, consoleCore), zap.AddCaller())
	return instance
}

// L returns the process logger. Before Init it is a no-op logger, which keeps
// tests quiet without any setup.
func L() *zap.Logger {
	return instance
}

// Set replaces the process logger (primarily for testing)
func Set(l *zap.Logger) {
	instance = l
}

// Sync flushes buffered log entries; call on shutdown
func Sync() {
	_ = instance.Sync()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
