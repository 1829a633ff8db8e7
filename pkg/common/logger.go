package common

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogFileName = "app.log"

var (
	logger   atomic.Pointer[zap.Logger]
	once     sync.Once
	logsDir  string
	logsFile = defaultLogFileName
)

// SetLogOutput chooses where the rotating log file lives. It only has an
// effect when called before the first logger is handed out.
func SetLogOutput(dir, fileName string) {
	logsDir = dir
	if fileName != "" {
		logsFile = fileName
	}
}

func getLogger() *zap.Logger {
	initLogger()
	return logger.Load()
}

func GetLogger() *zap.Logger {
	return getLogger().Named("default")
}

func GetLoggerWith(name string, fields ...zap.Field) *zap.Logger {
	return getLogger().Named(name).With(fields...)
}

func initLogger() {
	once.Do(func() {
		dir := logsDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				log.Fatalf("Error getting current directory: %v", err)
			}
			dir = filepath.Join(wd, "logs")
		}

		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			log.Fatalf("Error find/create logs directory: %v", err)
		}

		logFile := &lumberjack.Logger{
			Filename:   filepath.Join(dir, logsFile),
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     28,   // days
			Compress:   true, // gzip
		}

		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.AddSync(logFile),
			zap.DebugLevel,
		)

		if IsProduction() {
			logger.Store(zap.New(fileCore, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
		} else {
			consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
			consoleCore := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zap.InfoLevel)

			combinedCore := zapcore.NewTee(fileCore, consoleCore)
			logger.Store(zap.New(combinedCore, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
		}
	})
}

func SetTestCaptureLogger(buf *bytes.Buffer, level zapcore.Level) {
	initLogger()

	writer := zapcore.Lock(zapcore.AddSync(buf))
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)

	core := zapcore.NewCore(encoder, writer, level)
	logger.Store(zap.New(core))
}

func SetTestLoggerNop() {
	initLogger()

	logger.Store(zap.NewNop())
}
