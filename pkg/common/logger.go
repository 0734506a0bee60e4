package common

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *zap.Logger
	once   sync.Once
	mu     sync.RWMutex
)

func getLogger() *zap.Logger {
	once.Do(initLogger)
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func GetLogger() *zap.Logger {
	return getLogger().Named("default")
}

func GetLoggerWith(name string, fields ...zap.Field) *zap.Logger {
	return getLogger().Named(name).With(fields...)
}

func logsDir() string {
	if dir := EnvOrDefault(EnvKeyHCLogDir, ""); dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("Error getting current directory: %v", err)
	}
	return filepath.Join(wd, "logs")
}

func initLogger() {
	dir := logsDir()
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		log.Fatalf("Error find/create logs directory: %v", err)
	}

	logFile := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "hcschema.log"),
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
		zap.InfoLevel,
	)

	mu.Lock()
	defer mu.Unlock()

	if IsProduction() {
		logger = zap.New(fileCore, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
		return
	}

	// cli output goes to stdout, keep the console core on stderr
	consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	consoleCore := zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), zap.DebugLevel)

	logger = zap.New(zapcore.NewTee(fileCore, consoleCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

func setLogger(l *zap.Logger) {
	once.Do(func() {})
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func SetTestCaptureLogger(buf *bytes.Buffer, level zapcore.Level) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(buf), level)
	setLogger(zap.New(core))
}

// SetLoggerNop silences all logging, for tools whose output is the point.
func SetLoggerNop() {
	setLogger(zap.NewNop())
}

func SetTestLoggerNop() {
	SetLoggerNop()
}
