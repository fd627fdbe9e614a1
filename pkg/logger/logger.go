package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Leveled logger used by the API service.
// - backed by zap (JSON lines on stdout)
// - printf-style Debugf/Infof/Warnf/Errorf/Fatalf plus keyed *w variants
// - Init(level) switches the level at runtime

var (
	mu    sync.RWMutex
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar = newSugar(os.Stdout)
)

func newSugar(w io.Writer) *zap.SugaredLogger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// setOutput redirects log output; used by tests.
func setOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	sugar = newSugar(w)
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "warn", "warning":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	case "fatal":
		level.SetLevel(zapcore.FatalLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
}

// LevelString returns the current level as text.
func LevelString() string {
	return level.Level().String()
}

func Debugf(format string, v ...interface{}) { get().Debugf(format, v...) }
func Infof(format string, v ...interface{})  { get().Infof(format, v...) }
func Warnf(format string, v ...interface{})  { get().Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { get().Errorf(format, v...) }

// Fatalf logs and exits with status 1.
func Fatalf(format string, v ...interface{}) { get().Fatalf(format, v...) }

// Keyed variants: msg followed by alternating key/value pairs.
func Debugw(msg string, kv ...interface{}) { get().Debugw(msg, kv...) }
func Infow(msg string, kv ...interface{})  { get().Infow(msg, kv...) }
func Warnw(msg string, kv ...interface{})  { get().Warnw(msg, kv...) }
func Errorw(msg string, kv ...interface{}) { get().Errorw(msg, kv...) }

// Sync flushes buffered entries; call before exit.
func Sync() {
	_ = get().Sync()
}
