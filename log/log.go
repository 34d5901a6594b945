package log

import (
	"context"
	"errors"
	"os"
	"runtime"
	"sync"

	"github.com/goadesign/goa/middleware"
	"github.com/sirupsen/logrus"
)

const defaultTimestampFormat = "2006-01-02 15:04:05"

var (
	mu            sync.RWMutex
	logger        = logrus.New()
	defaultLogger = NewAdapter(logger)
)

// Interface is the logging capability handed to the HTTP endpoint layer and
// to anything else that should not reach for the package level logger.
type Interface interface {
	Debug(ctx context.Context, fields map[string]interface{}, format string, args ...interface{})
	Info(ctx context.Context, fields map[string]interface{}, format string, args ...interface{})
	Warn(ctx context.Context, fields map[string]interface{}, format string, args ...interface{})
	Error(ctx context.Context, fields map[string]interface{}, format string, args ...interface{})
}

// InitializeLogger creates the default logger whose output format and log
// level differ depending on whether the developer mode flag is enabled. An
// empty level keeps the mode's default (debug for developer mode, info
// otherwise).
func InitializeLogger(developerModeFlag bool, level string) error {
	l, err := NewCustomizedLogger(level, developerModeFlag)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	logger = l
	defaultLogger = NewAdapter(l)
	return nil
}

// NewCustomizedLogger creates a custom logger specifying the desired log level
// and the developer mode flag.
func NewCustomizedLogger(level string, developerModeFlag bool) (*logrus.Logger, error) {
	l := logrus.New()
	l.Out = os.Stdout
	if developerModeFlag {
		customFormatter := new(logrus.TextFormatter)
		customFormatter.FullTimestamp = true
		customFormatter.TimestampFormat = defaultTimestampFormat
		l.Formatter = customFormatter
		l.Level = logrus.DebugLevel
	} else {
		customFormatter := new(logrus.JSONFormatter)
		customFormatter.TimestampFormat = defaultTimestampFormat
		l.Formatter = customFormatter
		l.Level = logrus.InfoLevel
	}
	if level != "" {
		lv, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		l.Level = lv
	}
	return l, nil
}

// Logger returns the current logger object.
func Logger() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Default returns the package level logger as an Interface.
func Default() Interface {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Adapter implements Interface on top of a logrus logger. It attaches the
// goa request id found in the context to every entry.
type Adapter struct {
	l *logrus.Logger
}

var _ Interface = (*Adapter)(nil)

// NewAdapter wraps the given logrus logger.
func NewAdapter(l *logrus.Logger) *Adapter {
	return &Adapter{l: l}
}

func (a *Adapter) entry(ctx context.Context, fields map[string]interface{}) *logrus.Entry {
	entry := logrus.NewEntry(a.l)
	if ctx != nil {
		if reqID := middleware.ContextRequestID(ctx); reqID != "" {
			entry = entry.WithField("req_id", reqID)
		}
	}
	return entry.WithFields(fields)
}

// Debug logs a debug message. The fields are added as attributes of the
// entry; format and args describe the reason of the log.
func (a *Adapter) Debug(ctx context.Context, fields map[string]interface{}, format string, args ...interface{}) {
	if !a.l.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	a.entry(ctx, fields).Debugf(format, args...)
}

// Info logs an info message that might contain the request id if provided by
// the context.
func (a *Adapter) Info(ctx context.Context, fields map[string]interface{}, format string, args ...interface{}) {
	if !a.l.IsLevelEnabled(logrus.InfoLevel) {
		return
	}
	a.entry(ctx, fields).Infof(format, args...)
}

// Warn logs a warning message together with the file and the function that
// invoked it.
func (a *Adapter) Warn(ctx context.Context, fields map[string]interface{}, format string, args ...interface{}) {
	a.logWarn(ctx, fields, format, args...)
}

func (a *Adapter) logWarn(ctx context.Context, fields map[string]interface{}, format string, args ...interface{}) {
	if !a.l.IsLevelEnabled(logrus.WarnLevel) {
		return
	}
	entry := a.entry(ctx, fields)
	if file, _, fName, err := extractCallerDetails(); err == nil {
		entry = entry.WithField("file", file).WithField("func", fName)
	}
	entry.Warnf(format, args...)
}

// Error logs an error message with the pid, the request id if provided by the
// context and the file location, line and function name of the caller.
func (a *Adapter) Error(ctx context.Context, fields map[string]interface{}, format string, args ...interface{}) {
	a.logError(ctx, fields, format, args...)
}

func (a *Adapter) logError(ctx context.Context, fields map[string]interface{}, format string, args ...interface{}) {
	if !a.l.IsLevelEnabled(logrus.ErrorLevel) {
		return
	}
	entry := a.entry(ctx, fields).WithField("pid", os.Getpid())
	if file, line, fName, err := extractCallerDetails(); err == nil {
		entry = entry.WithField("file", file).WithField("line", line).WithField("func", fName)
	}
	entry.Errorf(format, args...)
}

// Panic logs a panic message and then panics.
func (a *Adapter) Panic(ctx context.Context, fields map[string]interface{}, format string, args ...interface{}) {
	a.entry(ctx, fields).WithField("pid", os.Getpid()).Panicf(format, args...)
}

// Error logs an error message through the default logger.
func Error(ctx context.Context, fields map[string]interface{}, format string, args ...interface{}) {
	defaultAdapter().logError(ctx, fields, format, args...)
}

// Warn logs a warning message through the default logger.
func Warn(ctx context.Context, fields map[string]interface{}, format string, args ...interface{}) {
	defaultAdapter().logWarn(ctx, fields, format, args...)
}

// Info logs an info message through the default logger.
func Info(ctx context.Context, fields map[string]interface{}, format string, args ...interface{}) {
	defaultAdapter().Info(ctx, fields, format, args...)
}

// Debug logs a debug message through the default logger.
func Debug(ctx context.Context, fields map[string]interface{}, format string, args ...interface{}) {
	defaultAdapter().Debug(ctx, fields, format, args...)
}

// Panic logs a panic message through the default logger and panics.
func Panic(ctx context.Context, fields map[string]interface{}, format string, args ...interface{}) {
	defaultAdapter().Panic(ctx, fields, format, args...)
}

func defaultAdapter() *Adapter {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// extractCallerDetails gets information about the file, line and function that
// called a certain logging method such as Error or Warn. Callers are always
// one frame above logError/logWarn.
func extractCallerDetails() (string, int, string, error) {
	if pc, file, line, ok := runtime.Caller(3); ok {
		fName := runtime.FuncForPC(pc).Name()
		return file, line, fName, nil
	}
	return "", 0, "", errors.New("unable to extract the caller details")
}
