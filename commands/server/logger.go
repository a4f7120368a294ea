package server

import (
	"fmt"
	"io"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/tendermint/tendermint/libs/log"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// NewLogrus returns a logger writing human readable lines to out. When
// file is not empty, all entries are also written to that file.
func NewLogrus(level string, out io.Writer, file string) *logrus.Logger {
	return SetupLogrus(logrus.New(), level, out, file)
}

// SetupLogrus configures an existing logger the way NewLogrus does.
func SetupLogrus(logger *logrus.Logger, level string, out io.Writer, file string) *logrus.Logger {
	logger.Out = out
	logger.Level = LogLevel(level)
	logger.Formatter = &prefixed.TextFormatter{FullTimestamp: true}

	if file != "" {
		pathMap := lfshook.PathMap{}
		for _, lvl := range logrus.AllLevels {
			pathMap[lvl] = file
		}
		logger.Hooks.Add(lfshook.NewHook(pathMap, &logrus.JSONFormatter{}))
	}
	return logger
}

// LogLevel parses a string into a logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// NewLogger returns a tendermint logger writing through logrus.
func NewLogger(entry *logrus.Entry) log.Logger {
	return logrusLogger{entry: entry}
}

// Entry returns the logrus entry behind a logger created by NewLogger, or
// an entry of the standard logger.
func Entry(logger log.Logger) *logrus.Entry {
	if l, ok := logger.(logrusLogger); ok {
		return l.entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

type logrusLogger struct {
	entry *logrus.Entry
}

var _ log.Logger = logrusLogger{}

func (l logrusLogger) Debug(msg string, keyvals ...interface{}) {
	l.entry.WithFields(fields(keyvals)).Debug(msg)
}

func (l logrusLogger) Info(msg string, keyvals ...interface{}) {
	l.entry.WithFields(fields(keyvals)).Info(msg)
}

func (l logrusLogger) Error(msg string, keyvals ...interface{}) {
	l.entry.WithFields(fields(keyvals)).Error(msg)
}

func (l logrusLogger) With(keyvals ...interface{}) log.Logger {
	f := fields(keyvals)
	// "module" is rendered as the line prefix.
	if m, ok := f["module"]; ok {
		f["prefix"] = m
		delete(f, "module")
	}
	return logrusLogger{entry: l.entry.WithFields(f)}
}

// fields converts tendermint style key value pairs.
func fields(keyvals []interface{}) logrus.Fields {
	f := make(logrus.Fields, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if i+1 == len(keyvals) {
			f[key] = "(missing)"
			break
		}
		f[key] = keyvals[i+1]
	}
	return f
}
