package main

import (
	"github.com/sirupsen/logrus"
)

// logrusLogger adapts logrus to the provisioner's Logger interface.
type logrusLogger struct {
	log *logrus.Logger
}

func newLogrusLogger(verbose bool) *logrusLogger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return &logrusLogger{log: log}
}

func (l *logrusLogger) Debug(msg string, keysAndValues ...any) {
	l.log.WithFields(fields(keysAndValues)).Debug(msg)
}

func (l *logrusLogger) Info(msg string, keysAndValues ...any) {
	l.log.WithFields(fields(keysAndValues)).Info(msg)
}

func (l *logrusLogger) Warn(msg string, keysAndValues ...any) {
	l.log.WithFields(fields(keysAndValues)).Warn(msg)
}

func (l *logrusLogger) Error(msg string, keysAndValues ...any) {
	l.log.WithFields(fields(keysAndValues)).Error(msg)
}

// fields pairs up variadic key/value arguments; a trailing odd key is
// kept under "arg".
func fields(keysAndValues []any) logrus.Fields {
	f := make(logrus.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		f[key] = keysAndValues[i+1]
	}
	if len(keysAndValues)%2 == 1 {
		f["arg"] = keysAndValues[len(keysAndValues)-1]
	}
	return f
}
