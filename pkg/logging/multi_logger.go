package logging

import "errors"

// MultiLogger fans every entry out to a fixed set of loggers, in
// order. Nil loggers are skipped.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger combines loggers, for example a console logger
// for the player and a JSON file for later inspection.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	kept := make([]Logger, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			kept = append(kept, l)
		}
	}
	return &MultiLogger{loggers: kept}
}

func (m *MultiLogger) each(fn func(Logger)) {
	for _, l := range m.loggers {
		fn(l)
	}
}

func (m *MultiLogger) Info(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Info(msg, fields...) })
}

func (m *MultiLogger) Warn(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Warn(msg, fields...) })
}

func (m *MultiLogger) Error(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Error(msg, fields...) })
}

func (m *MultiLogger) Debug(msg string, fields ...Field) {
	m.each(func(l Logger) { l.Debug(msg, fields...) })
}

// WithFields derives every inner logger.
func (m *MultiLogger) WithFields(fields ...Field) Logger {
	derived := make([]Logger, 0, len(m.loggers))
	m.each(func(l Logger) { derived = append(derived, l.WithFields(fields...)) })
	return &MultiLogger{loggers: derived}
}

// Close closes every inner logger, even after a failure.
func (m *MultiLogger) Close() error {
	var errs []error
	m.each(func(l Logger) { errs = append(errs, l.Close()) })
	return errors.Join(errs...)
}
