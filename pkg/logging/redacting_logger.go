package logging

import "strings"

// Masked replaces the value of every redacted field.
const Masked = "****"

// DefaultRedactedKeys are field keys whose values would reveal a
// challenge's solution in logs.
var DefaultRedactedKeys = []string{
	"answer", "answers", "correct", "solution", "pattern", "input",
}

// RedactingLogger masks the values of answer-bearing fields before
// handing entries to the inner logger. Keys match case-insensitively.
type RedactingLogger struct {
	inner Logger
	keys  map[string]struct{}
}

// NewRedactingLogger wraps inner. With no keys, DefaultRedactedKeys
// is used.
func NewRedactingLogger(inner Logger, keys ...string) *RedactingLogger {
	if len(keys) == 0 {
		keys = DefaultRedactedKeys
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[strings.ToLower(k)] = struct{}{}
	}
	return &RedactingLogger{inner: inner, keys: set}
}

// Redacts reports whether values under key are masked.
func (r *RedactingLogger) Redacts(key string) bool {
	_, ok := r.keys[strings.ToLower(key)]
	return ok
}

func (r *RedactingLogger) mask(fields []Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		if r.Redacts(f.Key) {
			f.Value = Masked
		}
		out[i] = f
	}
	return out
}

func (r *RedactingLogger) Info(msg string, fields ...Field) {
	r.inner.Info(msg, r.mask(fields)...)
}

func (r *RedactingLogger) Warn(msg string, fields ...Field) {
	r.inner.Warn(msg, r.mask(fields)...)
}

func (r *RedactingLogger) Error(msg string, fields ...Field) {
	r.inner.Error(msg, r.mask(fields)...)
}

func (r *RedactingLogger) Debug(msg string, fields ...Field) {
	r.inner.Debug(msg, r.mask(fields)...)
}

// WithFields masks the default fields once and keeps redacting
// later entries.
func (r *RedactingLogger) WithFields(fields ...Field) Logger {
	return &RedactingLogger{
		inner: r.inner.WithFields(r.mask(fields)...),
		keys:  r.keys,
	}
}

// Close closes the inner logger.
func (r *RedactingLogger) Close() error {
	return r.inner.Close()
}
