package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldRole is the structured log field key for the requesting role.
	FieldRole = "role"
	// FieldProfileID is the structured log field key for the profile identifier.
	FieldProfileID = "profile_id"
	// FieldNeedID is the structured log field key for a need identifier.
	FieldNeedID = "need_id"
	// FieldRequestID is the structured log field key for an HTTP request identifier.
	FieldRequestID = "request_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// If the logger is nil or no fields are supplied, the input logger is returned
// unchanged, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// MatchFields returns the fields that identify a recommendation request.
// Empty values are ignored to keep log entries compact when information is missing.
func MatchFields(role, profileID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldRole, Value: role},
		StringField{Key: FieldProfileID, Value: profileID},
	)
}

// WithMatchFields attaches the request fields to the provided logger.
func WithMatchFields(logger *zap.Logger, role, profileID string) *zap.Logger {
	return WithFields(logger, MatchFields(role, profileID)...)
}
