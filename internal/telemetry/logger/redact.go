package logger

import (
	"log/slog"
	"strings"
)

// redactedValue replaces masked attribute values.
const redactedValue = "***REDACTED***"

// secretMarkers match attribute names that carry secrets. Deliberately
// narrow: a bare "key" would swallow entry keys, which are ordinary
// domain data in a key-value store, so only secret-bearing names match.
var secretMarkers = []string{
	"passphrase",
	"password",
	"secret",
	"credential",
	"encryption_key",
	"key_file_material",
}

// redactSensitive masks string attributes whose name suggests secret
// content, descending into groups.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		if a.Value.String() != "" && isSensitiveKey(a.Key) {
			a.Value = slog.StringValue(redactedValue)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		masked := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			masked[i] = redactSensitive(attr)
		}
		a.Value = slog.GroupValue(masked...)
	}
	return a
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, marker := range secretMarkers {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}
