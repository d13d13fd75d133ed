package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSensitiveKeys(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"user_id", 7,
		"Authorization", "Bearer abc",
		"jwt_token", "abc",
		"email", "a@b.c",
		"dangling",
	})
	assert.Equal(t, []interface{}{
		"user_id", 7,
		"Authorization", "[REDACTED]",
		"jwt_token", "[REDACTED]",
		"email", "[REDACTED]",
		"dangling",
	}, out)
}

func TestNopLoggerIsUsable(t *testing.T) {
	l := Nop().With("service", "test")
	l.Info("hello", "k", "v")
	l.Sync()
}
