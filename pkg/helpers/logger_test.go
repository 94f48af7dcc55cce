package helpers

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Equal(t, logrus.DebugLevel, newLogger(&buf, "blog", "development", "").GetLevel())
	assert.Equal(t, logrus.InfoLevel, newLogger(&buf, "blog", "production", "").GetLevel())
	assert.Equal(t, logrus.WarnLevel, newLogger(&buf, "blog", "production", "warn").GetLevel())
	assert.Equal(t, logrus.InfoLevel, newLogger(&buf, "blog", "production", "loud").GetLevel())
}

func TestLogErrorAddsErrorField(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, "blog", "production", "")
	buf.Reset()

	LogError(logger, "publish failed", errors.New("channel closed"), logrus.Fields{"queue": "emails"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "publish failed", line["msg"])
	assert.Equal(t, "channel closed", line["error"])
	assert.Equal(t, "emails", line["queue"])
}
