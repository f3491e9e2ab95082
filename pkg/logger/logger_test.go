package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	l := newLogger()

	require.NotNil(t, l)
	formatter, ok := l.Formatter.(*logrus.TextFormatter)
	require.True(t, ok)
	assert.Equal(t, time.RFC3339Nano, formatter.TimestampFormat)
	assert.True(t, formatter.FullTimestamp)
}

func TestGetLogger_Fallback(t *testing.T) {
	ctx := context.Background()

	entry := GetLogger(ctx)
	require.NotNil(t, entry)
	assert.Equal(t, L.Logger, entry.Logger)
}

func TestWithLogger_RoundTrip(t *testing.T) {
	custom := logrus.NewEntry(logrus.New()).WithField("component", "test")
	ctx := WithLogger(context.Background(), custom)

	entry := GetLogger(ctx)
	require.NotNil(t, entry)
	assert.Equal(t, custom.Logger, entry.Logger)
	assert.Equal(t, "test", entry.Data["component"])
}

func TestG_IsAlias(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, GetLogger(ctx).Logger, G(ctx).Logger)
}

func TestSetLogLevel(t *testing.T) {
	defer SetLogLevel("info")

	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	assert.Error(t, SetLogLevel("not-a-level"))
}

func TestSetLogFormat_JSON(t *testing.T) {
	defer SetLogFormat("fmt")

	var buf bytes.Buffer
	SetLogOutput(&buf)
	defer SetLogOutput(logrus.New().Out)

	SetLogFormat("json")
	L.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["message"])
	assert.Contains(t, record, "timestamp")
	assert.Contains(t, record, "logLevel")
}
