package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	tests := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"WARN":    logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"":        logrus.InfoLevel,
		"verbose": logrus.InfoLevel,
	}
	for in, want := range tests {
		SetLevel(in)
		assert.Equal(t, want, Logger.GetLevel(), "level %q", in)
	}
}

func TestJSONFormat_StructuredFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat("json")
	defer SetOutput(os.Stdout)

	WithFields(logrus.Fields{"asset": "fitness-hero-gym.jpg", "category": "hero"}).Info("asset classified")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "asset classified", entry["msg"])
	assert.Equal(t, "fitness-hero-gym.jpg", entry["asset"])
	assert.Equal(t, "hero", entry["category"])
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetFormat("text")
	defer func() {
		SetOutput(os.Stdout)
		SetFormat("json")
	}()

	WithField("industry", "legal").Warn("no templates found")

	assert.Contains(t, buf.String(), "no templates found")
	assert.Contains(t, buf.String(), "industry=legal")
}
