package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: "json", Output: &buf})

	log.WithField("order_id", "abc").Debug("computed totals")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "computed totals", entry["msg"])
	assert.Equal(t, "abc", entry["order_id"])
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	log := New(Options{Level: "loud"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
