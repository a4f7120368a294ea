package server

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLoggerAdapter(t *testing.T) {
	dir, err := ioutil.TempDir("", "logger")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	file := filepath.Join(dir, "arbiter.log")

	var out bytes.Buffer
	logger := NewLogger(logrus.NewEntry(NewLogrus("info", &out, file)))
	logger.With("module", "docsign").Info("clerk created", "height", 3, "odd")
	logger.Debug("hidden")

	console := out.String()
	assert.Contains(t, console, "clerk created")
	assert.Contains(t, console, "docsign")
	assert.NotContains(t, console, "hidden")

	raw, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "clerk created", entry["msg"])
	assert.Equal(t, float64(3), entry["height"])
	assert.Equal(t, "(missing)", entry["odd"])
	assert.Equal(t, "docsign", entry["prefix"])

	assert.NotNil(t, Entry(logger))
	assert.NotNil(t, Entry(log.NewNopLogger()))
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, LogLevel("debug"))
	assert.Equal(t, logrus.ErrorLevel, LogLevel("error"))
	assert.Equal(t, logrus.InfoLevel, LogLevel("nonsense"))
}
