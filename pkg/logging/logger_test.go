package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	out, level, formatter := defaultLogger.Out, defaultLogger.GetLevel(), defaultLogger.Formatter
	t.Cleanup(func() {
		defaultLogger.SetOutput(out)
		defaultLogger.SetLevel(level)
		defaultLogger.SetFormatter(formatter)
	})
}

func TestSetOutputs(t *testing.T) {
	restoreDefault(t)

	t.Run("default", func(t *testing.T) {
		currentOut := defaultLogger.Out
		require.NoError(t, SetOutputs(nil, 0, 0))
		assert.Equal(t, currentOut, defaultLogger.Out, "output should not change by default")
	})

	t.Run("stdout", func(t *testing.T) {
		require.NoError(t, SetOutputs([]string{"-"}, 0, 0))
		assert.Equal(t, os.Stdout, defaultLogger.Out)
	})

	t.Run("stderr", func(t *testing.T) {
		require.NoError(t, SetOutputs([]string{"="}, 0, 0))
		assert.Equal(t, os.Stderr, defaultLogger.Out)
	})

	t.Run("file", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "gitlet.log")
		require.NoError(t, SetOutputs([]string{logFile}, 1, 1))
		require.NoError(t, SetOutputFormat("json"))
		require.NoError(t, SetLevel("info"))

		Default().WithField(BranchFieldKey, "master").Info("switched")

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &rec))
		assert.Equal(t, "switched", rec["msg"])
		assert.Equal(t, "master", rec[BranchFieldKey])
	})
}

func TestSetLevel(t *testing.T) {
	restoreDefault(t)

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, "debug", Level())

	require.NoError(t, SetLevel("WARNING"))
	assert.Equal(t, logrus.WarnLevel, defaultLogger.GetLevel())
	assert.Equal(t, "warning", Level())

	assert.Error(t, SetLevel("loud"))
}

func TestSetOutputFormatUnknown(t *testing.T) {
	restoreDefault(t)
	assert.Error(t, SetOutputFormat("xml"))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "debug")
	require.NoError(t, err)

	log.WithFields(Fields{CommitFieldKey: "abc"}).WithError(errors.New("boom")).Debug("read failed")

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "read failed", rec["msg"])
	assert.Equal(t, "abc", rec[CommitFieldKey])
	assert.Equal(t, "boom", rec["error"])
	assert.Equal(t, "debug", rec["level"])
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.WithField(PathFieldKey, "a.txt").Error("dropped")
}
