package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("VerboseEmitsDebug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := New(true, &buf)

		log.Debug("loaded ignore rules", zap.String("dir", "proj"), zap.Int("rules", 2))
		_ = log.Sync()

		out := buf.String()
		assert.Contains(t, out, "DEBUG")
		assert.Contains(t, out, "loaded ignore rules")
		assert.Contains(t, out, `"dir": "proj"`)
	})

	t.Run("QuietDropsDebug", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := New(false, &buf)

		log.Debug("excluded entry")
		log.Info("walk finished")
		_ = log.Sync()

		assert.Empty(t, buf.String())
	})

	t.Run("QuietKeepsWarnings", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := New(false, &buf)

		log.Warn("cannot read ignore file")
		_ = log.Sync()

		assert.Contains(t, buf.String(), "cannot read ignore file")
	})
}
