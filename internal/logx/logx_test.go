package logx

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pkt.systems/pslog"
)

func TestOrFallsBackToDiscard(t *testing.T) {
	l := Or(nil)
	require.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info("dropped", "k", "v") })
}

func TestWithComponentAddsField(t *testing.T) {
	var buf bytes.Buffer
	logger := pslog.NewWithOptions(&buf, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	WithComponent(logger, "board").Info("hello")

	line := bytes.TrimSpace(buf.Bytes())
	require.NotEmpty(t, line)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(line, &entry))
	assert.Equal(t, "board", entry["component"])
}
