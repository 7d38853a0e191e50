package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("ruido"))
}

func TestNew_JSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Out: &buf})
	l.Component("ledger").Info().Str("producto", "P-1").Msg("movimiento")
	l.Debug().Msg("oculto")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "ledger", entry["component"])
	assert.Equal(t, "P-1", entry["producto"])
	assert.Equal(t, "movimiento", entry["message"])
}
