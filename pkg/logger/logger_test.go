package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/pkg/logger"
)

func TestNewWithWriter_JSONConCampos(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, logger.Config{Level: "info", Service: "tienda-api"})

	l.Named("orders").Info().Str("order_id", "o-1").Msg("orden registrada")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev), "la salida debe ser JSON")
	assert.Equal(t, "tienda-api", ev["service"])
	assert.Equal(t, "orders", ev["component"])
	assert.Equal(t, "o-1", ev["order_id"])
	assert.Equal(t, "orden registrada", ev["message"])
}

func TestNewWithWriter_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, logger.Config{Level: "warn"})

	l.Info().Msg("no debe aparecer")
	assert.Zero(t, buf.Len(), "info no debe escribirse con nivel warn")

	l.Warn().Msg("sí aparece")
	assert.NotZero(t, buf.Len())
}

func TestNop_NoEscribe(t *testing.T) {
	l := logger.Nop()
	assert.NotPanics(t, func() { l.Error().Msg("descartado") })
}
