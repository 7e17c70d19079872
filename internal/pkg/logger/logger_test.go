package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almoxarifado/internal/pkg/logger"
)

func TestLogger_WritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, "debug", false)

	log.Info("Item cadastrado.", map[string]interface{}{"item_id": "abc"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Item cadastrado.", entry["message"])
	assert.Equal(t, "abc", entry["item_id"])
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, "warn", false)

	log.Debug("descartado", nil)
	log.Info("descartado", nil)
	assert.Empty(t, buf.String())

	log.Error("Falha ao gravar.", errors.New("timeout"))
	assert.True(t, strings.Contains(buf.String(), `"error":"timeout"`))
}
