package tickets

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRGeneratorGenerate(t *testing.T) {
	g := NewQRGenerator(300)

	img, err := g.Generate("GBC-1730000000000-ABC123")
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestQRGeneratorRejectsEmptyPayload(t *testing.T) {
	_, err := NewQRGenerator(0).Generate("")
	assert.ErrorIs(t, err, ErrExternalRendering)
}

func TestQRGeneratorDataURL(t *testing.T) {
	g := NewQRGenerator(0)
	assert.Equal(t, defaultQRSize, g.Size())

	url, err := g.DataURL("GBC-1-XYZ")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	assert.NoError(t, err)
}
