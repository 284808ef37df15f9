package barcode_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/infrastructure/barcode"
)

func TestBarcode_EligeFormato(t *testing.T) {
	g := barcode.NewGenerator()
	tests := []struct {
		content string
		format  string
	}{
		{"7702004003508", barcode.FormatEAN13},
		{"96385074", barcode.FormatEAN8},
		{"7702004003509", barcode.FormatCode128}, // dígito de control inválido
		{"SKU-001", barcode.FormatCode128},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			out, format, err := g.Barcode(tt.content, 0, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)

			img, err := png.Decode(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, barcode.DefaultBarWidth, img.Bounds().Dx())
			assert.Equal(t, barcode.DefaultBarHeight, img.Bounds().Dy())
		})
	}
}

func TestBarcode_TamanoInvalido(t *testing.T) {
	g := barcode.NewGenerator()

	_, _, err := g.Barcode("SKU-001", 10, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = g.Barcode("SKU-001", 300, barcode.MaxSize+1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = g.Barcode("", 300, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQR_Cuadrado(t *testing.T) {
	out, err := barcode.NewGenerator().QR("https://pos.example/p/123", 200)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	_, err = barcode.NewGenerator().QR("x", 5000)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
