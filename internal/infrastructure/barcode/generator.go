// Package barcode genera imágenes PNG de códigos de barras y QR para etiquetas de producto.
package barcode

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/qr"

	"github.com/jhoicas/pos-api/internal/domain"
)

// Límites de tamaño en píxeles.
const (
	MinSize = 32
	MaxSize = 2048

	DefaultBarWidth  = 300
	DefaultBarHeight = 120
	DefaultQRSize    = 256
)

// Formatos de código de barras.
const (
	FormatEAN13   = "ean13"
	FormatEAN8    = "ean8"
	FormatCode128 = "code128"
)

// Generator produce PNGs. Sin estado; seguro para uso concurrente.
type Generator struct{}

// NewGenerator construye el generador.
func NewGenerator() *Generator { return &Generator{} }

// Barcode genera el PNG del código. Contenido numérico de 8 o 13 dígitos con dígito de
// control válido se codifica como EAN; lo demás como Code128. Devuelve también el formato usado.
func (g *Generator) Barcode(content string, width, height int) ([]byte, string, error) {
	if content == "" {
		return nil, "", fmt.Errorf("%w: contenido vacío", domain.ErrInvalidInput)
	}
	if width == 0 {
		width = DefaultBarWidth
	}
	if height == 0 {
		height = DefaultBarHeight
	}
	if err := checkSize(width, height); err != nil {
		return nil, "", err
	}

	bc, format, err := encodeLinear(content)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if width < bc.Bounds().Dx() {
		return nil, "", fmt.Errorf("%w: ancho mínimo para este código es %d", domain.ErrInvalidInput, bc.Bounds().Dx())
	}
	out, err := render(bc, width, height)
	return out, format, err
}

// QR genera el PNG de un código QR cuadrado de size píxeles (corrección M).
func (g *Generator) QR(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: contenido vacío", domain.ErrInvalidInput)
	}
	if size == 0 {
		size = DefaultQRSize
	}
	if err := checkSize(size, size); err != nil {
		return nil, err
	}
	bc, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if size < bc.Bounds().Dx() {
		return nil, fmt.Errorf("%w: tamaño mínimo para este QR es %d", domain.ErrInvalidInput, bc.Bounds().Dx())
	}
	return render(bc, size, size)
}

func encodeLinear(content string) (barcode.Barcode, string, error) {
	if isDigits(content) && (len(content) == 8 || len(content) == 13) {
		if bc, err := ean.Encode(content); err == nil {
			if len(content) == 8 {
				return bc, FormatEAN8, nil
			}
			return bc, FormatEAN13, nil
		}
	}
	bc, err := code128.Encode(content)
	if err != nil {
		return nil, "", err
	}
	return bc, FormatCode128, nil
}

func render(bc barcode.Barcode, width, height int) ([]byte, error) {
	scaled, err := barcode.Scale(bc, width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("barcode: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func checkSize(width, height int) error {
	for _, v := range []int{width, height} {
		if v < MinSize || v > MaxSize {
			return fmt.Errorf("%w: el tamaño debe estar entre %d y %d píxeles", domain.ErrInvalidInput, MinSize, MaxSize)
		}
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
