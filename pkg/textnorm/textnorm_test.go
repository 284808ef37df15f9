package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-api/pkg/textnorm"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "cafe organico", textnorm.Fold("  Café   Orgánico "))
	assert.Equal(t, "nino", textnorm.Fold("NIÑO"))
	assert.Equal(t, "", textnorm.Fold("   "))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "azucar morena a-001 7701234567890", textnorm.Join("Azúcar Morena", "A-001", "", "7701234567890"))
}
