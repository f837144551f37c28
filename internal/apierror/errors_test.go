package apierror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds_SurviveWrapping(t *testing.T) {
	err := fmt.Errorf("registrar venta: %w", Conflict("la unidad %s ya fue vendida", "JC-150-001"))

	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "JC-150-001")
}

func TestAuthorization_Unwrap(t *testing.T) {
	err := fmt.Errorf("venta: %w", Authorization("precio por debajo del minimo"))

	ae, ok := IsAuthorization(err)
	assert.True(t, ok)
	assert.True(t, ae.RequiereAutorizacion)
	assert.Equal(t, "precio por debajo del minimo", ae.Motivo)

	_, ok = IsAuthorization(Validation("x"))
	assert.False(t, ok)
}
