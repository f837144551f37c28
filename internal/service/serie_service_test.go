package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatearSerie(t *testing.T) {
	assert.Equal(t, "JC-150-001", FormatearSerie("JC-150", 1))
	assert.Equal(t, "JC-150-042", FormatearSerie("JC-150", 42))
	assert.Equal(t, "JC-150-1234", FormatearSerie("JC-150", 1234))
}

func TestSerieService_SiguienteYLiberar(t *testing.T) {
	svc := NewSerieService(newStubSerieRepo())
	ctx := context.Background()

	for i, want := range []string{"MB-24-001", "MB-24-002", "MB-24-003"} {
		got, err := svc.Siguiente(ctx, " mb-24 ")
		require.NoError(t, err)
		assert.Equal(t, want, got.Serie)
		assert.Equal(t, i+1, got.Contador)
	}

	lib, err := svc.Liberar(ctx, "MB-24", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, lib.Contador)

	next, err := svc.Siguiente(ctx, "MB-24")
	require.NoError(t, err)
	assert.Equal(t, "MB-24-003", next.Serie)

	cero := 0
	lib, err = svc.Liberar(ctx, "MB-24", &cero)
	require.NoError(t, err)
	assert.Equal(t, 0, lib.Contador)

	lib, err = svc.Liberar(ctx, "MB-24", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, lib.Contador, "never below zero")

	actual, err := svc.Actual(ctx, "MB-24")
	require.NoError(t, err)
	assert.Equal(t, 0, actual.Contador)
	assert.Empty(t, actual.Serie)
}

func TestSerieService_Errores(t *testing.T) {
	svc := NewSerieService(newStubSerieRepo())
	ctx := context.Background()

	_, err := svc.Siguiente(ctx, "  ")
	assert.True(t, errors.Is(err, apierror.ErrValidation))

	_, err = svc.Liberar(ctx, "NO-EXISTE", nil)
	assert.True(t, errors.Is(err, apierror.ErrNotFound))

	neg := -1
	_, err = svc.Liberar(ctx, "MB-24", &neg)
	assert.True(t, errors.Is(err, apierror.ErrValidation))
}
