package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"
	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventarioFixture() (InventarioService, *stubInventarioRepo, *model.Equipo, *stubRenderer) {
	equipo := &model.Equipo{Codigo: "CV-3616", Nombre: "Criba Vibratoria", PrecioLista: d("250000"), PrecioMinimo: d("230000")}
	equipos := newStubEquipoRepo(equipo)
	inv := newStubInventarioRepo(equipos)
	renderer := &stubRenderer{}
	svc := NewInventarioService(inv, equipos, NewSerieService(newStubSerieRepo()), renderer)
	return svc, inv, equipo, renderer
}

func TestInventario_CrearAsignaSerie(t *testing.T) {
	svc, inv, equipo, _ := newInventarioFixture()
	ctx := context.Background()

	u1, err := svc.Crear(ctx, "admin", dto.CrearUnidadRequest{EquipoID: equipo.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "CV-3616-001", u1.NumeroSerie)
	assert.Equal(t, model.EstadoDisponible, u1.Estado)
	assert.Equal(t, "Planta 1", u1.Ubicacion)
	assert.Equal(t, "Criba Vibratoria", u1.EquipoNombre)

	u2, err := svc.Crear(ctx, "admin", dto.CrearUnidadRequest{EquipoID: equipo.ID.String(), Estado: model.EstadoEnFabricacion})
	require.NoError(t, err)
	assert.Equal(t, "CV-3616-002", u2.NumeroSerie)

	require.Len(t, inv.movimientos, 2)
	assert.Equal(t, model.MovimientoIngreso, inv.movimientos[0].Tipo)
}

func TestInventario_CrearErrores(t *testing.T) {
	svc, _, equipo, _ := newInventarioFixture()
	ctx := context.Background()

	_, err := svc.Crear(ctx, "admin", dto.CrearUnidadRequest{EquipoID: uuid.NewString()})
	assert.True(t, errors.Is(err, apierror.ErrNotFound))

	_, err = svc.Crear(ctx, "admin", dto.CrearUnidadRequest{EquipoID: equipo.ID.String(), Estado: model.EstadoVendida})
	assert.True(t, errors.Is(err, apierror.ErrValidation))

	_, err = svc.Crear(ctx, "admin", dto.CrearUnidadRequest{EquipoID: equipo.ID.String(), Estado: "Perdida"})
	assert.True(t, errors.Is(err, apierror.ErrValidation))

	_, err = svc.Crear(ctx, "admin", dto.CrearUnidadRequest{EquipoID: equipo.ID.String(), NumeroSerie: "X-1"})
	require.NoError(t, err)
	_, err = svc.Crear(ctx, "admin", dto.CrearUnidadRequest{EquipoID: equipo.ID.String(), NumeroSerie: "X-1"})
	assert.True(t, errors.Is(err, apierror.ErrConflict))
}

func TestInventario_CambiarEstado(t *testing.T) {
	svc, inv, equipo, _ := newInventarioFixture()
	ctx := context.Background()
	u, err := svc.Crear(ctx, "admin", dto.CrearUnidadRequest{EquipoID: equipo.ID.String()})
	require.NoError(t, err)
	id := uuid.MustParse(u.ID)

	planta := "Planta 2"
	got, err := svc.CambiarEstado(ctx, "luis", id, dto.CambiarEstadoRequest{Estado: model.EstadoApartada, Ubicacion: &planta, Notas: "apartada para cliente"})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoApartada, got.Estado)
	assert.Equal(t, "Planta 2", got.Ubicacion)

	movs, err := svc.Movimientos(ctx, id)
	require.NoError(t, err)
	require.Len(t, movs, 2)

	_, err = svc.CambiarEstado(ctx, "luis", id, dto.CambiarEstadoRequest{Estado: model.EstadoVendida})
	assert.True(t, errors.Is(err, apierror.ErrValidation))

	inv.unidades[id].Estado = model.EstadoVendida
	_, err = svc.CambiarEstado(ctx, "luis", id, dto.CambiarEstadoRequest{Estado: model.EstadoDisponible})
	assert.True(t, errors.Is(err, apierror.ErrConflict))

	err = svc.Eliminar(ctx, id)
	assert.True(t, errors.Is(err, apierror.ErrConflict))
}

func TestInventario_Etiqueta(t *testing.T) {
	svc, _, equipo, renderer := newInventarioFixture()
	ctx := context.Background()
	u, err := svc.Crear(ctx, "admin", dto.CrearUnidadRequest{EquipoID: equipo.ID.String()})
	require.NoError(t, err)

	pdf, nombre, err := svc.Etiqueta(ctx, uuid.MustParse(u.ID))
	require.NoError(t, err)
	assert.Equal(t, "etiqueta-CV-3616-001.pdf", nombre)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, 1, renderer.llamadas)

	_, _, err = svc.Etiqueta(ctx, uuid.New())
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
}
