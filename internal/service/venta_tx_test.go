package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"
	"github.com/Josmarcito/sistema-durtron/internal/model"
	"github.com/Josmarcito/sistema-durtron/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens a private in-memory database limited to one connection,
// so any read that escapes the transaction blocks until the deadline.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Equipo{},
		&model.UnidadInventario{},
		&model.Venta{},
		&model.Anticipo{},
		&model.AutorizacionPrecio{},
		&model.MovimientoInventario{},
	))
	return db
}

type ventaDB struct {
	db         *gorm.DB
	svc        VentaService
	ventas     repository.VentaRepository
	inventario repository.InventarioRepository
	equipos    repository.EquipoRepository
	unidad     *model.UnidadInventario
	equipo     *model.Equipo
}

func newVentaDB(t *testing.T) *ventaDB {
	t.Helper()
	db := newSQLiteDB(t)
	eq := &model.Equipo{Codigo: "JC-150", Nombre: "Quebradora de Quijada", PrecioLista: d("100000"), PrecioMinimo: d("90000")}
	require.NoError(t, db.Create(eq).Error)
	u := &model.UnidadInventario{EquipoID: eq.ID, NumeroSerie: "JC-150-001", Estado: model.EstadoDisponible}
	require.NoError(t, db.Create(u).Error)

	ventas := repository.NewVentaRepository(db)
	inventario := repository.NewInventarioRepository(db)
	equipos := repository.NewEquipoRepository(db)
	return &ventaDB{
		db:         db,
		svc:        NewVentaService(ventas, inventario, equipos, NewAutorizadorGerente(nil), nil),
		ventas:     ventas,
		inventario: inventario,
		equipos:    equipos,
		unidad:     u,
		equipo:     eq,
	}
}

func (f *ventaDB) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func deadline(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestRegistrarVenta_UnaSolaConexion(t *testing.T) {
	f := newVentaDB(t)
	req := ventaReq("95000")
	req.AnticipoInicial = d("45000")

	resp, err := f.svc.RegistrarVenta(deadline(t), "admin", f.unidad.ID, req)
	require.NoError(t, err)
	assert.True(t, resp.Saldo.Equal(d("50000")))

	u, err := f.inventario.FindByID(context.Background(), f.unidad.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoVendida, u.Estado)
	assert.EqualValues(t, 1, f.count(t, &model.Anticipo{}))
	assert.EqualValues(t, 1, f.count(t, &model.MovimientoInventario{}))
}

func TestRegistrarVenta_RollbackCompleto(t *testing.T) {
	f := newVentaDB(t)
	// A leftover sale row for the unit makes the insert hit the unique index
	// after the unit has already been flipped to Vendida.
	huerfana := &model.Venta{
		InventarioID:  f.unidad.ID,
		EquipoID:      f.equipo.ID,
		Vendedor:      "Carlos",
		ClienteNombre: "Minera del Norte",
		PrecioLista:   f.equipo.PrecioLista,
		PrecioVenta:   d("95000"),
		FormaPago:     "Efectivo",
		AutorizadoPor: model.AutorizadoAutomatico,
		Estado:        "Anticipo",
	}
	require.NoError(t, f.db.Create(huerfana).Error)

	req := ventaReq("95000")
	req.AnticipoInicial = d("10000")
	_, err := f.svc.RegistrarVenta(deadline(t), "admin", f.unidad.ID, req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apierror.ErrConflict), err)

	u, err := f.inventario.FindByID(context.Background(), f.unidad.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoDisponible, u.Estado, "state flip must be rolled back")
	assert.EqualValues(t, 1, f.count(t, &model.Venta{}))
	assert.EqualValues(t, 0, f.count(t, &model.Anticipo{}))
	assert.EqualValues(t, 0, f.count(t, &model.MovimientoInventario{}))
	assert.EqualValues(t, 0, f.count(t, &model.AutorizacionPrecio{}))
}

func TestAnularVenta_UnaSolaConexion(t *testing.T) {
	f := newVentaDB(t)
	ctx := deadline(t)
	req := ventaReq("95000")
	req.AnticipoInicial = d("5000")
	venta, err := f.svc.RegistrarVenta(ctx, "admin", f.unidad.ID, req)
	require.NoError(t, err)

	require.NoError(t, f.svc.AnularVenta(ctx, "admin", uuid.MustParse(venta.ID), ""))

	u, err := f.inventario.FindByID(context.Background(), f.unidad.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoDisponible, u.Estado)
	assert.EqualValues(t, 0, f.count(t, &model.Venta{}))
	assert.EqualValues(t, 0, f.count(t, &model.Anticipo{}))
}

// staleAnticipos returns an anticipo that a concurrent request already removed.
type staleAnticipos struct {
	repository.VentaRepository
	anticipo *model.Anticipo
}

func (r *staleAnticipos) FindAnticipoByID(context.Context, uuid.UUID) (*model.Anticipo, error) {
	cp := *r.anticipo
	return &cp, nil
}

func TestEliminarAnticipo_BorradoConcurrente(t *testing.T) {
	f := newVentaDB(t)
	ctx := deadline(t)
	req := ventaReq("95000")
	req.AnticipoInicial = d("95000")
	venta, err := f.svc.RegistrarVenta(ctx, "admin", f.unidad.ID, req)
	require.NoError(t, err)

	list, err := f.ventas.ListAnticipos(ctx, uuid.MustParse(venta.ID))
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, f.db.Delete(&model.Anticipo{}, "id = ?", list[0].ID).Error)

	svc := NewVentaService(&staleAnticipos{VentaRepository: f.ventas, anticipo: &list[0]}, f.inventario, f.equipos, NewAutorizadorGerente(nil), nil)
	_, err = svc.EliminarAnticipo(ctx, list[0].ID)
	assert.True(t, errors.Is(err, apierror.ErrNotFound), err)
}

func TestEliminarUnidad_Transaccional(t *testing.T) {
	f := newVentaDB(t)
	ctx := deadline(t)
	inv := NewInventarioService(f.inventario, f.equipos, nil, nil)

	_, err := f.svc.RegistrarVenta(ctx, "admin", f.unidad.ID, ventaReq("95000"))
	require.NoError(t, err)
	err = inv.Eliminar(ctx, f.unidad.ID)
	assert.True(t, errors.Is(err, apierror.ErrConflict), err)

	libre := &model.UnidadInventario{EquipoID: f.equipo.ID, NumeroSerie: "JC-150-002", Estado: model.EstadoDisponible}
	require.NoError(t, f.db.Create(libre).Error)
	require.NoError(t, f.db.Create(&model.MovimientoInventario{InventarioID: libre.ID, Tipo: model.MovimientoIngreso, EstadoNuevo: model.EstadoDisponible, Usuario: "admin"}).Error)

	require.NoError(t, inv.Eliminar(ctx, libre.ID))
	var n int64
	require.NoError(t, f.db.Model(&model.UnidadInventario{}).Where("id = ?", libre.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, f.db.Model(&model.MovimientoInventario{}).Where("inventario_id = ?", libre.ID).Count(&n).Error)
	assert.Zero(t, n)

	err = inv.Eliminar(ctx, uuid.New())
	assert.True(t, errors.Is(err, apierror.ErrNotFound), err)
}
