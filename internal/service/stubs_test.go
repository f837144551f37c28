package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"
	"github.com/Josmarcito/sistema-durtron/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory repositories ────────────────────────────────────────────────────
// DB() returns nil so runTx calls the closure directly with a nil tx.

type stubEquipoRepo struct {
	equipos   map[uuid.UUID]*model.Equipo
	historial []model.HistorialPrecio
}

func newStubEquipoRepo(equipos ...*model.Equipo) *stubEquipoRepo {
	r := &stubEquipoRepo{equipos: map[uuid.UUID]*model.Equipo{}}
	for _, e := range equipos {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		r.equipos[e.ID] = e
	}
	return r
}

func (r *stubEquipoRepo) Create(_ context.Context, e *model.Equipo) error {
	for _, x := range r.equipos {
		if x.Codigo == e.Codigo {
			return gorm.ErrDuplicatedKey
		}
	}
	e.ID = uuid.New()
	cp := *e
	r.equipos[e.ID] = &cp
	return nil
}

func (r *stubEquipoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Equipo, error) {
	e, ok := r.equipos[id]
	if !ok {
		return &model.Equipo{}, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *stubEquipoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Equipo, error) {
	for _, e := range r.equipos {
		if e.Codigo == codigo {
			cp := *e
			return &cp, nil
		}
	}
	return &model.Equipo{}, gorm.ErrRecordNotFound
}

func (r *stubEquipoRepo) List(_ context.Context, _ dto.EquipoFilter) ([]model.Equipo, int64, error) {
	out := make([]model.Equipo, 0, len(r.equipos))
	for _, e := range r.equipos {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, int64(len(out)), nil
}

func (r *stubEquipoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.equipos, id)
	return nil
}

func (r *stubEquipoRepo) Count(context.Context) (int64, error) { return int64(len(r.equipos)), nil }

func (r *stubEquipoRepo) UpsertByCodigo(ctx context.Context, e *model.Equipo) error {
	if x, err := r.FindByCodigo(ctx, e.Codigo); err == nil {
		e.ID = x.ID
		cp := *e
		r.equipos[e.ID] = &cp
		return nil
	}
	return r.Create(ctx, e)
}

func (r *stubEquipoRepo) UpdateTx(_ *gorm.DB, e *model.Equipo) error {
	cp := *e
	r.equipos[e.ID] = &cp
	return nil
}

func (r *stubEquipoRepo) CreateHistorialTx(_ *gorm.DB, h *model.HistorialPrecio) error {
	h.ID = uuid.New()
	h.CreatedAt = time.Now()
	r.historial = append(r.historial, *h)
	return nil
}

func (r *stubEquipoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Equipo, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubEquipoRepo) DB() *gorm.DB { return nil }

type stubHistorialRepo struct{ equipos *stubEquipoRepo }

func (r *stubHistorialRepo) ListByEquipo(_ context.Context, equipoID uuid.UUID, _, _ int) ([]model.HistorialPrecio, int64, error) {
	var out []model.HistorialPrecio
	for _, h := range r.equipos.historial {
		if h.EquipoID == equipoID {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

type stubInventarioRepo struct {
	equipos     *stubEquipoRepo
	unidades    map[uuid.UUID]*model.UnidadInventario
	movimientos []model.MovimientoInventario
}

func newStubInventarioRepo(equipos *stubEquipoRepo, unidades ...*model.UnidadInventario) *stubInventarioRepo {
	r := &stubInventarioRepo{equipos: equipos, unidades: map[uuid.UUID]*model.UnidadInventario{}}
	for _, u := range unidades {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.unidades[u.ID] = u
	}
	return r
}

func (r *stubInventarioRepo) find(id uuid.UUID) (*model.UnidadInventario, error) {
	u, ok := r.unidades[id]
	if !ok {
		return &model.UnidadInventario{}, gorm.ErrRecordNotFound
	}
	cp := *u
	if e, ok := r.equipos.equipos[u.EquipoID]; ok {
		ec := *e
		cp.Equipo = &ec
	}
	return &cp, nil
}

func (r *stubInventarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.UnidadInventario, error) {
	return r.find(id)
}

func (r *stubInventarioRepo) List(_ context.Context, f dto.InventarioFilter) ([]model.UnidadInventario, int64, error) {
	var out []model.UnidadInventario
	for id := range r.unidades {
		u, _ := r.find(id)
		if f.Estado != "" && u.Estado != f.Estado {
			continue
		}
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *stubInventarioRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.unidades, id)
	return nil
}

func (r *stubInventarioRepo) CountByEquipo(_ context.Context, equipoID uuid.UUID, estado string) (int64, error) {
	var n int64
	for _, u := range r.unidades {
		if u.EquipoID == equipoID && (estado == "" || u.Estado == estado) {
			n++
		}
	}
	return n, nil
}

func (r *stubInventarioRepo) ListMovimientos(_ context.Context, id uuid.UUID) ([]model.MovimientoInventario, error) {
	var out []model.MovimientoInventario
	for _, m := range r.movimientos {
		if m.InventarioID == id {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubInventarioRepo) CreateTx(_ *gorm.DB, u *model.UnidadInventario) error {
	for _, x := range r.unidades {
		if x.NumeroSerie == u.NumeroSerie {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = uuid.New()
	cp := *u
	cp.Equipo = nil
	r.unidades[u.ID] = &cp
	return nil
}

func (r *stubInventarioRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.UnidadInventario, error) {
	u, ok := r.unidades[id]
	if !ok {
		return &model.UnidadInventario{}, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubInventarioRepo) MarcarVendidaTx(_ *gorm.DB, id uuid.UUID) (bool, error) {
	u, ok := r.unidades[id]
	if !ok || u.Estado == model.EstadoVendida {
		return false, nil
	}
	u.Estado = model.EstadoVendida
	return true, nil
}

func (r *stubInventarioRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string, ubicacion *string) error {
	u, ok := r.unidades[id]
	if !ok {
		return nil
	}
	u.Estado = estado
	if ubicacion != nil {
		u.Ubicacion = *ubicacion
	}
	return nil
}

func (r *stubInventarioRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoInventario) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubInventarioRepo) DB() *gorm.DB { return nil }

type stubVentaRepo struct {
	ventas         map[uuid.UUID]*model.Venta
	anticipos      map[uuid.UUID]*model.Anticipo
	autorizaciones []model.AutorizacionPrecio
	porUnidad      map[uuid.UUID]uuid.UUID
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{
		ventas:    map[uuid.UUID]*model.Venta{},
		anticipos: map[uuid.UUID]*model.Anticipo{},
		porUnidad: map[uuid.UUID]uuid.UUID{},
	}
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return &model.Venta{}, gorm.ErrRecordNotFound
	}
	cp := *v
	for _, a := range r.anticipos {
		if a.VentaID == id {
			cp.Anticipos = append(cp.Anticipos, *a)
		}
	}
	return &cp, nil
}

func (r *stubVentaRepo) List(_ context.Context, f dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if f.Estado != "" && v.Estado != f.Estado {
			continue
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) FindAnticipoByID(_ context.Context, id uuid.UUID) (*model.Anticipo, error) {
	a, ok := r.anticipos[id]
	if !ok {
		return &model.Anticipo{}, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *stubVentaRepo) ListAnticipos(_ context.Context, ventaID uuid.UUID) ([]model.Anticipo, error) {
	var out []model.Anticipo
	for _, a := range r.anticipos {
		if a.VentaID == ventaID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubVentaRepo) ListDescuadradas(context.Context, int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, v := range r.ventas {
		total, _ := r.SumAnticiposTx(nil, id)
		if !total.Equal(v.TotalAbonado) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if _, dup := r.porUnidad[v.InventarioID]; dup {
		return gorm.ErrDuplicatedKey
	}
	v.ID = uuid.New()
	cp := *v
	r.ventas[v.ID] = &cp
	r.porUnidad[v.InventarioID] = v.ID
	return nil
}

func (r *stubVentaRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return &model.Venta{}, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVentaRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	for aid, a := range r.anticipos {
		if a.VentaID == id {
			delete(r.anticipos, aid)
		}
	}
	if v, ok := r.ventas[id]; ok {
		delete(r.porUnidad, v.InventarioID)
	}
	delete(r.ventas, id)
	return nil
}

func (r *stubVentaRepo) CreateAnticipoTx(_ *gorm.DB, a *model.Anticipo) error {
	a.ID = uuid.New()
	cp := *a
	r.anticipos[a.ID] = &cp
	return nil
}

func (r *stubVentaRepo) DeleteAnticipoTx(_ *gorm.DB, id uuid.UUID) error {
	if _, ok := r.anticipos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.anticipos, id)
	return nil
}

func (r *stubVentaRepo) SumAnticiposTx(_ *gorm.DB, ventaID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range r.anticipos {
		if a.VentaID == ventaID {
			total = total.Add(a.Monto)
		}
	}
	return total, nil
}

func (r *stubVentaRepo) UpdateLiquidacionTx(_ *gorm.DB, ventaID uuid.UUID, total decimal.Decimal, estado string) error {
	if v, ok := r.ventas[ventaID]; ok {
		v.TotalAbonado = total
		v.Estado = estado
	}
	return nil
}

func (r *stubVentaRepo) CreateAutorizacionTx(_ *gorm.DB, a *model.AutorizacionPrecio) error {
	a.ID = uuid.New()
	r.autorizaciones = append(r.autorizaciones, *a)
	return nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

type stubSerieRepo struct {
	mu         sync.Mutex
	contadores map[string]int
}

func newStubSerieRepo() *stubSerieRepo { return &stubSerieRepo{contadores: map[string]int{}} }

func (r *stubSerieRepo) Incrementar(_ context.Context, codigo string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contadores[codigo]++
	return r.contadores[codigo], nil
}

func (r *stubSerieRepo) Liberar(_ context.Context, codigo string, objetivo *int) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.contadores[codigo]
	if !ok {
		return 0, false, nil
	}
	switch {
	case objetivo != nil:
		n = *objetivo
	case n > 0:
		n--
	}
	r.contadores[codigo] = n
	return n, true, nil
}

func (r *stubSerieRepo) Actual(_ context.Context, codigo string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.contadores[codigo], nil
}

// ── Collaborators ─────────────────────────────────────────────────────────────

type stubNotificador struct {
	emails    []worker.EmailJobPayload
	whatsapps []worker.WhatsAppJobPayload
	err       error
}

func (n *stubNotificador) EnqueueEmail(_ context.Context, p worker.EmailJobPayload) error {
	if n.err != nil {
		return n.err
	}
	n.emails = append(n.emails, p)
	return nil
}

func (n *stubNotificador) EnqueueWhatsApp(_ context.Context, p worker.WhatsAppJobPayload) error {
	if n.err != nil {
		return n.err
	}
	n.whatsapps = append(n.whatsapps, p)
	return nil
}

type stubRenderer struct{ llamadas int }

func (r *stubRenderer) Etiqueta(*model.UnidadInventario) ([]byte, error) {
	r.llamadas++
	return []byte("%PDF-etiqueta"), nil
}

func (r *stubRenderer) Cotizacion(*model.Cotizacion) ([]byte, error) {
	r.llamadas++
	return []byte("%PDF-cotizacion"), nil
}

func (r *stubRenderer) Requisicion(*model.Requisicion) ([]byte, error) {
	r.llamadas++
	return []byte("%PDF-requisicion"), nil
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }
