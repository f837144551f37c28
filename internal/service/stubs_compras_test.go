package service

import (
	"context"
	"sort"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubCotizacionRepo struct {
	cotizaciones map[uuid.UUID]*model.Cotizacion
}

func newStubCotizacionRepo() *stubCotizacionRepo {
	return &stubCotizacionRepo{cotizaciones: map[uuid.UUID]*model.Cotizacion{}}
}

func (r *stubCotizacionRepo) Create(_ context.Context, c *model.Cotizacion) error {
	c.ID = uuid.New()
	for i := range c.Items {
		c.Items[i].ID = uuid.New()
		c.Items[i].CotizacionID = c.ID
	}
	cp := *c
	r.cotizaciones[c.ID] = &cp
	return nil
}

func (r *stubCotizacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cotizacion, error) {
	c, ok := r.cotizaciones[id]
	if !ok {
		return &model.Cotizacion{}, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCotizacionRepo) List(_ context.Context, _ dto.CotizacionFilter) ([]model.Cotizacion, int64, error) {
	out := make([]model.Cotizacion, 0, len(r.cotizaciones))
	for _, c := range r.cotizaciones {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Folio > out[j].Folio })
	return out, int64(len(out)), nil
}

func (r *stubCotizacionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.cotizaciones, id)
	return nil
}

type stubProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
}

func newStubProveedorRepo(ps ...*model.Proveedor) *stubProveedorRepo {
	r := &stubProveedorRepo{proveedores: map[uuid.UUID]*model.Proveedor{}}
	for _, p := range ps {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.proveedores[p.ID] = p
	}
	return r
}

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	p.ID = uuid.New()
	cp := *p
	r.proveedores[p.ID] = &cp
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return &model.Proveedor{}, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProveedorRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Proveedor, error) {
	var out []model.Proveedor
	for _, id := range ids {
		if p, ok := r.proveedores[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProveedorRepo) List(_ context.Context, incluirInactivos bool) ([]model.Proveedor, error) {
	var out []model.Proveedor
	for _, p := range r.proveedores {
		if p.Activo || incluirInactivos {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RazonSocial < out[j].RazonSocial })
	return out, nil
}

func (r *stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	cp := *p
	r.proveedores[p.ID] = &cp
	return nil
}

func (r *stubProveedorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.proveedores[id]; ok {
		p.Activo = false
	}
	return nil
}

// stubRequisicionRepo preloads Items.Proveedor from the supplier stub on
// read, like the gorm repository does.
type stubRequisicionRepo struct {
	proveedores   *stubProveedorRepo
	requisiciones map[uuid.UUID]*model.Requisicion
}

func newStubRequisicionRepo(proveedores *stubProveedorRepo) *stubRequisicionRepo {
	return &stubRequisicionRepo{proveedores: proveedores, requisiciones: map[uuid.UUID]*model.Requisicion{}}
}

func (r *stubRequisicionRepo) Create(_ context.Context, req *model.Requisicion) error {
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	for i := range req.Items {
		req.Items[i].ID = uuid.New()
		req.Items[i].RequisicionID = req.ID
	}
	cp := *req
	cp.Items = append([]model.RequisicionItem(nil), req.Items...)
	r.requisiciones[req.ID] = &cp
	return nil
}

func (r *stubRequisicionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Requisicion, error) {
	req, ok := r.requisiciones[id]
	if !ok {
		return &model.Requisicion{}, gorm.ErrRecordNotFound
	}
	cp := *req
	cp.Items = make([]model.RequisicionItem, len(req.Items))
	for i, it := range req.Items {
		if it.ProveedorID != nil {
			if p, ok := r.proveedores.proveedores[*it.ProveedorID]; ok {
				pc := *p
				it.Proveedor = &pc
			}
		}
		cp.Items[i] = it
	}
	return &cp, nil
}

func (r *stubRequisicionRepo) List(_ context.Context, f dto.RequisicionFilter) ([]model.Requisicion, int64, error) {
	var out []model.Requisicion
	for _, req := range r.requisiciones {
		if f.Estado != "" && req.Estado != f.Estado {
			continue
		}
		out = append(out, *req)
	}
	return out, int64(len(out)), nil
}

func (r *stubRequisicionRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	if req, ok := r.requisiciones[id]; ok {
		req.Estado = estado
	}
	return nil
}

func (r *stubRequisicionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.requisiciones, id)
	return nil
}
