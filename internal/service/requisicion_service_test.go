package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/apierror"
	"github.com/Josmarcito/sistema-durtron/internal/dto"
	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requisicionFixture struct {
	svc                RequisicionService
	repo               *stubRequisicionRepo
	notif              *stubNotificador
	aceros, motores, x *model.Proveedor
}

func strPtr(s string) *string { return &s }

func newRequisicionFixture() *requisicionFixture {
	aceros := &model.Proveedor{RazonSocial: "Aceros del Guadiana", Correo: strPtr("ventas@aceros.mx"), WhatsApp: strPtr("618 123 4567"), Activo: true}
	motores := &model.Proveedor{RazonSocial: "Motores Industriales", WhatsApp: strPtr("+52 (871) 555-0000"), Activo: true}
	x := &model.Proveedor{RazonSocial: "Tornillos X", Activo: true}
	provs := newStubProveedorRepo(aceros, motores, x)
	repo := newStubRequisicionRepo(provs)
	notif := &stubNotificador{}
	svc := NewRequisicionService(repo, provs, NewSerieService(newStubSerieRepo()), &stubRenderer{}, notif, "Durtron")
	return &requisicionFixture{svc: svc, repo: repo, notif: notif, aceros: aceros, motores: motores, x: x}
}

func (f *requisicionFixture) crear(t *testing.T) *dto.RequisicionResponse {
	t.Helper()
	a, m, x := f.aceros.ID.String(), f.motores.ID.String(), f.x.ID.String()
	sinIVA := false
	r, err := f.svc.Crear(context.Background(), dto.CrearRequisicionRequest{
		EquipoNombre: "Quebradora de Quijada JC-150",
		Solicitante:  "Produccion",
		Items: []dto.RequisicionItemRequest{
			{ProveedorID: &a, Componente: "Placa A36 1/2", Cantidad: d("4"), PrecioUnitario: d("2500")},
			{ProveedorID: &a, Componente: "Solera 2x1/4", Cantidad: d("10"), Unidad: "m", PrecioUnitario: d("100"), TieneIVA: &sinIVA},
			{ProveedorID: &m, Componente: "Motor 40HP", Cantidad: d("1"), PrecioUnitario: d("45000")},
			{ProveedorID: &x, Componente: "Tornillo 3/4", Cantidad: d("50"), PrecioUnitario: d("12")},
			{Componente: "Pintura", Cantidad: d("2"), Unidad: "cubeta", PrecioUnitario: d("900")},
		},
	})
	require.NoError(t, err)
	return r
}

func TestRequisicion_Crear(t *testing.T) {
	f := newRequisicionFixture()
	r := f.crear(t)

	assert.Equal(t, fmt.Sprintf("REQ-%d-001", time.Now().Year()), r.Folio)
	assert.Equal(t, model.RequisicionPendiente, r.Estado)
	require.Len(t, r.Items, 5)
	assert.Equal(t, "pza", r.Items[0].Unidad)
	require.NotNil(t, r.Items[0].ProveedorNombre)
	assert.Equal(t, "Aceros del Guadiana", *r.Items[0].ProveedorNombre)
	// 10000 + 1000 + 45000 + 600 + 1800; IVA excludes the 1000 line.
	assert.True(t, r.Subtotal.Equal(d("58400")), r.Subtotal.String())
	assert.True(t, r.IVA.Equal(d("9184")), r.IVA.String())
	assert.True(t, r.Total.Equal(d("67584")))
}

func TestRequisicion_CrearProveedorInexistente(t *testing.T) {
	f := newRequisicionFixture()
	otro := uuid.NewString()
	_, err := f.svc.Crear(context.Background(), dto.CrearRequisicionRequest{
		EquipoNombre: "Criba",
		Items:        []dto.RequisicionItemRequest{{ProveedorID: &otro, Componente: "Malla", Cantidad: d("1")}},
	})
	assert.True(t, errors.Is(err, apierror.ErrNotFound))

	_, err = f.svc.Crear(context.Background(), dto.CrearRequisicionRequest{
		EquipoNombre: "Criba",
		Items:        []dto.RequisicionItemRequest{{Componente: "Malla", Cantidad: d("0")}},
	})
	assert.True(t, errors.Is(err, apierror.ErrValidation))
}

func TestRequisicion_Transiciones(t *testing.T) {
	f := newRequisicionFixture()
	ctx := context.Background()
	id := uuid.MustParse(f.crear(t).ID)

	_, err := f.svc.CambiarEstado(ctx, id, model.RequisicionRecibida)
	assert.True(t, errors.Is(err, apierror.ErrConflict), "Pendiente cannot jump to Recibida")

	_, err = f.svc.CambiarEstado(ctx, id, "Perdida")
	assert.True(t, errors.Is(err, apierror.ErrValidation))

	r, err := f.svc.CambiarEstado(ctx, id, model.RequisicionPendiente)
	require.NoError(t, err)
	assert.Equal(t, model.RequisicionPendiente, r.Estado)

	for _, estado := range []string{model.RequisicionEnviada, model.RequisicionRecibida} {
		r, err = f.svc.CambiarEstado(ctx, id, estado)
		require.NoError(t, err)
		assert.Equal(t, estado, r.Estado)
	}

	_, err = f.svc.CambiarEstado(ctx, id, model.RequisicionCancelada)
	assert.True(t, errors.Is(err, apierror.ErrConflict), "Recibida is terminal")
}

func TestRequisicion_EnviarEncolaPorProveedor(t *testing.T) {
	f := newRequisicionFixture()
	ctx := context.Background()
	id := uuid.MustParse(f.crear(t).ID)

	resp, err := f.svc.Enviar(ctx, id, dto.EnviarRequisicionRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Encolados)
	assert.Contains(t, resp.Mensaje, "Tornillos X")

	require.Len(t, f.notif.emails, 1)
	assert.Equal(t, "ventas@aceros.mx", f.notif.emails[0].To)
	assert.Contains(t, f.notif.emails[0].Body, "Placa A36")
	assert.NotContains(t, f.notif.emails[0].Body, "Motor 40HP")

	require.Len(t, f.notif.whatsapps, 2)
	telefonos := []string{f.notif.whatsapps[0].Telefono, f.notif.whatsapps[1].Telefono}
	assert.ElementsMatch(t, []string{"526181234567", "528715550000"}, telefonos)

	r, err := f.svc.Obtener(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.RequisicionEnviada, r.Estado)
}

func TestRequisicion_EnviarUnProveedorYCancelada(t *testing.T) {
	f := newRequisicionFixture()
	ctx := context.Background()
	id := uuid.MustParse(f.crear(t).ID)

	m := f.motores.ID.String()
	resp, err := f.svc.Enviar(ctx, id, dto.EnviarRequisicionRequest{ProveedorID: &m})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Encolados)
	assert.Empty(t, f.notif.emails)
	require.Len(t, f.notif.whatsapps, 1)
	assert.True(t, strings.Contains(f.notif.whatsapps[0].Mensaje, "Motor 40HP"))

	_, err = f.svc.CambiarEstado(ctx, id, model.RequisicionCancelada)
	require.NoError(t, err)
	_, err = f.svc.Enviar(ctx, id, dto.EnviarRequisicionRequest{})
	assert.True(t, errors.Is(err, apierror.ErrConflict))
}

func TestRequisicion_WhatsAppURLs(t *testing.T) {
	f := newRequisicionFixture()
	ctx := context.Background()
	id := uuid.MustParse(f.crear(t).ID)

	urls, err := f.svc.WhatsAppURLs(ctx, id, nil)
	require.NoError(t, err)
	require.Len(t, urls, 2)
	for _, u := range urls {
		assert.True(t, strings.HasPrefix(u.URL, "https://wa.me/"+u.Telefono+"?text="), u.URL)
	}

	_, err = f.svc.WhatsAppURLs(ctx, id, &f.x.ID)
	assert.True(t, errors.Is(err, apierror.ErrNotFound))
}
