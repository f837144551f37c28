package infra

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer() *PDFRenderer {
	return NewPDFRenderer(EmpresaInfo{Nombre: "DURTRON", Direccion: "Durango, Dgo.", Telefono: "618 000 0000"})
}

func TestPDFRenderer_Moneda(t *testing.T) {
	r := newRenderer()
	got := r.Moneda(decimal.NewFromInt(100000))
	assert.True(t, strings.HasPrefix(got, "$100"), got)
	assert.True(t, strings.HasSuffix(got, "000"+sepDecimal(got)+"00"), got)
	assert.True(t, strings.HasSuffix(r.Moneda(decimal.RequireFromString("85.5")), "50"))
}

func TestPDFRenderer_Etiqueta(t *testing.T) {
	u := &model.UnidadInventario{
		ID:           uuid.New(),
		NumeroSerie:  "JC-150-001",
		FechaIngreso: time.Now(),
		Equipo: &model.Equipo{
			Codigo:        "JC-150",
			Nombre:        "Quebradora de Quijada 10x16 con motor eléctrico",
			Capacidad:     "8-12 ton/h",
			PotenciaMotor: "30 HP",
		},
	}
	out, err := newRenderer().Etiqueta(u)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = newRenderer().Etiqueta(&model.UnidadInventario{NumeroSerie: "X"})
	assert.Error(t, err)
}

func TestPDFRenderer_Cotizacion(t *testing.T) {
	empresa := "Minera del Norte"
	c := &model.Cotizacion{
		Folio:          "COT-2026-001",
		ClienteNombre:  "Ing. Pérez",
		ClienteEmpresa: &empresa,
		Vendedor:       "Carlos",
		IncluyeIVA:     true,
		Subtotal:       decimal.NewFromInt(200000),
		IVA:            decimal.NewFromInt(32000),
		Total:          decimal.NewFromInt(232000),
		VigenciaDias:   30,
		CreatedAt:      time.Now(),
		Items: []model.CotizacionItem{
			{Descripcion: "Molino de bolas 3x4", Cantidad: 2, PrecioUnitario: decimal.NewFromInt(100000), TotalLinea: decimal.NewFromInt(200000)},
		},
	}
	out, err := newRenderer().Cotizacion(c)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFRenderer_Requisicion(t *testing.T) {
	r := &model.Requisicion{
		Folio:        "REQ-2026-004",
		EquipoNombre: "Banda transportadora 18in",
		Solicitante:  "Planta 1",
		Estado:       model.RequisicionPendiente,
		Subtotal:     decimal.NewFromInt(1000),
		IVA:          decimal.NewFromInt(160),
		Total:        decimal.NewFromInt(1160),
		CreatedAt:    time.Now(),
		Items: []model.RequisicionItem{
			{
				Componente:     "Rodillo de carga",
				Cantidad:       decimal.NewFromInt(10),
				Unidad:         "pza",
				PrecioUnitario: decimal.NewFromInt(100),
				TieneIVA:       true,
				Proveedor:      &model.Proveedor{RazonSocial: "Aceros del Guadiana"},
			},
		},
	}
	out, err := newRenderer().Requisicion(r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

// sepDecimal returns the decimal separator the locale printed.
func sepDecimal(s string) string {
	return s[len(s)-3 : len(s)-2]
}

func TestTruncar(t *testing.T) {
	assert.Equal(t, "abc", truncar("abc", 5))
	assert.Equal(t, "ab…", truncar("abcdef", 3))
}
