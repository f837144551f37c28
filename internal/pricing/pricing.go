// Package pricing holds the pure money rules of a sale: discount derivation,
// the price-floor check, settlement state and document totals. Nothing here
// touches storage.
package pricing

import (
	"github.com/Josmarcito/sistema-durtron/internal/apierror"

	"github.com/shopspring/decimal"
)

// Settlement states of a sale.
const (
	EstadoAnticipo  = "Anticipo"
	EstadoLiquidado = "Liquidado"
)

var (
	cien = decimal.NewFromInt(100)

	// TasaIVA is the Mexican VAT rate applied to quotations and requisitions.
	TasaIVA = decimal.RequireFromString("0.16")
)

// Descuento is the discount granted on a sale relative to the list price.
type Descuento struct {
	Monto      decimal.Decimal
	Porcentaje decimal.Decimal
}

// CalcularDescuento derives the discount from the list and sale prices.
// A sale above list price yields a zero discount, never a negative one.
func CalcularDescuento(precioLista, precioVenta decimal.Decimal) Descuento {
	monto := precioLista.Sub(precioVenta)
	if monto.IsNegative() {
		monto = decimal.Zero
	}
	pct := decimal.Zero
	if precioLista.IsPositive() {
		pct = monto.Div(precioLista).Mul(cien)
	}
	return Descuento{Monto: monto.Round(2), Porcentaje: pct.Round(2)}
}

// RequiereAutorizacion reports whether the sale price is below the floor.
// Selling exactly at the minimum needs no authorization.
func RequiereAutorizacion(precioVenta, precioMinimo decimal.Decimal) bool {
	return precioVenta.LessThan(precioMinimo)
}

// ValidarPrecio rejects negative sale prices.
func ValidarPrecio(precioVenta decimal.Decimal) error {
	if precioVenta.IsNegative() {
		return apierror.Validation("el precio de venta no puede ser negativo")
	}
	return nil
}

// EstadoLiquidacion maps the paid total against the sale price.
func EstadoLiquidacion(totalAbonado, precioVenta decimal.Decimal) string {
	if totalAbonado.GreaterThanOrEqual(precioVenta) {
		return EstadoLiquidado
	}
	return EstadoAnticipo
}

// Saldo is the outstanding balance, floored at zero.
func Saldo(totalAbonado, precioVenta decimal.Decimal) decimal.Decimal {
	s := precioVenta.Sub(totalAbonado)
	if s.IsNegative() {
		return decimal.Zero
	}
	return s
}

// Linea is one priced line of a quotation or requisition.
type Linea struct {
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	ConIVA         bool
}

// Importe is cantidad * precio unitario, rounded to cents.
func (l Linea) Importe() decimal.Decimal {
	return l.Cantidad.Mul(l.PrecioUnitario).Round(2)
}

// Totales of a document.
type Totales struct {
	Subtotal decimal.Decimal
	IVA      decimal.Decimal
	Total    decimal.Decimal
}

// CalcularTotales sums the lines and applies IVA only to lines flagged ConIVA.
func CalcularTotales(lineas []Linea) Totales {
	subtotal := decimal.Zero
	gravado := decimal.Zero
	for _, l := range lineas {
		imp := l.Importe()
		subtotal = subtotal.Add(imp)
		if l.ConIVA {
			gravado = gravado.Add(imp)
		}
	}
	iva := gravado.Mul(TasaIVA).Round(2)
	return Totales{Subtotal: subtotal, IVA: iva, Total: subtotal.Add(iva)}
}

// ConIVA returns the amount plus 16% VAT, rounded to cents.
func ConIVA(monto decimal.Decimal) decimal.Decimal {
	return monto.Add(monto.Mul(TasaIVA)).Round(2)
}
