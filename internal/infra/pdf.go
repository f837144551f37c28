package infra

// pdf.go: document rendering with go-pdf/fpdf:
//   - Etiqueta:    100x60 mm identification label stuck on each physical unit
//   - Cotizacion:  letter-size customer quotation with IVA breakdown
//   - Requisicion: letter-size purchase order sent to suppliers
//
// Money is printed with es-MX grouping through golang.org/x/text/message.

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Josmarcito/sistema-durtron/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EmpresaInfo is printed on every document header.
type EmpresaInfo struct {
	Nombre    string
	Direccion string
	Telefono  string
}

// PDFRenderer renders business documents to PDF bytes.
type PDFRenderer struct {
	empresa EmpresaInfo
	printer *message.Printer
}

func NewPDFRenderer(empresa EmpresaInfo) *PDFRenderer {
	return &PDFRenderer{
		empresa: empresa,
		printer: message.NewPrinter(language.MustParse("es-MX")),
	}
}

// Moneda formats an amount as "$1,234.50".
func (r *PDFRenderer) Moneda(d decimal.Decimal) string {
	return r.printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// Etiqueta renders the identification label of a unit. The unit must have
// its Equipo loaded.
func (r *PDFRenderer) Etiqueta(u *model.UnidadInventario) ([]byte, error) {
	if u.Equipo == nil {
		return nil, fmt.Errorf("pdf: etiqueta sin equipo")
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 60, Ht: 100},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(5, 5, 5)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 10

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.6)
	pdf.Rect(2, 2, pageW-4, pageH-4, "D")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 7, tr(r.empresa.Nombre), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, tr(r.empresa.Direccion), "", 1, "C", false, 0, "")
	pdf.Ln(1)
	pdf.Line(5, pdf.GetY(), pageW-5, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.MultiCell(contentW, 5, tr(u.Equipo.Nombre), "", "C", false)
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 8)
	fila := func(label, valor string) {
		if valor == "" {
			return
		}
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(28, 4.5, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(contentW-28, 4.5, tr(valor), "", 1, "L", false, 0, "")
	}
	fila("Modelo:", u.Equipo.Codigo)
	fila("Capacidad:", u.Equipo.Capacidad)
	fila("Motor:", u.Equipo.PotenciaMotor)
	fila("Ingreso:", u.FechaIngreso.Format("02/01/2006"))

	pdf.SetY(pageH - 17)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "No. de Serie", "", 1, "C", false, 0, "")
	pdf.SetFont("Courier", "B", 16)
	pdf.CellFormat(contentW, 8, tr(u.NumeroSerie), "1", 1, "C", false, 0, "")

	return output(pdf)
}

func (r *PDFRenderer) encabezado(pdf *fpdf.Fpdf, tr func(string) string, titulo, folio string, fecha time.Time) {
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW/2, 9, tr(r.empresa.Nombre), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW/2, 9, tr(titulo), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW/2, 4, tr(r.empresa.Direccion), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW/2, 4, tr("Folio: "+folio), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW/2, 4, tr(r.empresa.Telefono), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 4, tr("Fecha: "+fecha.Format("02/01/2006")), "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetLineWidth(0.4)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(4)
}

func (r *PDFRenderer) totales(pdf *fpdf.Fpdf, tr func(string) string, subtotal, iva, total decimal.Decimal, conIVA bool) {
	pageW, _ := pdf.GetPageSize()
	labelX := pageW - 15 - 80

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetX(labelX)
	pdf.CellFormat(45, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, r.Moneda(subtotal), "", 1, "R", false, 0, "")
	if conIVA {
		pdf.SetX(labelX)
		pdf.CellFormat(45, 6, "IVA 16%:", "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, r.Moneda(iva), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetX(labelX)
	pdf.CellFormat(45, 7, "TOTAL:", "T", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, tr(r.Moneda(total)+" MXN"), "T", 1, "R", false, 0, "")
}

// Cotizacion renders a customer quotation.
func (r *PDFRenderer) Cotizacion(c *model.Cotizacion) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	r.encabezado(pdf, tr, "COTIZACIÓN", c.Folio, c.CreatedAt)

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Cliente ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "Cliente", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr(c.ClienteNombre), "", 1, "L", false, 0, "")
	for _, v := range []*string{c.ClienteEmpresa, c.ClienteDireccion, c.ClienteTelefono, c.ClienteEmail} {
		if v != nil && *v != "" {
			pdf.CellFormat(contentW, 5, tr(*v), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)

	// ── Items ─────────────────────────────────────────────────────────────────
	colCant := contentW * 0.10
	colDesc := contentW * 0.50
	colPU := contentW * 0.20
	colImp := contentW * 0.20

	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colCant, 7, "Cant.", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colDesc, 7, tr("Descripción"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(colPU, 7, "P. Unitario", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colImp, 7, "Importe", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range c.Items {
		pdf.CellFormat(colCant, 6, fmt.Sprintf("%d", it.Cantidad), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colDesc, 6, tr(truncar(it.Descripcion, 60)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colPU, 6, r.Moneda(it.PrecioUnitario), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colImp, 6, r.Moneda(it.TotalLinea), "1", 1, "R", false, 0, "")
	}

	r.totales(pdf, tr, c.Subtotal, c.IVA, c.Total, c.IncluyeIVA)

	// ── Condiciones ──────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "Condiciones", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	vence := c.CreatedAt.AddDate(0, 0, c.VigenciaDias)
	pdf.MultiCell(contentW, 4, tr(fmt.Sprintf(
		"Vigencia de %d días (hasta el %s). Precios en moneda nacional. Vendedor: %s.",
		c.VigenciaDias, vence.Format("02/01/2006"), c.Vendedor)), "", "L", false)
	if c.Notas != nil && *c.Notas != "" {
		pdf.Ln(2)
		pdf.MultiCell(contentW, 4, tr(*c.Notas), "", "L", false)
	}

	return output(pdf)
}

// Requisicion renders a purchase order. Items must have Proveedor loaded
// for the supplier column to be filled.
func (r *PDFRenderer) Requisicion(req *model.Requisicion) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	r.encabezado(pdf, tr, "REQUISICIÓN DE COMPRA", req.Folio, req.CreatedAt)

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr("Equipo: "+req.EquipoNombre), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr("Solicita: "+req.Solicitante), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, tr("Estado: "+req.Estado), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	colComp := contentW * 0.34
	colProv := contentW * 0.22
	colCant := contentW * 0.14
	colPU := contentW * 0.15
	colImp := contentW * 0.15

	pdf.SetFillColor(230, 230, 230)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colComp, 7, "Componente", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colProv, 7, "Proveedor", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colCant, 7, "Cantidad", "1", 0, "C", true, 0, "")
	pdf.CellFormat(colPU, 7, "P. Unitario", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colImp, 7, "Importe", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	conIVA := false
	for _, it := range req.Items {
		prov := "-"
		if it.Proveedor != nil {
			prov = it.Proveedor.RazonSocial
		}
		if it.TieneIVA {
			conIVA = true
		}
		imp := it.Cantidad.Mul(it.PrecioUnitario).Round(2)
		pdf.CellFormat(colComp, 6, tr(truncar(it.Componente, 40)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colProv, 6, tr(truncar(prov, 26)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colCant, 6, tr(it.Cantidad.String()+" "+it.Unidad), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colPU, 6, r.Moneda(it.PrecioUnitario), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colImp, 6, r.Moneda(imp), "1", 1, "R", false, 0, "")
	}

	r.totales(pdf, tr, req.Subtotal, req.IVA, req.Total, conIVA)

	if req.Notas != nil && *req.Notas != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 8)
		pdf.MultiCell(contentW, 4, tr(*req.Notas), "", "L", false)
	}

	return output(pdf)
}

func truncar(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
