// internal/render/pdf.go
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"bayup-finance/internal/domain"
	"bayup-finance/internal/money"
	"bayup-finance/internal/report"

	"github.com/go-pdf/fpdf"
)

// Renderer turns a report document or a purchase order into bytes.
// It never calls back into the report.
type Renderer interface {
	Render(w io.Writer, doc report.Document) error
	PurchaseOrder(w io.Writer, po domain.FinancialRecord, f *money.Formatter) error
	ContentType() string
}

var _ Renderer = (*PDFRenderer)(nil)

type rgb struct{ r, g, b int }

var (
	headerBand = rgb{17, 24, 39}
	brand      = rgb{147, 51, 234}
	muted      = rgb{150, 150, 150}
	stripe     = rgb{245, 243, 255}
)

// PDFRenderer draws A4 portrait documents with the core Helvetica font.
type PDFRenderer struct {
	Company string
	Footer  string
	now     func() time.Time
	// uncompressed streams keep drawn text greppable in tests
	uncompressed bool
}

func NewPDFRenderer(company string) *PDFRenderer {
	return &PDFRenderer{
		Company: company,
		Footer:  "Documento generado a través de la plataforma Bayup.",
		now:     time.Now,
	}
}

func (p *PDFRenderer) ContentType() string { return "application/pdf" }

// column widths for description, category, date, amount, status (mm)
var reportCols = []float64{62, 32, 26, 36, 24}

func (p *PDFRenderer) Render(w io.Writer, doc report.Document) error {
	pdf := p.newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	p.header(pdf, tr(strings.ToUpper(doc.Title)), []string{
		tr("Periodo: " + doc.Period),
		"Generado: " + p.now().Format("02/01/2006"),
	})

	pdf.SetY(55)
	p.tableHead(pdf, tr, []string{"Descripción", "Categoría", "Fecha", "Valor", "Estado"}, reportCols)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(40, 40, 40)
	for i, row := range doc.Rows {
		if row.Total {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetFillColor(brand.r, brand.g, brand.b)
			pdf.SetTextColor(255, 255, 255)
			pdf.CellFormat(reportCols[0]+reportCols[1]+reportCols[2], 9, tr(row.Description), "", 0, "L", true, 0, "")
			pdf.CellFormat(reportCols[3], 9, tr(row.Amount), "", 0, "R", true, 0, "")
			pdf.CellFormat(reportCols[4], 9, "", "", 1, "L", true, 0, "")
			continue
		}
		fill := i%2 == 1
		pdf.SetFillColor(stripe.r, stripe.g, stripe.b)
		pdf.CellFormat(reportCols[0], 8, tr(truncate(row.Description, 40)), "", 0, "L", fill, 0, "")
		pdf.CellFormat(reportCols[1], 8, tr(row.Category), "", 0, "L", fill, 0, "")
		pdf.CellFormat(reportCols[2], 8, row.Date, "", 0, "L", fill, 0, "")
		pdf.CellFormat(reportCols[3], 8, tr(row.Amount), "", 0, "R", fill, 0, "")
		pdf.CellFormat(reportCols[4], 8, tr(row.Status), "", 1, "L", fill, 0, "")
	}

	return p.output(pdf, w)
}

// PurchaseOrder renders the order sent to a provider: items and estimated total.
func (p *PDFRenderer) PurchaseOrder(w io.Writer, po domain.FinancialRecord, f *money.Formatter) error {
	if po.Kind != domain.KindPurchaseOrder || po.PurchaseOrder == nil {
		return fmt.Errorf("render purchase order: %w", domain.ErrKindMismatch)
	}

	pdf := p.newDocument()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	shortID := po.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	p.header(pdf, "ORDEN DE COMPRA", []string{
		"ID: PO-" + strings.ToUpper(shortID),
		"Fecha: " + report.FormatDate(po.Date),
		tr("Estado: " + strings.ToUpper(report.StatusLabel(po.Status))),
	})

	pdf.SetTextColor(headerBand.r, headerBand.g, headerBand.b)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(20, 60, "REMITENTE:")
	pdf.Text(120, 60, "PROVEEDOR:")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(brand.r, brand.g, brand.b)
	pdf.Text(20, 68, tr(p.Company))
	pdf.SetTextColor(headerBand.r, headerBand.g, headerBand.b)
	provider := po.RelatedParty
	if provider == "" {
		provider = "Proveedor General"
	}
	pdf.Text(120, 68, tr(provider))

	cols := []float64{20, 130, 30}
	pdf.SetY(80)
	p.tableHead(pdf, tr, []string{"Ítem", "Descripción del Producto", "Cantidad"}, cols)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(40, 40, 40)
	for i, it := range po.PurchaseOrder.Items {
		fill := i%2 == 1
		pdf.SetFillColor(stripe.r, stripe.g, stripe.b)
		pdf.CellFormat(cols[0], 8, fmt.Sprintf("%d", i+1), "", 0, "C", fill, 0, "")
		pdf.CellFormat(cols[1], 8, tr(strings.ToUpper(it.Name)), "", 0, "L", fill, 0, "")
		pdf.CellFormat(cols[2], 8, fmt.Sprintf("%d", it.Qty), "", 1, "R", fill, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(cols[0], 8, "", "T", 0, "C", false, 0, "")
	pdf.CellFormat(cols[1], 8, "TOTAL UNIDADES", "T", 0, "R", false, 0, "")
	pdf.CellFormat(cols[2], 8, fmt.Sprintf("%d", po.PurchaseOrder.TotalQty()), "T", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(headerBand.r, headerBand.g, headerBand.b)
	pdf.CellFormat(180, 8, tr("VALOR ESTIMADO DE COMPRA: "+f.Currency(po.Amount)), "", 1, "R", false, 0, "")

	return p.output(pdf, w)
}

func (p *PDFRenderer) newDocument() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetCreator("bayup-finance", true)
	pdf.SetCompression(!p.uncompressed)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	footer := p.Footer
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(muted.r, muted.g, muted.b)
		pdf.CellFormat(150, 5, tr(footer), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	return pdf
}

func (p *PDFRenderer) header(pdf *fpdf.Fpdf, title string, meta []string) {
	pdf.SetFillColor(headerBand.r, headerBand.g, headerBand.b)
	pdf.Rect(0, 0, 210, 45, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.Text(15, 28, title)
	pdf.SetFont("Helvetica", "", 9)
	for i, line := range meta {
		pdf.Text(145, 20+float64(i)*7, line)
	}
}

func (p *PDFRenderer) tableHead(pdf *fpdf.Fpdf, tr func(string) string, titles []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(brand.r, brand.g, brand.b)
	pdf.SetTextColor(255, 255, 255)
	for i, title := range titles {
		ln := 0
		if i == len(titles)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 9, tr(title), "", ln, "L", true, 0, "")
	}
}

func (p *PDFRenderer) output(pdf *fpdf.Fpdf, w io.Writer) error {
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
