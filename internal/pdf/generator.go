package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/sgemaster/sge-backend/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders the delinquency list: every contract that is not paid up,
// followed by the totals.
func (g *Generator) Generate(report model.ContractReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, tr(report.Title), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Generado el %s", formatDate(report.GeneratedAt))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Contrato", "Nombre", "RUT", "Estado de pago", "Servicio", "Patentes", "Precio"}
	colWidths := []float64{22, 70, 32, 30, 28, 50, 35}
	drawTableRow(pdf, g.fontName, tr, headers, colWidths, true)

	total := decimal.Zero
	count := 0
	for _, c := range report.Contracts {
		if c.PaymentStatus == model.PaymentStatusPaid {
			continue
		}
		count++
		total = total.Add(decimal.NewFromFloat(c.Price))
		row := []string{
			c.ContractNumber,
			c.DisplayName,
			safeValue(c.TaxID),
			string(c.PaymentStatus),
			string(c.ServiceStatus),
			strings.Join(c.VehiclePlates, ", "),
			formatAmount(decimal.NewFromFloat(c.Price)),
		}
		drawTableRow(pdf, g.fontName, tr, row, colWidths, false)
	}

	pdf.Ln(4)
	pdf.SetFont(g.fontName, "", 11)
	if count == 0 {
		pdf.CellFormat(0, 6, tr("Sin contratos con pagos pendientes."), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Contratos con deuda: %d", count)), "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Total adeudado: $%s", formatAmount(total))), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range cols {
		align := "L"
		if i == len(cols)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// formatAmount renders whole pesos with dot thousands separators.
func formatAmount(value decimal.Decimal) string {
	digits := value.Round(0).Abs().String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if value.Round(0).IsNegative() {
		return "-" + b.String()
	}
	return b.String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}
