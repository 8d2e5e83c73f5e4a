package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sgemaster/sge-backend/internal/model"
)

const (
	contractsSheet = "Contratos"
	summarySheet   = "Resumen"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.ContractReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", contractsSheet); err != nil {
		return nil, err
	}
	if err := g.writeContracts(file, contractsSheet, report); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeContracts(file *excelize.File, sheet string, report model.ContractReport) error {
	headers := []string{
		"Índice",
		"Contrato",
		"Nombre",
		"RUT",
		"Precio",
		"Estado de pago",
		"Estado de servicio",
		"Patentes",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	_ = file.SetCellStyle(sheet, "A1", "H1", headerStyle)

	for i, c := range report.Contracts {
		row := i + 2
		values := []interface{}{
			c.Index,
			c.ContractNumber,
			c.DisplayName,
			c.TaxID,
			c.Price,
			paymentLabel(c.PaymentStatus),
			serviceLabel(c.ServiceStatus),
			strings.Join(c.VehiclePlates, ", "),
		}
		cell := fmt.Sprintf("A%d", row)
		if err := file.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	_ = file.SetColWidth(sheet, "A", "B", 10)
	_ = file.SetColWidth(sheet, "C", "C", 36)
	_ = file.SetColWidth(sheet, "D", "D", 16)
	_ = file.SetColWidth(sheet, "E", "E", 12)
	_ = file.SetColWidth(sheet, "F", "G", 18)
	_ = file.SetColWidth(sheet, "H", "H", 28)
	return nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.ContractReport) error {
	summary := report.Summary

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Reporte")
	set("B1", report.Title)
	set("A2", "Generado")
	set("B2", formatDateTime(report.GeneratedAt))
	set("A3", "Contratos")
	set("B3", summary.TotalContracts)
	set("A4", "Contratos activos")
	set("B4", summary.ActiveContracts)
	set("A5", "Morosos")
	set("B5", summary.DelinquentCount)
	set("A6", "Monto en mora")
	set("B6", summary.ArrearsAmount.InexactFloat64())
	set("A7", "Facturación mensual")
	set("B7", summary.MonthlyBilling.InexactFloat64())
	set("A8", "Tasa de cobro (%)")
	set("B8", summary.CollectionRatePct.InexactFloat64())

	_ = file.SetColWidth(sheet, "A", "A", 24)
	_ = file.SetColWidth(sheet, "B", "B", 28)
	return nil
}

func paymentLabel(status model.PaymentStatus) string {
	switch status {
	case model.PaymentStatusPaid:
		return "PAGADO"
	case model.PaymentStatusOwes:
		return "DEBE"
	case model.PaymentStatusDelinquent:
		return "MOROSO"
	default:
		return string(status)
	}
}

func serviceLabel(status model.ServiceStatus) string {
	switch status {
	case model.ServiceStatusActive:
		return "ACTIVO"
	case model.ServiceStatusInactive:
		return "INACTIVO"
	case model.ServiceStatusBlocked:
		return "BLOQUEO"
	case model.ServiceStatusWithdrawn:
		return "RENUNCIA"
	default:
		return string(status)
	}
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
