package statement

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `Fecha;Monto;Ordenante;Cuenta;Glosa
2025-07-05;$75.000;JUAN ALBERTO PEREZ;123456;CONTRATO 1029
06/07/2025;59500;MARIA ELENA LÓPEZ;;PAGO MES JULIO

2025-07-07;120.000;CONSTRUCCIONES S.A.;987;TRANSFERENCIA BCI
`

func TestCSVParser_Parse(t *testing.T) {
	txns, err := (&CSVParser{}).Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, "75000", txns[0].Amount.String())
	assert.Equal(t, "JUAN ALBERTO PEREZ", txns[0].Payer)
	assert.Equal(t, "CONTRATO 1029", txns[0].Memo)
	assert.Equal(t, "123456", txns[0].Account)
	assert.Equal(t, 5, txns[0].Date.Day())

	assert.Equal(t, 6, txns[1].Date.Day())
	assert.Equal(t, 7, int(txns[1].Date.Month()))
	assert.Equal(t, "120000", txns[2].Amount.String())
	assert.NotEqual(t, txns[0].ID, txns[1].ID)
}

func TestCSVParser_CommaSeparated(t *testing.T) {
	txns, err := (&CSVParser{}).Parse(strings.NewReader("date,amount,memo\n2025-07-01,\"1.234,50\",x\n"))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "1234.5", txns[0].Amount.String())
}

func TestCSVParser_MissingColumns(t *testing.T) {
	_, err := (&CSVParser{}).Parse(strings.NewReader("Ordenante,Glosa\nJUAN,PAGO\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestCSVParser_BadDate(t *testing.T) {
	_, err := (&CSVParser{}).Parse(strings.NewReader("Fecha,Monto\nayer,100\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestCSVParser_Empty(t *testing.T) {
	txns, err := (&CSVParser{}).Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestXLSXParser_Parse(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Fecha", "Monto", "Ordenante", "Glosa"},
		{"2025-07-05", "75000", "JUAN ALBERTO PEREZ", "CONTRATO 1029"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	txns, err := (&XLSXParser{}).Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "CONTRATO 1029", txns[0].Memo)
	assert.Equal(t, "75000", txns[0].Amount.String())
}

func TestXLSXParser_FormattedAmountCells(t *testing.T) {
	f := excelize.NewFile()
	header := []interface{}{"Fecha", "Monto", "Ordenante", "Glosa"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "2025-07-05"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 75000))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "2025-07-06"))
	require.NoError(t, f.SetCellValue("Sheet1", "B3", 1234.5))

	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "B2", "B2", thousands))
	withDecimals, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "B3", "B3", withDecimals))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	txns, err := (&XLSXParser{}).Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "75000", txns[0].Amount.String())
	assert.Equal(t, "1234.5", txns[1].Amount.String())
}

func TestCSVParser_SkipsPreamble(t *testing.T) {
	csv := "Cartola de movimientos\n" +
		"Cuenta Corriente;00-123-45678-9\n" +
		"Periodo;01/07/2025 al 31/07/2025\n" +
		"Fecha;Monto;Ordenante;Glosa\n" +
		"2025-07-05;65.000;JUAN PEREZ;CONTRATO 1001\n" +
		"ayer;1;X;\n"

	_, err := (&CSVParser{}).Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 6")

	txns, err := (&CSVParser{}).Parse(strings.NewReader(strings.TrimSuffix(csv, "ayer;1;X;\n")))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "65000", txns[0].Amount.String())
	assert.Equal(t, "CONTRATO 1001", txns[0].Memo)
}

func TestXLSXParser_SkipsPreamble(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Banco de Chile"},
		{"Cuenta", "00-123-45678-9"},
		{"Fecha", "Monto", "Ordenante", "Glosa"},
		{"2025-07-05", "75000", "JUAN ALBERTO PEREZ", "CONTRATO 1029"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	txns, err := (&XLSXParser{}).Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "75000", txns[0].Amount.String())
}

func TestRegistry_ForFile(t *testing.T) {
	r := DefaultRegistry()

	p, err := r.ForFile("cartola_julio.XLSX")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", p.Format())

	p, err = r.ForFile("movimientos.csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", p.Format())

	_, err = r.ForFile("cartola.pdf")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&CSVParser{})
	assert.Panics(t, func() { r.Register(&CSVParser{}) })
}

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"59500":     "59500",
		"$75.000":   "75000",
		"1.250.000": "1250000",
		"1.234,50":  "1234.5",
		"-4.00":     "-4",
		"12.5":      "12.5",
		"75,000":    "75000",
		"1,250,000": "1250000",
		"1,234.50":  "1234.5",
		"$ 75,000":  "75000",
		"12,5":      "12.5",
	}
	for raw, want := range cases {
		got, err := ParseAmount(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got.String(), raw)
	}

	_, err := ParseAmount("abc")
	assert.Error(t, err)
}
