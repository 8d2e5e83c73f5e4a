package statement

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/sgemaster/sge-backend/internal/model"
)

// XLSXParser reads the first sheet of an Excel statement.
type XLSXParser struct{}

func (p *XLSXParser) Format() string { return "xlsx" }

func (p *XLSXParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening statement workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return parseRows(rows)
}
