package statement

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/sgemaster/sge-backend/internal/model"
)

// CSVParser reads comma or semicolon separated statements.
type CSVParser struct{}

func (p *CSVParser) Format() string { return "csv" }

func (p *CSVParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.Comma = detectComma(data)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	return parseRows(records)
}

// detectComma picks the separator that splits some line near the top into
// the most fields. The header is usually that line.
func detectComma(data []byte) rune {
	best, comma := 0, ','
	for i, line := range bytes.SplitN(data, []byte("\n"), maxPreambleRows+1) {
		if i == maxPreambleRows {
			break
		}
		if n := bytes.Count(line, []byte(",")); n > best {
			best, comma = n, ','
		}
		if n := bytes.Count(line, []byte(";")); n > best {
			best, comma = n, ';'
		}
	}
	return comma
}
