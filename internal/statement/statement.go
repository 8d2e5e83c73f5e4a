// Package statement reads bank statements exported by the bank portal.
package statement

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sgemaster/sge-backend/internal/model"
)

var ErrUnsupportedFormat = errors.New("unsupported statement format")

// Parser converts one statement file into transactions.
type Parser interface {
	Parse(r io.Reader) ([]model.BankTransaction, error)
	Format() string
}

// Registry maps file extensions to parsers.
type Registry struct {
	parsers map[string]Parser
}

func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate statement format: " + key)
	}
	r.parsers[key] = p
}

// ForFile picks the parser by the file extension.
func (r *Registry) ForFile(name string) (Parser, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	p, ok := r.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return p, nil
}

func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&XLSXParser{})
	return r
}

type column int

const (
	colDate column = iota
	colAmount
	colPayer
	colAccount
	colMemo
)

var headerAliases = map[string]column{
	"fecha":         colDate,
	"date":          colDate,
	"monto":         colAmount,
	"abono":         colAmount,
	"amount":        colAmount,
	"ordenante":     colPayer,
	"nombre":        colPayer,
	"payer":         colPayer,
	"cuenta":        colAccount,
	"cuenta origen": colAccount,
	"account":       colAccount,
	"glosa":         colMemo,
	"comentario":    colMemo,
	"descripcion":   colMemo,
	"descripción":   colMemo,
	"memo":          colMemo,
}

// layout maps each known column to its position in a row.
type layout map[column]int

func detectLayout(header []string) (layout, error) {
	l := layout{}
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		if col, ok := headerAliases[key]; ok {
			if _, seen := l[col]; !seen {
				l[col] = i
			}
		}
	}
	for _, required := range []column{colDate, colAmount} {
		if _, ok := l[required]; !ok {
			return nil, fmt.Errorf("statement header is missing the date or amount column")
		}
	}
	return l, nil
}

func (l layout) get(row []string, col column) string {
	pos, ok := l[col]
	if !ok || pos >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[pos])
}

// maxPreambleRows bounds how far down the header row is searched. Bank
// exports put account and period lines above it.
const maxPreambleRows = 20

func parseRows(rows [][]string) ([]model.BankTransaction, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	headerRow, l, err := findHeader(rows)
	if err != nil {
		return nil, err
	}

	var txns []model.BankTransaction
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		txn, err := parseRow(l, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// findHeader returns the index and layout of the first row that names the
// date and amount columns.
func findHeader(rows [][]string) (int, layout, error) {
	var lastErr error
	for i := 0; i < len(rows) && i < maxPreambleRows; i++ {
		l, err := detectLayout(rows[i])
		if err == nil {
			return i, l, nil
		}
		lastErr = err
	}
	return 0, nil, lastErr
}

func parseRow(l layout, row []string) (model.BankTransaction, error) {
	date, err := ParseDate(l.get(row, colDate))
	if err != nil {
		return model.BankTransaction{}, err
	}
	amount, err := ParseAmount(l.get(row, colAmount))
	if err != nil {
		return model.BankTransaction{}, err
	}
	return model.BankTransaction{
		ID:      uuid.New(),
		Date:    date,
		Amount:  amount,
		Payer:   l.get(row, colPayer),
		Account: l.get(row, colAccount),
		Memo:    l.get(row, colMemo),
	}, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2/1/2006",
	"01-02-06",
	"2006-01-02 15:04:05",
}

func ParseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q", raw)
}

var (
	dotThousands   = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)
	commaThousands = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+$`)
)

// ParseAmount reads peso amounts such as "$75.000", "59500", "1.234,50" and
// spreadsheet renderings like "75,000" or "1,234.50". When both separators
// appear the last one is the decimal mark.
func ParseAmount(raw string) (decimal.Decimal, error) {
	clean := strings.NewReplacer("$", "", " ", "", "\u00a0", "").Replace(raw)
	lastDot, lastComma := strings.LastIndex(clean, "."), strings.LastIndex(clean, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0 && lastComma > lastDot:
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case lastDot >= 0 && lastComma >= 0:
		clean = strings.ReplaceAll(clean, ",", "")
	case commaThousands.MatchString(clean):
		clean = strings.ReplaceAll(clean, ",", "")
	case lastComma >= 0:
		clean = strings.ReplaceAll(clean, ",", ".")
	case dotThousands.MatchString(clean):
		clean = strings.ReplaceAll(clean, ".", "")
	}
	amount, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	return amount, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
