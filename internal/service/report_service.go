package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sgemaster/sge-backend/internal/model"
)

type ReportGenerator interface {
	Generate(report model.ContractReport) ([]byte, error)
}

type ContractSnapshot interface {
	Snapshot() []model.Contract
}

type ReportService struct {
	contracts ContractSnapshot
	excel     ReportGenerator
	pdf       ReportGenerator
	now       func() time.Time
}

type GenerateReportInput struct {
	Format    model.ReportFormat
	Principal model.Principal
}

type GenerateReportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

func NewReportService(contracts ContractSnapshot, excel, pdf ReportGenerator) *ReportService {
	return &ReportService{
		contracts: contracts,
		excel:     excel,
		pdf:       pdf,
		now:       time.Now,
	}
}

func (s *ReportService) GenerateReport(_ context.Context, input GenerateReportInput) (*GenerateReportResult, error) {
	if !input.Principal.CanRead() {
		return nil, ErrPermissionDenied
	}

	contracts := s.contracts.Snapshot()
	report := model.ContractReport{
		GeneratedAt: s.now(),
		Contracts:   contracts,
		Summary:     Summarize(contracts),
	}

	var (
		content     []byte
		contentType string
		err         error
	)
	switch input.Format {
	case model.ReportFormatExcel:
		report.Title = "Contratos"
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		content, err = s.excel.Generate(report)
	case model.ReportFormatPDF:
		report.Title = "Lista de morosos"
		contentType = "application/pdf"
		content, err = s.pdf.Generate(report)
	case model.ReportFormatJSON:
		report.Title = "Contratos"
		contentType = "application/json"
		content, err = json.MarshalIndent(contracts, "", "  ")
	default:
		return nil, fmt.Errorf("%w: invalid report format", ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	return &GenerateReportResult{
		FileName:    buildFileName(report, input.Format),
		ContentType: contentType,
		Content:     content,
	}, nil
}

func buildFileName(report model.ContractReport, format model.ReportFormat) string {
	title := strings.ToLower(sanitizeFileName(report.Title))
	if title == "" {
		title = "reporte"
	}
	return fmt.Sprintf("%s-%s.%s", title, report.GeneratedAt.Format("20060102"), strings.ToLower(string(format)))
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}

// ParseReportFormat accepts the format names used in export URLs and flags.
func ParseReportFormat(raw string) (model.ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "xlsx", "excel":
		return model.ReportFormatExcel, nil
	case "pdf":
		return model.ReportFormatPDF, nil
	case "json":
		return model.ReportFormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown report format %q", ErrInvalidInput, raw)
	}
}
