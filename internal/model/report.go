package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReportFormat string

const (
	ReportFormatExcel ReportFormat = "XLSX"
	ReportFormatPDF   ReportFormat = "PDF"
	ReportFormatJSON  ReportFormat = "JSON"
)

// DashboardSummary aggregates a contract snapshot for the dashboard cards.
type DashboardSummary struct {
	TotalContracts    int             `json:"totalContracts"`
	ActiveContracts   int             `json:"activeContracts"`
	DelinquentCount   int             `json:"delinquentCount"`
	ArrearsAmount     decimal.Decimal `json:"arrearsAmount"`
	MonthlyBilling    decimal.Decimal `json:"monthlyBilling"`
	CollectionRatePct decimal.Decimal `json:"collectionRatePct"`
}

// ContractReport is the input of every export generator.
type ContractReport struct {
	Title       string
	GeneratedAt time.Time
	Contracts   []Contract
	Summary     DashboardSummary
}

// BankTransaction is one movement read from a bank statement together with
// the contract suggested for it.
type BankTransaction struct {
	ID        uuid.UUID       `json:"id"`
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Payer     string          `json:"payer"`
	Account   string          `json:"account,omitempty"`
	Memo      string          `json:"memo"`
	Suggested *ContractRef    `json:"suggested,omitempty"`
	Score     int             `json:"score"`
}

type ContractRef struct {
	ContractNumber string `json:"contractNumber"`
	DisplayName    string `json:"displayName"`
}

type ChatRole string

const (
	ChatRoleUser ChatRole = "user"
	ChatRoleAI   ChatRole = "ai"
)

type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}
