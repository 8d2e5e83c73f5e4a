package rpc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/sgemaster/sge-backend/internal/model"
)

var emptyList = json.RawMessage("[]")

// FixtureFunc produces the canned result for one operation.
type FixtureFunc func() any

// FixtureBridge stands in for the host during standalone development. It
// never fails.
type FixtureBridge struct {
	fixtures map[Operation]FixtureFunc
	delay    time.Duration
	log      zerolog.Logger
}

func NewFixtureBridge(fixtures map[Operation]FixtureFunc, delay time.Duration, log zerolog.Logger) *FixtureBridge {
	if fixtures == nil {
		fixtures = map[Operation]FixtureFunc{}
	}
	return &FixtureBridge{fixtures: fixtures, delay: delay, log: log}
}

func (b *FixtureBridge) Invoke(_ context.Context, op Operation, _ ...any) (json.RawMessage, error) {
	b.log.Warn().Str("operation", op.String()).Msg("backing store host unavailable, simulating call")

	if b.delay > 0 {
		time.Sleep(b.delay)
	}

	fixture, ok := b.fixtures[op]
	if !ok {
		return emptyList, nil
	}
	value := fixture()
	if value == nil {
		return emptyList, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		b.log.Warn().Err(err).Str("operation", op.String()).Msg("fixture not encodable")
		return emptyList, nil
	}
	return raw, nil
}

// DefaultFixtures is the demo dataset served when no host is configured.
func DefaultFixtures() map[Operation]FixtureFunc {
	return map[Operation]FixtureFunc{
		OpFetchContracts: func() any {
			return demoContracts()
		},
		OpFetchStoreMetadata: func() any {
			return model.StoreMetadata{
				Name:        "SGE Demo DB",
				ID:          "demo-id",
				RowCount:    3,
				LastUpdated: time.Now().Format("02-01-2006 15:04:05"),
			}
		},
	}
}

func demoContracts() []model.Contract {
	row := func(n int) *int { return &n }
	return []model.Contract{
		{
			Index:           1,
			ContractNumber:  "1001",
			DisplayName:     "Juan Pérez",
			TaxID:           "12.345.678-9",
			Price:           65000,
			PaymentStatus:   model.PaymentStatusPaid,
			ServiceStatus:   model.ServiceStatusActive,
			VehiclePlates:   []string{"ABCD-12"},
			SourceRowNumber: row(2),
		},
		{
			Index:           2,
			ContractNumber:  "1002",
			DisplayName:     "Empresa Logística S.A.",
			TaxID:           "77.888.999-0",
			Price:           120000,
			PaymentStatus:   model.PaymentStatusDelinquent,
			ServiceStatus:   model.ServiceStatusActive,
			VehiclePlates:   []string{"GGHH-44", "KKLL-22"},
			SourceRowNumber: row(3),
		},
		{
			Index:           3,
			ContractNumber:  "1003",
			DisplayName:     "María López",
			TaxID:           "15.222.333-K",
			Price:           55000,
			PaymentStatus:   model.PaymentStatusPaid,
			ServiceStatus:   model.ServiceStatusBlocked,
			VehiclePlates:   []string{"XYZA-99"},
			SourceRowNumber: row(4),
		},
	}
}
