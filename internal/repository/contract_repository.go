package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sgemaster/sge-backend/internal/model"
)

var (
	ErrNoLinkedStore    = errors.New("no store linked")
	ErrContractNotFound = errors.New("contract not found")
)

// ContractStore keeps contracts in Postgres, scoped to the linked store.
type ContractStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewContractStore(db *gorm.DB) *ContractStore {
	return &ContractStore{db: db, now: time.Now}
}

type contractRow struct {
	RowNumber      int
	Idx            int
	ContractNumber string
	DisplayName    string
	TaxID          string
	Price          float64
	PaymentStatus  string
	ServiceStatus  string
	VehiclePlates  string
}

func (r contractRow) toModel() model.Contract {
	var plates []string
	if err := json.Unmarshal([]byte(r.VehiclePlates), &plates); err != nil || plates == nil {
		plates = []string{}
	}
	row := r.RowNumber
	return model.Contract{
		Index:           r.Idx,
		ContractNumber:  r.ContractNumber,
		DisplayName:     r.DisplayName,
		TaxID:           r.TaxID,
		Price:           r.Price,
		PaymentStatus:   model.PaymentStatus(r.PaymentStatus),
		ServiceStatus:   model.ServiceStatus(r.ServiceStatus),
		VehiclePlates:   plates,
		SourceRowNumber: &row,
	}
}

func (s *ContractStore) ListContracts(ctx context.Context) ([]model.Contract, error) {
	storeID, err := s.linkedStoreID(ctx, s.db, false)
	if errors.Is(err, ErrNoLinkedStore) {
		return []model.Contract{}, nil
	}
	if err != nil {
		return nil, err
	}

	var rows []contractRow
	if err := s.db.WithContext(ctx).Raw(`
		SELECT
			row_number,
			idx,
			contract_number,
			display_name,
			tax_id,
			price,
			payment_status::text AS payment_status,
			service_status::text AS service_status,
			vehicle_plates::text AS vehicle_plates
		FROM contracts
		WHERE store_id = ?
		ORDER BY idx ASC
	`, storeID).Scan(&rows).Error; err != nil {
		return nil, err
	}

	contracts := make([]model.Contract, 0, len(rows))
	for _, row := range rows {
		contracts = append(contracts, row.toModel())
	}
	return contracts, nil
}

// SaveContract updates the row named by SourceRowNumber or Index. Without
// either it appends a new contract with the next index.
func (s *ContractStore) SaveContract(ctx context.Context, patch model.ContractPatch) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Locking the link row serializes saves per store, so concurrent
		// appends never compute the same next index.
		storeID, err := s.linkedStoreID(ctx, tx, true)
		if err != nil {
			return err
		}

		current, found, err := findContract(tx, storeID, patch)
		if err != nil {
			return err
		}
		action, err := planSave(found, patch)
		if err != nil {
			return err
		}

		contract := model.Contract{
			PaymentStatus: model.PaymentStatusPaid,
			ServiceStatus: model.ServiceStatusActive,
			VehiclePlates: []string{},
		}
		if action == saveUpdate {
			contract = current.toModel()
		}
		patch.Apply(&contract)

		if contract.PaymentStatus != "" && !contract.PaymentStatus.Valid() {
			return fmt.Errorf("invalid payment status %q", contract.PaymentStatus)
		}
		if contract.ServiceStatus != "" && !contract.ServiceStatus.Valid() {
			return fmt.Errorf("invalid service status %q", contract.ServiceStatus)
		}

		plates, err := json.Marshal(contract.VehiclePlates)
		if err != nil {
			return err
		}

		if action == saveUpdate {
			return tx.Exec(`
				UPDATE contracts SET
					contract_number = ?,
					display_name = ?,
					tax_id = ?,
					price = ?,
					payment_status = ?::payment_status,
					service_status = ?::service_status,
					vehicle_plates = ?::jsonb,
					updated_at = ?
				WHERE row_number = ?
			`,
				contract.ContractNumber,
				contract.DisplayName,
				contract.TaxID,
				contract.Price,
				string(contract.PaymentStatus),
				string(contract.ServiceStatus),
				string(plates),
				s.now(),
				current.RowNumber,
			).Error
		}

		return tx.Exec(`
			INSERT INTO contracts (
				store_id,
				idx,
				contract_number,
				display_name,
				tax_id,
				price,
				payment_status,
				service_status,
				vehicle_plates,
				updated_at
			)
			SELECT ?, COALESCE(MAX(idx), 0) + 1, ?, ?, ?, ?, ?::payment_status, ?::service_status, ?::jsonb, ?
			FROM contracts
			WHERE store_id = ?
		`,
			storeID,
			contract.ContractNumber,
			contract.DisplayName,
			contract.TaxID,
			contract.Price,
			string(contract.PaymentStatus),
			string(contract.ServiceStatus),
			string(plates),
			s.now(),
			storeID,
		).Error
	})
}

type saveAction int

const (
	saveAppend saveAction = iota
	saveUpdate
)

// planSave decides between updating the located row and appending. A patch
// naming a row that does not exist is an error, never an append.
func planSave(found bool, patch model.ContractPatch) (saveAction, error) {
	switch {
	case found:
		return saveUpdate, nil
	case patch.SourceRowNumber != nil || patch.Index != nil:
		return saveAppend, ErrContractNotFound
	default:
		return saveAppend, nil
	}
}

// contractLookup returns the column and value that identify the patched row.
// SourceRowNumber wins over Index.
func contractLookup(patch model.ContractPatch) (string, int, bool) {
	switch {
	case patch.SourceRowNumber != nil:
		return "row_number", *patch.SourceRowNumber, true
	case patch.Index != nil:
		return "idx", *patch.Index, true
	default:
		return "", 0, false
	}
}

func findContract(tx *gorm.DB, storeID string, patch model.ContractPatch) (contractRow, bool, error) {
	column, arg, ok := contractLookup(patch)
	if !ok {
		return contractRow{}, false, nil
	}

	var rows []contractRow
	if err := tx.Raw(`
		SELECT
			row_number,
			idx,
			contract_number,
			display_name,
			tax_id,
			price,
			payment_status::text AS payment_status,
			service_status::text AS service_status,
			vehicle_plates::text AS vehicle_plates
		FROM contracts
		WHERE store_id = ? AND `+column+` = ?
		LIMIT 1
		FOR UPDATE
	`, storeID, arg).Scan(&rows).Error; err != nil {
		return contractRow{}, false, err
	}
	if len(rows) == 0 {
		return contractRow{}, false, nil
	}
	return rows[0], true, nil
}
