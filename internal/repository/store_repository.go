package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sgemaster/sge-backend/internal/model"
)

const metadataTimeLayout = "02-01-2006 15:04:05"

// LinkStore makes storeID the active store, registering it on first use.
func (s *ContractStore) LinkStore(ctx context.Context, storeID string) (*model.StoreMetadata, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			INSERT INTO stores (id, name) VALUES (?, ?)
			ON CONFLICT (id) DO NOTHING
		`, storeID, storeID).Error; err != nil {
			return err
		}
		return tx.Exec(`
			INSERT INTO linked_store (singleton, store_id, linked_at) VALUES (TRUE, ?, ?)
			ON CONFLICT (singleton) DO UPDATE SET store_id = EXCLUDED.store_id, linked_at = EXCLUDED.linked_at
		`, storeID, s.now()).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Metadata(ctx)
}

// Metadata returns nil when no store is linked.
func (s *ContractStore) Metadata(ctx context.Context) (*model.StoreMetadata, error) {
	var rows []struct {
		ID          string
		Name        string
		RowCount    int
		LinkedAt    time.Time
		LastUpdated *time.Time
	}
	if err := s.db.WithContext(ctx).Raw(`
		SELECT
			st.id,
			st.name,
			l.linked_at,
			(SELECT COUNT(*) FROM contracts c WHERE c.store_id = st.id) AS row_count,
			(SELECT MAX(c.updated_at) FROM contracts c WHERE c.store_id = st.id) AS last_updated
		FROM linked_store l
		JOIN stores st ON st.id = l.store_id
		LIMIT 1
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	updated := row.LinkedAt
	if row.LastUpdated != nil && row.LastUpdated.After(updated) {
		updated = *row.LastUpdated
	}
	return &model.StoreMetadata{
		Name:        row.Name,
		ID:          row.ID,
		RowCount:    row.RowCount,
		LastUpdated: updated.Format(metadataTimeLayout),
	}, nil
}

func (s *ContractStore) linkedStoreID(ctx context.Context, db *gorm.DB, forUpdate bool) (string, error) {
	query := `SELECT store_id FROM linked_store LIMIT 1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var ids []string
	if err := db.WithContext(ctx).Raw(query).Scan(&ids).Error; err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", ErrNoLinkedStore
	}
	return ids[0], nil
}
