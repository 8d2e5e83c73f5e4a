package repository

import (
	"context"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sgemaster/sge-backend/internal/config"
	"github.com/sgemaster/sge-backend/internal/db"
	"github.com/sgemaster/sge-backend/internal/model"
)

const testStoreID = "1AbCdEfGhIjKlMnOpQrStUvWxYz012345"

// newTestStore connects to the database named by TEST_DB_DSN and empties it.
// Tests are skipped when it is unset.
func newTestStore(t *testing.T) *ContractStore {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	database, err := db.New(&config.Config{Environment: "test", DB: config.DBConfig{DSN: dsn}}, zerolog.Nop())
	require.NoError(t, err)
	resetTables(t, database)
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewContractStore(database)
}

func resetTables(t *testing.T, database *gorm.DB) {
	t.Helper()
	require.NoError(t, database.Exec(`TRUNCATE contracts, linked_store, stores RESTART IDENTITY CASCADE`).Error)
}

func TestContractStore_WithoutLinkedStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	contracts, err := store.ListContracts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, contracts)
	assert.Empty(t, contracts)

	meta, err := store.Metadata(ctx)
	require.NoError(t, err)
	assert.Nil(t, meta)

	name := "Juan"
	err = store.SaveContract(ctx, model.ContractPatch{DisplayName: &name})
	assert.ErrorIs(t, err, ErrNoLinkedStore)
}

func TestContractStore_AppendThenUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	meta, err := store.LinkStore(ctx, testStoreID)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, testStoreID, meta.ID)
	assert.Equal(t, 0, meta.RowCount)

	number, name, price := "1001", "Juan Pérez", 65000.0
	plates := []string{"ABCD-12"}
	require.NoError(t, store.SaveContract(ctx, model.ContractPatch{
		ContractNumber: &number, DisplayName: &name, Price: &price, VehiclePlates: &plates,
	}))
	second := "1002"
	require.NoError(t, store.SaveContract(ctx, model.ContractPatch{ContractNumber: &second}))

	contracts, err := store.ListContracts(ctx)
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, 1, contracts[0].Index)
	assert.Equal(t, 2, contracts[1].Index)
	assert.Equal(t, []string{"ABCD-12"}, contracts[0].VehiclePlates)
	assert.Equal(t, model.PaymentStatusPaid, contracts[1].PaymentStatus)

	idx := 1
	empty := []string{}
	delinquent := model.PaymentStatusDelinquent
	require.NoError(t, store.SaveContract(ctx, model.ContractPatch{
		Index: &idx, VehiclePlates: &empty, PaymentStatus: &delinquent,
	}))

	contracts, err = store.ListContracts(ctx)
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, "Juan Pérez", contracts[0].DisplayName)
	assert.Equal(t, 65000.0, contracts[0].Price)
	assert.Empty(t, contracts[0].VehiclePlates)
	assert.Equal(t, model.PaymentStatusDelinquent, contracts[0].PaymentStatus)

	missing := 99
	err = store.SaveContract(ctx, model.ContractPatch{Index: &missing})
	assert.ErrorIs(t, err, ErrContractNotFound)

	meta, err = store.Metadata(ctx)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, 2, meta.RowCount)
}

func TestContractStore_ConcurrentAppends(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	_, err := store.LinkStore(ctx, testStoreID)
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			number := string(rune('A' + i))
			errs[i] = store.SaveContract(ctx, model.ContractPatch{ContractNumber: &number})
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	contracts, err := store.ListContracts(ctx)
	require.NoError(t, err)
	require.Len(t, contracts, n)
	indexes := make([]int, 0, n)
	for _, c := range contracts {
		indexes = append(indexes, c.Index)
	}
	sort.Ints(indexes)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, indexes)
}
