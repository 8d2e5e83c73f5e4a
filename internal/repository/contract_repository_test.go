package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgemaster/sge-backend/internal/model"
)

func TestContractRowToModel(t *testing.T) {
	row := contractRow{
		RowNumber:      7,
		Idx:            3,
		ContractNumber: "1003",
		DisplayName:    "María López",
		TaxID:          "15.222.333-K",
		Price:          55000,
		PaymentStatus:  "PAID",
		ServiceStatus:  "BLOCKED",
		VehiclePlates:  `["XYZA-99","BBCC-11"]`,
	}

	c := row.toModel()
	assert.Equal(t, 3, c.Index)
	assert.Equal(t, model.ServiceStatusBlocked, c.ServiceStatus)
	assert.Equal(t, []string{"XYZA-99", "BBCC-11"}, c.VehiclePlates)
	require.NotNil(t, c.SourceRowNumber)
	assert.Equal(t, 7, *c.SourceRowNumber)
}

func TestContractRowToModel_BadPlates(t *testing.T) {
	c := contractRow{VehiclePlates: "not json"}.toModel()
	assert.NotNil(t, c.VehiclePlates)
	assert.Empty(t, c.VehiclePlates)
}

func TestContractLookup(t *testing.T) {
	row, idx := 7, 3

	column, arg, ok := contractLookup(model.ContractPatch{SourceRowNumber: &row, Index: &idx})
	require.True(t, ok)
	assert.Equal(t, "row_number", column)
	assert.Equal(t, 7, arg)

	column, arg, ok = contractLookup(model.ContractPatch{Index: &idx})
	require.True(t, ok)
	assert.Equal(t, "idx", column)
	assert.Equal(t, 3, arg)

	_, _, ok = contractLookup(model.ContractPatch{})
	assert.False(t, ok)
}

func TestPlanSave(t *testing.T) {
	idx := 4

	action, err := planSave(true, model.ContractPatch{Index: &idx})
	require.NoError(t, err)
	assert.Equal(t, saveUpdate, action)

	action, err = planSave(false, model.ContractPatch{})
	require.NoError(t, err)
	assert.Equal(t, saveAppend, action)

	_, err = planSave(false, model.ContractPatch{Index: &idx})
	assert.ErrorIs(t, err, ErrContractNotFound)
}
