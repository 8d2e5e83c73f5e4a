package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgemaster/sge-backend/internal/model"
	"github.com/sgemaster/sge-backend/internal/repository"
)

type fakeWriter struct {
	result  model.SaveResult
	err     error
	patches []model.ContractPatch
}

func (f *fakeWriter) SaveContract(_ context.Context, patch model.ContractPatch) (model.SaveResult, error) {
	f.patches = append(f.patches, patch)
	return f.result, f.err
}

func TestFilterContracts(t *testing.T) {
	contracts := sampleContracts()

	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"1001", "1002", "1003"}},
		{"juan", []string{"1001"}},
		{"LOGÍSTICA", []string{"1002"}},
		{"15.222", []string{"1003"}},
		{"100", []string{"1001", "1002", "1003"}},
		{"nadie", nil},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			var got []string
			for _, c := range FilterContracts(contracts, tt.term) {
				got = append(got, c.ContractNumber)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContractService_List(t *testing.T) {
	svc := NewContractService(&fakeState{contracts: sampleContracts()}, &fakeWriter{}, zerolog.Nop())

	list, err := svc.List("maría", viewer)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Empty(t, list.Message)

	list, err = svc.List("zzz", viewer)
	require.NoError(t, err)
	assert.NotNil(t, list.Items)
	assert.Equal(t, 0, list.Total)
	assert.Equal(t, NoRecordsMessage, list.Message)
}

func TestContractService_ReadsRequireReader(t *testing.T) {
	state := &fakeState{contracts: sampleContracts()}
	svc := NewContractService(state, &fakeWriter{}, zerolog.Nop())
	nobody := model.Principal{Role: "DRIVER"}

	_, err := svc.List("", nobody)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Refresh(context.Background(), nobody)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Zero(t, state.refreshes)

	_, err = svc.Summary(nobody)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	summary, err := svc.Summary(viewer)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalContracts)

	contracts, err := svc.Refresh(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, contracts, 3)
}

func TestContractService_SaveRefreshesInsteadOfPatching(t *testing.T) {
	updated := sampleContracts()
	updated[0].PaymentStatus = model.PaymentStatusOwes
	state := &fakeState{contracts: sampleContracts(), next: updated}
	writer := &fakeWriter{result: model.SaveResult{Success: true}}
	svc := NewContractService(state, writer, zerolog.Nop())

	owes := model.PaymentStatusOwes
	idx := 1
	outcome, err := svc.Save(context.Background(), model.ContractPatch{Index: &idx, PaymentStatus: &owes}, admin)
	require.NoError(t, err)

	assert.True(t, outcome.Result.Success)
	assert.Equal(t, 1, state.refreshes)
	require.Len(t, writer.patches, 1)
	assert.Equal(t, model.PaymentStatusOwes, outcome.Contracts[0].PaymentStatus)
}

func TestContractService_SaveKeepsSnapshotWhenRefreshFails(t *testing.T) {
	state := &fakeState{contracts: sampleContracts(), refreshErr: errors.New("offline")}
	svc := NewContractService(state, &fakeWriter{result: model.SaveResult{Success: true}}, zerolog.Nop())

	outcome, err := svc.Save(context.Background(), model.ContractPatch{}, admin)
	require.NoError(t, err)
	assert.Len(t, outcome.Contracts, 3)
}

func TestContractService_SaveValidation(t *testing.T) {
	svc := NewContractService(&fakeState{}, &fakeWriter{}, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Save(ctx, model.ContractPatch{}, viewer)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	bad := model.PaymentStatus("LATE")
	_, err = svc.Save(ctx, model.ContractPatch{PaymentStatus: &bad}, admin)
	assert.ErrorIs(t, err, ErrInvalidInput)

	badService := model.ServiceStatus("PAUSED")
	_, err = svc.Save(ctx, model.ContractPatch{ServiceStatus: &badService}, admin)
	assert.ErrorIs(t, err, ErrInvalidInput)

	negative := -1.0
	_, err = svc.Save(ctx, model.ContractPatch{Price: &negative}, admin)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestContractService_SaveMapsMissingRow(t *testing.T) {
	writer := &fakeWriter{err: fmt.Errorf("save: %w", repository.ErrContractNotFound)}
	svc := NewContractService(&fakeState{}, writer, zerolog.Nop())

	_, err := svc.Save(context.Background(), model.ContractPatch{}, admin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleContracts())

	assert.Equal(t, 3, summary.TotalContracts)
	assert.Equal(t, 2, summary.ActiveContracts)
	assert.Equal(t, 1, summary.DelinquentCount)
	assert.Equal(t, "120000", summary.ArrearsAmount.String())
	assert.Equal(t, "185000", summary.MonthlyBilling.String())
	assert.Equal(t, "33.3", summary.CollectionRatePct.String())
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.TotalContracts)
	assert.True(t, summary.CollectionRatePct.IsZero())
}
