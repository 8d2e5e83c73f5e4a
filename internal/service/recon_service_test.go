package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgemaster/sge-backend/internal/model"
	"github.com/sgemaster/sge-backend/internal/statement"
)

func TestReconService_Analyze(t *testing.T) {
	svc := NewReconService(&fakeState{contracts: sampleContracts()}, statement.DefaultRegistry())
	csv := "Fecha;Monto;Ordenante;Glosa\n" +
		"2025-07-05;65.000;Juan Pérez;CONTRATO 1001\n" +
		"2025-07-06;120.000;Empresa Logistica;TRANSFERENCIA\n" +
		"2025-07-07;1;Desconocido;\n"

	result, err := svc.Analyze(context.Background(), "cartola.csv", strings.NewReader(csv), viewer)
	require.NoError(t, err)

	require.Len(t, result.Transactions, 3)
	assert.Equal(t, 2, result.Matched)
	assert.Equal(t, 1, result.Unmatched)
	assert.Equal(t, 100, result.Transactions[0].Score)
	require.NotNil(t, result.Transactions[1].Suggested)
	assert.Equal(t, "1002", result.Transactions[1].Suggested.ContractNumber)
	assert.Equal(t, 85, result.Transactions[1].Score)
	assert.Nil(t, result.Transactions[2].Suggested)
}

func TestReconService_Errors(t *testing.T) {
	svc := NewReconService(&fakeState{}, statement.DefaultRegistry())
	ctx := context.Background()

	_, err := svc.Analyze(ctx, "cartola.pdf", strings.NewReader(""), viewer)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Analyze(ctx, "cartola.csv", strings.NewReader("nada;aqui\n1;2\n"), viewer)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Analyze(ctx, "cartola.csv", strings.NewReader(""), model.Principal{})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
