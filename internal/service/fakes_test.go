package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/sgemaster/sge-backend/internal/coordinator"
	"github.com/sgemaster/sge-backend/internal/model"
)

var (
	admin  = model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
	viewer = model.Principal{UserID: uuid.New(), Role: model.RoleViewer}
)

type fakeState struct {
	mu         sync.Mutex
	contracts  []model.Contract
	next       []model.Contract
	refreshErr error
	refreshes  int
}

func (f *fakeState) Snapshot() []model.Contract {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Contract(nil), f.contracts...)
}

func (f *fakeState) Refresh(context.Context) ([]model.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	if f.next != nil {
		f.contracts = f.next
	}
	return append([]model.Contract(nil), f.contracts...), nil
}

func (f *fakeState) State() coordinator.State {
	return coordinator.StateReady
}

func sampleContracts() []model.Contract {
	return []model.Contract{
		{Index: 1, ContractNumber: "1001", DisplayName: "Juan Pérez", TaxID: "12.345.678-9", Price: 65000,
			PaymentStatus: model.PaymentStatusPaid, ServiceStatus: model.ServiceStatusActive},
		{Index: 2, ContractNumber: "1002", DisplayName: "Empresa Logística S.A.", TaxID: "77.888.999-0", Price: 120000,
			PaymentStatus: model.PaymentStatusDelinquent, ServiceStatus: model.ServiceStatusActive},
		{Index: 3, ContractNumber: "1003", DisplayName: "María López", TaxID: "15.222.333-K", Price: 55000,
			PaymentStatus: model.PaymentStatusOwes, ServiceStatus: model.ServiceStatusBlocked},
	}
}
