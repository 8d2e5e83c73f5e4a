package model

type PaymentStatus string

const (
	PaymentStatusPaid       PaymentStatus = "PAID"
	PaymentStatusOwes       PaymentStatus = "OWES"
	PaymentStatusDelinquent PaymentStatus = "DELINQUENT"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusOwes, PaymentStatusDelinquent:
		return true
	default:
		return false
	}
}

type ServiceStatus string

const (
	ServiceStatusActive    ServiceStatus = "ACTIVE"
	ServiceStatusInactive  ServiceStatus = "INACTIVE"
	ServiceStatusBlocked   ServiceStatus = "BLOCKED"
	ServiceStatusWithdrawn ServiceStatus = "WITHDRAWN"
)

func (s ServiceStatus) Valid() bool {
	switch s {
	case ServiceStatusActive, ServiceStatusInactive, ServiceStatusBlocked, ServiceStatusWithdrawn:
		return true
	default:
		return false
	}
}

// Contract is one customer agreement as held by the backing store.
// Index and SourceRowNumber are assigned by the store, never by the client.
type Contract struct {
	Index           int           `json:"index"`
	ContractNumber  string        `json:"contractNumber"`
	DisplayName     string        `json:"displayName"`
	TaxID           string        `json:"taxId"`
	Price           float64       `json:"price"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	ServiceStatus   ServiceStatus `json:"serviceStatus"`
	VehiclePlates   []string      `json:"vehiclePlates"`
	SourceRowNumber *int          `json:"sourceRowNumber,omitempty"`
}

// ContractPatch carries the fields to upsert. Index or SourceRowNumber
// identify the target row; with neither set the store appends a new row.
// A non-nil VehiclePlates pointing at an empty list clears the plates.
type ContractPatch struct {
	Index           *int           `json:"index,omitempty"`
	ContractNumber  *string        `json:"contractNumber,omitempty"`
	DisplayName     *string        `json:"displayName,omitempty"`
	TaxID           *string        `json:"taxId,omitempty"`
	Price           *float64       `json:"price,omitempty"`
	PaymentStatus   *PaymentStatus `json:"paymentStatus,omitempty"`
	ServiceStatus   *ServiceStatus `json:"serviceStatus,omitempty"`
	VehiclePlates   *[]string      `json:"vehiclePlates,omitempty"`
	SourceRowNumber *int           `json:"sourceRowNumber,omitempty"`
}

// Apply copies the set fields of the patch onto c.
func (p ContractPatch) Apply(c *Contract) {
	if p.ContractNumber != nil {
		c.ContractNumber = *p.ContractNumber
	}
	if p.DisplayName != nil {
		c.DisplayName = *p.DisplayName
	}
	if p.TaxID != nil {
		c.TaxID = *p.TaxID
	}
	if p.Price != nil {
		c.Price = *p.Price
	}
	if p.PaymentStatus != nil {
		c.PaymentStatus = *p.PaymentStatus
	}
	if p.ServiceStatus != nil {
		c.ServiceStatus = *p.ServiceStatus
	}
	if p.VehiclePlates != nil {
		plates := make([]string, len(*p.VehiclePlates))
		copy(plates, *p.VehiclePlates)
		c.VehiclePlates = plates
	}
}

// Clone returns a deep copy so callers never share plate slices or row pointers.
func (c Contract) Clone() Contract {
	out := c
	if c.VehiclePlates != nil {
		out.VehiclePlates = append([]string(nil), c.VehiclePlates...)
	}
	if c.SourceRowNumber != nil {
		row := *c.SourceRowNumber
		out.SourceRowNumber = &row
	}
	return out
}

type SaveResult struct {
	Success bool `json:"success"`
}
