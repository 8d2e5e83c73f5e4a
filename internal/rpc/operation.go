package rpc

// Operation names one of the backing-store functions. The set is closed.
type Operation string

const (
	OpFetchContracts     Operation = "getContractsFromSheet"
	OpSaveContract       Operation = "saveContractToSheet"
	OpLinkStore          Operation = "setLinkedSheetId"
	OpFetchStoreMetadata Operation = "getSheetMetadata"
)

func (op Operation) Valid() bool {
	switch op {
	case OpFetchContracts, OpSaveContract, OpLinkStore, OpFetchStoreMetadata:
		return true
	default:
		return false
	}
}

func (op Operation) String() string {
	return string(op)
}
