package model

// StoreMetadata describes the currently linked backing store.
type StoreMetadata struct {
	Name        string `json:"name"`
	ID          string `json:"id"`
	RowCount    int    `json:"rowCount"`
	LastUpdated string `json:"lastUpdated"`
}

type LinkResult struct {
	Success  bool    `json:"success"`
	Name     *string `json:"name,omitempty"`
	RowCount *int    `json:"rowCount,omitempty"`
}
