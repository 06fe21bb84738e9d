package dto

// AccountingStatusResponse reports the configured accounting integration.
type AccountingStatusResponse struct {
	Provider  string `json:"provider"`
	Connected bool   `json:"connected"`
}

// AuthURLResponse carries the consent URL for connecting the accounting system.
type AuthURLResponse struct {
	Provider string `json:"provider"`
	AuthURL  string `json:"auth_url"`
	State    string `json:"state"`
}
