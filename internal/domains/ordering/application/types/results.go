package types

import "github.com/google/uuid"

// SubmitOrderResult is what the caller sees once the order reached a terminal status.
type SubmitOrderResult struct {
	Success      bool      `json:"success"`
	OrderID      uuid.UUID `json:"orderId"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}

// DispatchOutcome is the reduced answer of a single dispatch attempt.
// Transport failures and business rejections both arrive as Accepted=false.
type DispatchOutcome struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// MenuSyncResult summarizes a catalog refresh.
type MenuSyncResult struct {
	Fetched int `json:"fetched"`
	Created int `json:"created"`
	Updated int `json:"updated"`
}
