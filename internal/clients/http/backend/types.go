package backend

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const (
	CommandGetMenu   = "GetMenu"
	CommandSendOrder = "SendOrder"
)

// Request is the command envelope posted to the backend.
type Request struct {
	Command           string `json:"Command"`
	CommandParameters any    `json:"CommandParameters"`
}

// Response is the reply envelope. Data is decoded per command.
type Response struct {
	Command      string          `json:"Command"`
	Success      bool            `json:"Success"`
	ErrorMessage string          `json:"ErrorMessage"`
	Data         json.RawMessage `json:"Data,omitempty"`
}

// GetMenuParameters are the GetMenu command parameters.
type GetMenuParameters struct {
	WithPrice bool `json:"WithPrice"`
}

// SendOrderParameters are the SendOrder command parameters.
type SendOrderParameters struct {
	OrderID   string          `json:"OrderId"`
	MenuItems []OrderMenuItem `json:"MenuItems"`
}

// OrderMenuItem is one order line on the wire. Quantity is a decimal string.
type OrderMenuItem struct {
	ID       string `json:"Id"`
	Quantity string `json:"Quantity"`
}

// MenuData is the GetMenu payload.
type MenuData struct {
	MenuItems []MenuItem `json:"MenuItems"`
}

// MenuItem is a catalog entry on the wire.
type MenuItem struct {
	ID         string          `json:"Id"`
	Article    string          `json:"Article"`
	Name       string          `json:"Name"`
	Price      decimal.Decimal `json:"Price"`
	IsWeighted bool            `json:"IsWeighted"`
	FullPath   string          `json:"FullPath"`
	Barcodes   []string        `json:"Barcodes"`
}
