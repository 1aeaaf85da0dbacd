package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemInput is one requested line of a submission.
type OrderItemInput struct {
	DishID    string          `json:"dishId" validate:"required"`
	DishName  string          `json:"dishName"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// SubmitOrderInput is the command accepted by the submission flow.
type SubmitOrderInput struct {
	Items []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// FinalizeOrderInput carries the dispatch outcome to the reconciliation step.
type FinalizeOrderInput struct {
	OrderID uuid.UUID       `json:"orderId"`
	Outcome DispatchOutcome `json:"outcome"`
}
