package stub

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
)

// Policy decides how the stub backend answers an order.
type Policy func(order *domain.Order) ports.DispatchResult

const (
	PolicyAcceptAll  = "accept-all"
	PolicyThresholds = "thresholds"
	PolicyScenarios  = "scenarios"
)

const (
	maxOrderAmount  = 10000
	maxLineQuantity = 10
	maxLines        = 20
	successRate     = 0.8
)

var (
	amountCeiling   = decimal.NewFromInt(maxOrderAmount)
	quantityCeiling = decimal.NewFromInt(maxLineQuantity)
)

// AcceptAll accepts every order.
func AcceptAll() Policy {
	return func(*domain.Order) ports.DispatchResult {
		return ports.DispatchResult{Accepted: true}
	}
}

// Thresholds rejects orders above the amount, per-line quantity and line-count
// ceilings and otherwise accepts when roll() falls below the success rate.
// A nil roll uses the shared random source.
func Thresholds(roll func() float64) Policy {
	if roll == nil {
		roll = rand.Float64
	}
	return func(order *domain.Order) ports.DispatchResult {
		if order.TotalAmount().GreaterThan(amountCeiling) {
			return reject(fmt.Sprintf("Order amount exceeds maximum limit of %d", maxOrderAmount))
		}
		items := order.Items()
		for _, item := range items {
			if item.Quantity.GreaterThan(quantityCeiling) {
				return reject(fmt.Sprintf("Maximum quantity per item is %d", maxLineQuantity))
			}
		}
		if len(items) > maxLines {
			return reject(fmt.Sprintf("Maximum %d items per order", maxLines))
		}
		if roll() < successRate {
			return ports.DispatchResult{Accepted: true}
		}
		return reject("Random server error occurred")
	}
}

var scenarios = []ports.DispatchResult{
	{Accepted: true},
	{Accepted: true, ErrorMessage: "Order processed with warnings: some items may be out of stock"},
	{Accepted: false, ErrorMessage: "Validation failed: invalid order format"},
	{Accepted: false, ErrorMessage: "Internal server error: database connection failed"},
	{Accepted: false, ErrorMessage: "Items out of stock: HOT001, SUS003"},
	{Accepted: false, ErrorMessage: "Request timeout: server not responding"},
}

// Scenarios answers with one of a fixed set of canned responses chosen by pick.
func Scenarios(pick func(n int) int) Policy {
	if pick == nil {
		pick = rand.IntN
	}
	return func(*domain.Order) ports.DispatchResult {
		return scenarios[pick(len(scenarios))]
	}
}

// PolicyByName resolves a configured policy name. Empty selects AcceptAll.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyAcceptAll:
		return AcceptAll(), nil
	case PolicyThresholds:
		return Thresholds(nil), nil
	case PolicyScenarios:
		return Scenarios(nil), nil
	default:
		return nil, fmt.Errorf("unknown stub policy %q", name)
	}
}

func reject(message string) ports.DispatchResult {
	return ports.DispatchResult{Accepted: false, ErrorMessage: message}
}
