package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
)

var (
	ErrEmptyOrderInput = errors.New("order input cannot be empty")
	ErrMalformedLine   = errors.New("malformed order line")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrUnknownDishCode = errors.New("dish not found")
)

// OrderLineRequest is one "CODE:QTY" pair typed by an operator.
type OrderLineRequest struct {
	Code     string
	Quantity decimal.Decimal
}

// ParseOrderInput reads the "CODE1:QTY1;CODE2:QTY2" order-entry format.
// Empty segments between separators are skipped.
func ParseOrderInput(raw string) ([]OrderLineRequest, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyOrderInput
	}
	var lines []OrderLineRequest
	for _, segment := range strings.Split(raw, ";") {
		if segment == "" {
			continue
		}
		parts := strings.Split(segment, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: %s", ErrMalformedLine, segment)
		}
		code := strings.TrimSpace(parts[0])
		quantityText := strings.TrimSpace(parts[1])
		quantity, err := decimal.NewFromString(quantityText)
		if err != nil || !quantity.IsPositive() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidQuantity, quantityText)
		}
		lines = append(lines, OrderLineRequest{Code: code, Quantity: quantity})
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrderInput
	}
	return lines, nil
}

// ResolveLines matches each code against the menu by article, then by id,
// and prices the line from the menu.
func ResolveLines(menu []*domain.Dish, lines []OrderLineRequest) (SubmitOrderInput, error) {
	input := SubmitOrderInput{Items: make([]OrderItemInput, 0, len(lines))}
	for _, line := range lines {
		dish := findDish(menu, line.Code)
		if dish == nil {
			return SubmitOrderInput{}, fmt.Errorf("%w: %q", ErrUnknownDishCode, line.Code)
		}
		input.Items = append(input.Items, OrderItemInput{
			DishID:    dish.ID,
			DishName:  dish.Name,
			Quantity:  line.Quantity,
			UnitPrice: dish.Price,
		})
	}
	return input, nil
}

func findDish(menu []*domain.Dish, code string) *domain.Dish {
	for _, dish := range menu {
		if dish != nil && (dish.Article == code || dish.ID == code) {
			return dish
		}
	}
	return nil
}
