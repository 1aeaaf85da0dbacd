package application

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
)

// QuantityScale is the number of decimal places a quantity may carry. It
// matches the stored numeric(18,3) column and the backend's quantity format.
const QuantityScale = 3

var fieldMessages = map[string]string{
	"Items":     "order must contain at least one item",
	"DishID":    "dish id is required",
	"Quantity":  "quantity must be greater than zero",
	"UnitPrice": "unit price cannot be negative",
}

var tagMessages = map[string]string{
	"maxscale": fmt.Sprintf("quantity must have at most %d decimal places", QuantityScale),
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateOrderItem, types.OrderItemInput{})
	return v
}

// validateOrderItem checks the decimal fields exactly; validator tags only
// see decimal.Decimal as an opaque struct.
func validateOrderItem(sl validator.StructLevel) {
	item, ok := sl.Current().Interface().(types.OrderItemInput)
	if !ok {
		return
	}
	if !item.Quantity.IsPositive() {
		sl.ReportError(item.Quantity, "Quantity", "Quantity", "gt", "0")
	} else if !item.Quantity.Equal(item.Quantity.Truncate(QuantityScale)) {
		sl.ReportError(item.Quantity, "Quantity", "Quantity", "maxscale", fmt.Sprint(QuantityScale))
	}
	if item.UnitPrice.IsNegative() {
		sl.ReportError(item.UnitPrice, "UnitPrice", "UnitPrice", "gte", "0")
	}
}

func (s *Service) validateSubmission(input types.SubmitOrderInput) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	seen := map[string]bool{}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg, ok = fieldMessages[fe.Field()]
		}
		if !ok {
			msg = fe.Error()
		}
		if seen[msg] {
			continue
		}
		seen[msg] = true
		messages = append(messages, msg)
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(messages, "; "))
}
