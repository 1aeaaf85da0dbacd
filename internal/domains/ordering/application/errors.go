package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
)

var (
	// ErrInvalidInput signals the request violated a validation rule or domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrInternal wraps persistence and programming faults surfaced to callers.
	ErrInternal = errors.New("internal error")
	// ErrMenuUnavailable signals the remote catalog could not be read.
	ErrMenuUnavailable = errors.New("error retrieving menu")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidArgument) ||
		errors.Is(err, domain.ErrEmptyDishID) ||
		errors.Is(err, domain.ErrEmptyArticle) ||
		errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrNegativePrice) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func internalError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInternal, err)
}
