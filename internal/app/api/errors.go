package api

import (
	"errors"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
	apierrors "github.com/Apurer/go-order-dispatch/internal/shared/errors"
)

// mapOrderingError translates application sentinels into problem responses.
func mapOrderingError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, application.ErrInvalidInput),
		errors.Is(err, types.ErrEmptyOrderInput),
		errors.Is(err, types.ErrMalformedLine),
		errors.Is(err, types.ErrInvalidQuantity),
		errors.Is(err, types.ErrUnknownDishCode):
		return apierrors.NewValidationProblem(err.Error()), true
	case errors.Is(err, ports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("order not found"), true
	case errors.Is(err, ports.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, application.ErrMenuUnavailable):
		return apierrors.ErrBackendUnavailable.WithDetail(err.Error()), true
	default:
		return apierrors.ProblemDetail{}, false
	}
}
