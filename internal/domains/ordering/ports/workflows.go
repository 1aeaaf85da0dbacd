package ports

import (
	"context"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
)

// WorkflowOrchestrator runs order submission either inline or on a workflow engine.
type WorkflowOrchestrator interface {
	SubmitOrder(ctx context.Context, input types.SubmitOrderInput) (types.SubmitOrderResult, error)
}
