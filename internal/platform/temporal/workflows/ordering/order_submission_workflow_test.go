package ordering

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/external/stub"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/memory"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	orderactivities "github.com/Apurer/go-order-dispatch/internal/platform/temporal/activities/ordering"
)

func newTestEnvironment(t *testing.T) (*testsuite.TestWorkflowEnvironment, *memory.Store) {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()

	store := memory.NewStore()
	transport := stub.New(stub.WithPolicy(stub.Thresholds(func() float64 { return 0 })))
	acts := orderactivities.NewActivities(application.NewService(transport, store))

	env.RegisterWorkflowWithOptions(OrderSubmissionWorkflow, workflow.RegisterOptions{Name: OrderSubmissionWorkflowName})
	env.RegisterActivityWithOptions(acts.RecordOrder, activity.RegisterOptions{Name: orderactivities.RecordOrderActivityName})
	env.RegisterActivityWithOptions(acts.DispatchOrder, activity.RegisterOptions{Name: orderactivities.DispatchOrderActivityName})
	env.RegisterActivityWithOptions(acts.FinalizeOrder, activity.RegisterOptions{Name: orderactivities.FinalizeOrderActivityName})
	return env, store
}

func command(quantity, price int64) OrderSubmissionWorkflowInput {
	return OrderSubmissionWorkflowInput{
		Command: types.SubmitOrderInput{Items: []types.OrderItemInput{{
			DishID:    "HOT001",
			DishName:  "Борщ с пампушками",
			Quantity:  decimal.NewFromInt(quantity),
			UnitPrice: decimal.NewFromInt(price),
		}}},
		TraceID: "trace-1",
	}
}

func storedStatus(t *testing.T, store *memory.Store, result types.SubmitOrderResult) domain.Status {
	t.Helper()
	order, err := store.New().Orders().Get(context.Background(), result.OrderID)
	require.NoError(t, err)
	return order.Status()
}

func TestOrderSubmissionWorkflow_Accepted(t *testing.T) {
	env, store := newTestEnvironment(t)
	env.ExecuteWorkflow(OrderSubmissionWorkflowName, command(2, 100))

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var result types.SubmitOrderResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.True(t, result.Success)
	require.Equal(t, domain.StatusSent, storedStatus(t, store, result))
}

func TestOrderSubmissionWorkflow_Rejected(t *testing.T) {
	env, store := newTestEnvironment(t)
	env.ExecuteWorkflow(OrderSubmissionWorkflowName, command(2, 6000))

	require.NoError(t, env.GetWorkflowError())
	var result types.SubmitOrderResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.False(t, result.Success)
	require.Equal(t, "Order amount exceeds maximum limit of 10000", result.ErrorMessage)
	require.Equal(t, domain.StatusFailed, storedStatus(t, store, result))
}

func TestOrderSubmissionWorkflow_DispatchActivityFailureStillFinalizes(t *testing.T) {
	env, store := newTestEnvironment(t)
	env.OnActivity(orderactivities.DispatchOrderActivityName, mock.Anything, mock.Anything).
		Return(types.DispatchOutcome{}, errors.New("worker lost"))
	env.ExecuteWorkflow(OrderSubmissionWorkflowName, command(1, 100))

	require.NoError(t, env.GetWorkflowError())
	var result types.SubmitOrderResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.False(t, result.Success)
	require.Equal(t, "worker lost", result.ErrorMessage)
	require.Equal(t, domain.StatusFailed, storedStatus(t, store, result))
}

func TestOrderSubmissionWorkflow_InvalidInputIsNotRetried(t *testing.T) {
	env, _ := newTestEnvironment(t)
	env.ExecuteWorkflow(OrderSubmissionWorkflowName, OrderSubmissionWorkflowInput{})

	err := env.GetWorkflowError()
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, orderactivities.ErrorTypeInvalidInput, appErr.Type())
	require.True(t, appErr.NonRetryable())
}
