package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/http/mapper"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/application/types"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/ports"
	apierrors "github.com/Apurer/go-order-dispatch/internal/shared/errors"
)

// OrderAPI wires HTTP transport with the ordering service and workflows.
type OrderAPI struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
	responder *apierrors.Responder
}

// NewOrderAPI creates handlers backed by service. Submissions go through
// workflows when set, straight to the service otherwise.
func NewOrderAPI(service ports.Service, workflows ports.WorkflowOrchestrator) *OrderAPI {
	return &OrderAPI{
		service:   service,
		workflows: workflows,
		responder: apierrors.NewResponder("", mapOrderingError),
	}
}

// Get /api/v1/menu
func (api *OrderAPI) GetMenu(c *gin.Context) {
	withPrice, ok := api.withPriceParam(c)
	if !ok {
		return
	}
	dishes, err := api.service.GetMenu(c.Request.Context(), withPrice)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDishes(dishes))
}

// Post /api/v1/menu/sync
// Mirrors the remote catalog into local storage.
func (api *OrderAPI) SyncMenu(c *gin.Context) {
	withPrice, ok := api.withPriceParam(c)
	if !ok {
		return
	}
	result, err := api.service.SyncMenu(c.Request.Context(), withPrice)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromMenuSyncResult(result))
}

// Post /api/v1/orders
// A rejected or undeliverable order is still a completed submission and
// answers 200 with success=false.
func (api *OrderAPI) SubmitOrder(c *gin.Context) {
	var payload mapper.SubmitOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.responder.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	input := mapper.ToSubmitOrderInput(payload)
	if payload.UsesShorthand() {
		resolved, err := api.resolveShorthand(ctx, payload.Order)
		if err != nil {
			api.responder.RespondError(c, err)
			return
		}
		input = resolved
	}
	result, err := api.submit(ctx, input)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromSubmitOrderResult(result))
}

// Get /api/v1/orders
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrderProjectionList(orders))
}

// Get /api/v1/orders/:id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := api.orderIDParam(c)
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromOrderProjection(order))
}

// Delete /api/v1/orders/:id
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id, ok := api.orderIDParam(c)
	if !ok {
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), id); err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (api *OrderAPI) submit(ctx context.Context, input types.SubmitOrderInput) (types.SubmitOrderResult, error) {
	if api.workflows != nil {
		return api.workflows.SubmitOrder(ctx, input)
	}
	return api.service.SubmitOrder(ctx, input)
}

func (api *OrderAPI) resolveShorthand(ctx context.Context, raw string) (types.SubmitOrderInput, error) {
	lines, err := types.ParseOrderInput(raw)
	if err != nil {
		return types.SubmitOrderInput{}, err
	}
	menu, err := api.service.GetMenu(ctx, true)
	if err != nil {
		return types.SubmitOrderInput{}, err
	}
	return types.ResolveLines(menu, lines)
}

func (api *OrderAPI) orderIDParam(c *gin.Context) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		api.responder.BadRequest(c, "invalid order id: "+err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (api *OrderAPI) withPriceParam(c *gin.Context) (bool, bool) {
	raw := c.DefaultQuery("withPrice", "true")
	withPrice, err := strconv.ParseBool(raw)
	if err != nil {
		api.responder.BadRequest(c, "withPrice must be a boolean")
		return false, false
	}
	return withPrice, true
}
