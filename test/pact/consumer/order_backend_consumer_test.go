//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	backendclient "github.com/Apurer/go-order-dispatch/internal/clients/http/backend"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/adapters/external/httpbackend"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
	pacttest "github.com/Apurer/go-order-dispatch/test/pact"
)

func TestOrderBackendContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	menuItem := matchers.Map{}
	for key, value := range pacttest.ExampleMenuItem() {
		menuItem[key] = matchers.Like(value)
	}
	sendOrder := func(quantity string) matchers.Map {
		return matchers.Map{
			"Command": matchers.S(backendclient.CommandSendOrder),
			"CommandParameters": matchers.Map{
				"OrderId": matchers.Regex(pacttest.ExampleOrderID, pacttest.UUIDPattern),
				"MenuItems": []matchers.Map{{
					"Id":       matchers.S(pacttest.ExampleDishID),
					"Quantity": matchers.S(quantity),
				}},
			},
		}
	}

	pact.AddInteraction().
		Given(pacttest.StateMenuAvailable).
		UponReceiving("a GetMenu command with prices").
		WithRequest("POST", "/", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"Command":           matchers.S(backendclient.CommandGetMenu),
				"CommandParameters": matchers.Map{"WithPrice": matchers.Like(true)},
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"Command": matchers.S(backendclient.CommandGetMenu),
				"Success": matchers.Like(true),
				"Data": matchers.Map{
					"MenuItems": matchers.ArrayMinLike(menuItem, 1),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateAcceptsOrders).
		UponReceiving("a SendOrder command within limits").
		WithRequest("POST", "/", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(sendOrder(pacttest.AcceptedQty))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"Command": matchers.S(backendclient.CommandSendOrder),
				"Success": true,
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateEnforcesLimits).
		UponReceiving("a SendOrder command over the quantity limit").
		WithRequest("POST", "/", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(sendOrder(pacttest.OverLimitQty))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"Command":      matchers.S(backendclient.CommandSendOrder),
				"Success":      false,
				"ErrorMessage": matchers.Like(pacttest.OverLimitReason),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		host := config.Host
		if host == "" {
			host = "localhost"
		}
		client, err := backendclient.NewClient(fmt.Sprintf("http://%s:%d/", host, config.Port),
			backendclient.WithTimeout(10*time.Second))
		if err != nil {
			return err
		}
		transport := httpbackend.New(client)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		dishes, err := transport.GetMenu(ctx, true)
		if err != nil {
			return fmt.Errorf("get menu: %w", err)
		}
		if len(dishes) == 0 || dishes[0].Article == "" {
			return fmt.Errorf("expected at least one dish, got %+v", dishes)
		}

		accepted, err := transport.SendOrder(ctx, newOrder(dishes[0], 2))
		if err != nil {
			return fmt.Errorf("send order: %w", err)
		}
		if !accepted.Accepted {
			return fmt.Errorf("expected acceptance, got %+v", accepted)
		}

		rejected, err := transport.SendOrder(ctx, newOrder(dishes[0], 11))
		if err != nil {
			return fmt.Errorf("send order over limit: %w", err)
		}
		if rejected.Accepted || rejected.ErrorMessage == "" {
			return fmt.Errorf("expected rejection with a reason, got %+v", rejected)
		}
		return nil
	})
	require.NoError(t, err)
}

func newOrder(dish *domain.Dish, quantity int64) *domain.Order {
	order := domain.NewOrder(uuid.New(), time.Now())
	_ = order.AddItem(dish.ID, decimal.NewFromInt(quantity), dish.Price, dish.Name)
	return order
}
