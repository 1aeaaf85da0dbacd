package httpbackend

import (
	backendclient "github.com/Apurer/go-order-dispatch/internal/clients/http/backend"
	"github.com/Apurer/go-order-dispatch/internal/domains/ordering/domain"
)

// quantityPlaces matches the backend's "0.###" quantity format.
const quantityPlaces = 3

// ToSendOrderParameters converts an order into SendOrder parameters.
func ToSendOrderParameters(order *domain.Order) backendclient.SendOrderParameters {
	items := order.Items()
	params := backendclient.SendOrderParameters{
		OrderID:   order.ID().String(),
		MenuItems: make([]backendclient.OrderMenuItem, 0, len(items)),
	}
	for _, item := range items {
		params.MenuItems = append(params.MenuItems, backendclient.OrderMenuItem{
			ID:       item.DishID,
			Quantity: item.Quantity.Round(quantityPlaces).String(),
		})
	}
	return params
}

// ToDishes converts wire menu items into catalog entries.
func ToDishes(items []backendclient.MenuItem) ([]*domain.Dish, error) {
	dishes := make([]*domain.Dish, 0, len(items))
	for _, item := range items {
		dish, err := domain.NewDish(item.ID, item.Article, item.Name, item.Price, item.IsWeighted, item.FullPath)
		if err != nil {
			return nil, wrapItemError(item.ID, err)
		}
		for _, code := range item.Barcodes {
			if err := dish.AddBarcode(code); err != nil {
				return nil, wrapItemError(item.ID, err)
			}
		}
		dishes = append(dishes, dish)
	}
	return dishes, nil
}

// FromDishes converts catalog entries into wire menu items.
func FromDishes(dishes []*domain.Dish) []backendclient.MenuItem {
	items := make([]backendclient.MenuItem, 0, len(dishes))
	for _, dish := range dishes {
		barcodes := dish.Barcodes()
		if barcodes == nil {
			barcodes = []string{}
		}
		items = append(items, backendclient.MenuItem{
			ID:         dish.ID,
			Article:    dish.Article,
			Name:       dish.Name,
			Price:      dish.Price,
			IsWeighted: dish.IsWeighted,
			FullPath:   dish.FullPath,
			Barcodes:   barcodes,
		})
	}
	return items
}
