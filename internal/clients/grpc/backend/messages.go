package backend

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// MenuItem is a catalog entry on the wire.
type MenuItem struct {
	ID         string
	Article    string
	Name       string
	Price      float64
	IsWeighted bool
	FullPath   string
	Barcodes   []string
}

// MenuResponse answers GetMenu.
type MenuResponse struct {
	Success      bool
	ErrorMessage string
	MenuItems    []MenuItem
}

// OrderItem is one order line on the wire.
type OrderItem struct {
	ID       string
	Quantity float64
}

// Order is the SendOrder request.
type Order struct {
	ID         string
	OrderItems []OrderItem
}

// OrderResponse answers SendOrder.
type OrderResponse struct {
	Success      bool
	ErrorMessage string
}

func encodeOrder(o Order) *dynamicpb.Message {
	md := contract.order
	msg := newMessage(md)
	msg.Set(fieldOf(md, "id"), protoreflect.ValueOfString(o.ID))
	items := msg.Mutable(fieldOf(md, "order_items")).List()
	itemMD := contract.orderItem
	for _, it := range o.OrderItems {
		item := items.NewElement()
		m := item.Message()
		m.Set(fieldOf(itemMD, "id"), protoreflect.ValueOfString(it.ID))
		m.Set(fieldOf(itemMD, "quantity"), protoreflect.ValueOfFloat64(it.Quantity))
		items.Append(item)
	}
	return msg
}

func decodeOrder(msg protoreflect.Message) Order {
	md := contract.order
	o := Order{ID: msg.Get(fieldOf(md, "id")).String()}
	items := msg.Get(fieldOf(md, "order_items")).List()
	itemMD := contract.orderItem
	for i := 0; i < items.Len(); i++ {
		m := items.Get(i).Message()
		o.OrderItems = append(o.OrderItems, OrderItem{
			ID:       m.Get(fieldOf(itemMD, "id")).String(),
			Quantity: m.Get(fieldOf(itemMD, "quantity")).Float(),
		})
	}
	return o
}

func encodeOrderResponse(r OrderResponse) *dynamicpb.Message {
	md := contract.orderResponse
	msg := newMessage(md)
	msg.Set(fieldOf(md, "success"), protoreflect.ValueOfBool(r.Success))
	msg.Set(fieldOf(md, "error_message"), protoreflect.ValueOfString(r.ErrorMessage))
	return msg
}

func decodeOrderResponse(msg protoreflect.Message) OrderResponse {
	md := contract.orderResponse
	return OrderResponse{
		Success:      msg.Get(fieldOf(md, "success")).Bool(),
		ErrorMessage: msg.Get(fieldOf(md, "error_message")).String(),
	}
}

func encodeMenuResponse(r MenuResponse) *dynamicpb.Message {
	md := contract.menuResponse
	msg := newMessage(md)
	msg.Set(fieldOf(md, "success"), protoreflect.ValueOfBool(r.Success))
	msg.Set(fieldOf(md, "error_message"), protoreflect.ValueOfString(r.ErrorMessage))
	items := msg.Mutable(fieldOf(md, "menu_items")).List()
	itemMD := contract.menuItem
	for _, it := range r.MenuItems {
		item := items.NewElement()
		m := item.Message()
		m.Set(fieldOf(itemMD, "id"), protoreflect.ValueOfString(it.ID))
		m.Set(fieldOf(itemMD, "article"), protoreflect.ValueOfString(it.Article))
		m.Set(fieldOf(itemMD, "name"), protoreflect.ValueOfString(it.Name))
		m.Set(fieldOf(itemMD, "price"), protoreflect.ValueOfFloat64(it.Price))
		m.Set(fieldOf(itemMD, "is_weighted"), protoreflect.ValueOfBool(it.IsWeighted))
		m.Set(fieldOf(itemMD, "full_path"), protoreflect.ValueOfString(it.FullPath))
		barcodes := m.Mutable(fieldOf(itemMD, "barcodes")).List()
		for _, code := range it.Barcodes {
			barcodes.Append(protoreflect.ValueOfString(code))
		}
		items.Append(item)
	}
	return msg
}

func decodeMenuResponse(msg protoreflect.Message) MenuResponse {
	md := contract.menuResponse
	r := MenuResponse{
		Success:      msg.Get(fieldOf(md, "success")).Bool(),
		ErrorMessage: msg.Get(fieldOf(md, "error_message")).String(),
	}
	items := msg.Get(fieldOf(md, "menu_items")).List()
	itemMD := contract.menuItem
	for i := 0; i < items.Len(); i++ {
		m := items.Get(i).Message()
		item := MenuItem{
			ID:         m.Get(fieldOf(itemMD, "id")).String(),
			Article:    m.Get(fieldOf(itemMD, "article")).String(),
			Name:       m.Get(fieldOf(itemMD, "name")).String(),
			Price:      m.Get(fieldOf(itemMD, "price")).Float(),
			IsWeighted: m.Get(fieldOf(itemMD, "is_weighted")).Bool(),
			FullPath:   m.Get(fieldOf(itemMD, "full_path")).String(),
		}
		codes := m.Get(fieldOf(itemMD, "barcodes")).List()
		for j := 0; j < codes.Len(); j++ {
			item.Barcodes = append(item.Barcodes, codes.Get(j).String())
		}
		r.MenuItems = append(r.MenuItems, item)
	}
	return r
}
