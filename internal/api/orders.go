package api

import (
	"context"
	"fmt"
	"net/http"
)

// orderEnvelope wraps the {"order": ...} response shape.
type orderEnvelope struct {
	Order Order `json:"order"`
}

// ordersEnvelope wraps the {"orders": [...]} response shape.
type ordersEnvelope struct {
	Orders []Order `json:"orders"`
}

// Orders lists the current user's order history, newest first.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var out ordersEnvelope
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// Order fetches one of the current user's orders by id.
func (c *Client) Order(ctx context.Context, id int) (Order, error) {
	var out orderEnvelope
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, &out); err != nil {
		return Order{}, err
	}
	return out.Order, nil
}

// CreateOrder places an order for the current cart contents. The server
// consumes the cart as part of the same transaction, so callers must not
// clear it separately.
func (c *Client) CreateOrder(ctx context.Context, shippingAddress string) (Order, error) {
	in := struct {
		ShippingAddress string `json:"shipping_address"`
	}{ShippingAddress: shippingAddress}

	var out orderEnvelope
	if err := c.do(ctx, http.MethodPost, "/orders", in, &out); err != nil {
		return Order{}, err
	}
	return out.Order, nil
}
