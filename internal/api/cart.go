package api

import (
	"context"
	"fmt"
	"net/http"
)

// cartEnvelope wraps the {"cart": [...]} response shape.
type cartEnvelope struct {
	Cart []CartItem `json:"cart"`
}

// cartItemEnvelope wraps the {"cart_item": ...} response shape.
type cartItemEnvelope struct {
	CartItem CartItem `json:"cart_item"`
}

// Cart returns the full cart line sequence for the current session.
func (c *Client) Cart(ctx context.Context) ([]CartItem, error) {
	var out cartEnvelope
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return out.Cart, nil
}

// AddToCart adds quantity of a book and returns the created line. The server
// is the sole authority on stock sufficiency and may merge into an existing
// line.
func (c *Client) AddToCart(ctx context.Context, bookID, quantity int) (CartItem, error) {
	in := struct {
		BookID   int `json:"book_id"`
		Quantity int `json:"quantity"`
	}{BookID: bookID, Quantity: quantity}

	var out cartItemEnvelope
	if err := c.do(ctx, http.MethodPost, "/cart", in, &out); err != nil {
		return CartItem{}, err
	}
	return out.CartItem, nil
}

// UpdateCartItem sets the quantity of an existing line.
func (c *Client) UpdateCartItem(ctx context.Context, itemID, quantity int) (CartItem, error) {
	in := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}

	var out cartItemEnvelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cart/%d", itemID), in, &out); err != nil {
		return CartItem{}, err
	}
	return out.CartItem, nil
}

// RemoveCartItem deletes one line from the cart.
func (c *Client) RemoveCartItem(ctx context.Context, itemID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/%d", itemID), nil, nil)
}
